package alert

import (
	"net/http"

	"github.com/matchbox-hr/matchbox/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("ALERT")

// Error codes
var (
	CodeAlertNotFound    = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Alert subscription not found")
	CodeInvalidKind      = ErrRegistry.Register("INVALID_KIND", errx.TypeValidation, http.StatusBadRequest, "Unknown alert kind")
	CodeInvalidFrequency = ErrRegistry.Register("INVALID_FREQUENCY", errx.TypeValidation, http.StatusBadRequest, "Unknown alert frequency")
	CodeMissingContact   = ErrRegistry.Register("MISSING_CONTACT", errx.TypeBusiness, http.StatusUnprocessableEntity, "Subscription owner has no contact address")
	CodeNotifyFailed     = ErrRegistry.Register("NOTIFY_FAILED", errx.TypeExternal, http.StatusBadGateway, "Notification delivery failed")
)

// Helper functions
func ErrAlertNotFound() *errx.Error {
	return ErrRegistry.New(CodeAlertNotFound)
}

func ErrInvalidKind() *errx.Error {
	return ErrRegistry.New(CodeInvalidKind)
}

func ErrInvalidFrequency() *errx.Error {
	return ErrRegistry.New(CodeInvalidFrequency)
}

func ErrMissingContact() *errx.Error {
	return ErrRegistry.New(CodeMissingContact)
}

func ErrNotifyFailed() *errx.Error {
	return ErrRegistry.New(CodeNotifyFailed)
}
