package application

import (
	"net/http"

	"github.com/matchbox-hr/matchbox/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("APPLICATION")

// Error codes
var (
	CodeApplicationNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Application not found")
	CodeAlreadyApplied      = ErrRegistry.Register("ALREADY_APPLIED", errx.TypeConflict, http.StatusConflict, "Candidate has already applied to this job")
	CodeJobNotOpen          = ErrRegistry.Register("JOB_NOT_OPEN", errx.TypeBusiness, http.StatusUnprocessableEntity, "Job is not accepting applications")
	CodeInvalidStatus       = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Unknown application status")
	CodeInvalidApplication  = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "Application is malformed")
)

// Helper functions
func ErrApplicationNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicationNotFound)
}

func ErrAlreadyApplied() *errx.Error {
	return ErrRegistry.New(CodeAlreadyApplied)
}

func ErrJobNotOpen() *errx.Error {
	return ErrRegistry.New(CodeJobNotOpen)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrInvalidApplication() *errx.Error {
	return ErrRegistry.New(CodeInvalidApplication)
}
