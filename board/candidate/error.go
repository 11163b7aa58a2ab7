package candidate

import (
	"net/http"

	"github.com/matchbox-hr/matchbox/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("CANDIDATE")

// Error codes
var (
	CodeProfileNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidate profile not found")
	CodeProfileAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Candidate profile already exists")
	CodeInvalidProfile       = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "Candidate profile is malformed")
)

// Helper functions
func ErrProfileNotFound() *errx.Error {
	return ErrRegistry.New(CodeProfileNotFound)
}

func ErrProfileAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeProfileAlreadyExists)
}

func ErrInvalidProfile() *errx.Error {
	return ErrRegistry.New(CodeInvalidProfile)
}
