package job

import (
	"net/http"

	"github.com/matchbox-hr/matchbox/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("JOB")

// Error codes
var (
	CodeJobNotFound         = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job not found")
	CodeJobAlreadyExists    = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Job already exists")
	CodeJobAlreadyPublished = ErrRegistry.Register("ALREADY_PUBLISHED", errx.TypeBusiness, http.StatusConflict, "Job is already published")
	CodeCannotPublish       = ErrRegistry.Register("CANNOT_PUBLISH", errx.TypeBusiness, http.StatusBadRequest, "Job cannot be published in current state")
	CodeCannotClose         = ErrRegistry.Register("CANNOT_CLOSE", errx.TypeBusiness, http.StatusBadRequest, "Job cannot be closed in current state")
	CodeCannotReopen        = ErrRegistry.Register("CANNOT_REOPEN", errx.TypeBusiness, http.StatusBadRequest, "Job cannot be reopened in current state")
	CodeInvalidJob          = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "Job is malformed")
)

// Helper functions
func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrJobAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeJobAlreadyExists)
}

func ErrJobAlreadyPublished() *errx.Error {
	return ErrRegistry.New(CodeJobAlreadyPublished)
}

func ErrCannotPublish() *errx.Error {
	return ErrRegistry.New(CodeCannotPublish)
}

func ErrCannotClose() *errx.Error {
	return ErrRegistry.New(CodeCannotClose)
}

func ErrCannotReopen() *errx.Error {
	return ErrRegistry.New(CodeCannotReopen)
}

func ErrInvalidJob() *errx.Error {
	return ErrRegistry.New(CodeInvalidJob)
}
