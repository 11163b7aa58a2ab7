package application

import (
	"context"

	"github.com/matchbox-hr/matchbox/pkg/iam/authz"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

type Repository interface {
	// Create creates a new application
	Create(ctx context.Context, app *Application) error

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)

	// UpdateStatus moves an application through review
	UpdateStatus(ctx context.Context, id kernel.ApplicationID, status ApplicationStatus) error

	// ExistsForJobAndApplicant reports whether the applicant already
	// applied to the job
	ExistsForJobAndApplicant(ctx context.Context, jobID kernel.JobID, applicant kernel.UserID) (bool, error)

	// ListByJob retrieves applications for one posting
	ListByJob(ctx context.Context, jobID kernel.JobID, pagination kernel.PaginationOptions) (*kernel.Paginated[Application], error)

	// ListVisible retrieves the applications a principal's scope allows,
	// across all of their postings
	ListVisible(ctx context.Context, scope authz.Scope, pagination kernel.PaginationOptions) (*kernel.Paginated[Application], error)

	// ListByApplicant retrieves a candidate's own applications
	ListByApplicant(ctx context.Context, applicant kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[Application], error)
}
