package job

import (
	"context"

	"github.com/matchbox-hr/matchbox/pkg/iam/authz"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

type Repository interface {
	// Create creates a new job
	Create(ctx context.Context, job *Job) error

	// Update updates an existing job
	Update(ctx context.Context, id kernel.JobID, job *Job) error

	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id kernel.JobID) (*Job, error)

	// Delete deletes a job by ID
	Delete(ctx context.Context, id kernel.JobID) error

	// ListVisible retrieves the jobs a principal's scope allows,
	// pushing the scope into the query instead of filtering in memory
	ListVisible(ctx context.Context, scope authz.Scope, pagination kernel.PaginationOptions) (*kernel.Paginated[Job], error)

	// ListPublished retrieves live postings for the public board
	ListPublished(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Job], error)

	// Publish transitions a DRAFT job to PUBLISHED. Returns
	// ErrCannotPublish when the job is in any other state, so a
	// concurrent double-publish cannot fire twice.
	Publish(ctx context.Context, id kernel.JobID) error

	// Close transitions a PUBLISHED job to CLOSED
	Close(ctx context.Context, id kernel.JobID) error

	// Reopen transitions a CLOSED job back to PUBLISHED
	Reopen(ctx context.Context, id kernel.JobID) error
}
