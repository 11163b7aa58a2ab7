package candidate

import (
	"context"

	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

type Repository interface {
	// Create creates a new profile
	Create(ctx context.Context, profile *Profile) error

	// Update updates an existing profile
	Update(ctx context.Context, id kernel.CandidateID, profile *Profile) error

	// GetByID retrieves a profile by ID
	GetByID(ctx context.Context, id kernel.CandidateID) (*Profile, error)

	// GetByOwner retrieves the profile belonging to a user account
	GetByOwner(ctx context.Context, owner kernel.UserID) (*Profile, error)

	// Delete deletes a profile by ID
	Delete(ctx context.Context, id kernel.CandidateID) error

	// List retrieves profiles with pagination
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Profile], error)
}
