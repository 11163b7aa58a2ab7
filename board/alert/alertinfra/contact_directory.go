package alertinfra

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// PostgresContactDirectory resolves subscription owners to email
// addresses from the users table
type PostgresContactDirectory struct {
	db *sqlx.DB
}

// NewPostgresContactDirectory creates a new contact directory
func NewPostgresContactDirectory(db *sqlx.DB) alert.ContactDirectory {
	return &PostgresContactDirectory{
		db: db,
	}
}

// EmailFor retrieves the owner's email address. A missing user comes
// back as ErrMissingContact so the dispatcher can skip rather than fail.
func (d *PostgresContactDirectory) EmailFor(ctx context.Context, owner kernel.UserID) (kernel.Email, error) {
	query := `SELECT email FROM users WHERE id = $1`

	var email string
	err := d.db.GetContext(ctx, &email, query, string(owner))
	if err != nil {
		if err == sql.ErrNoRows {
			return "", alert.ErrMissingContact().WithDetail("owner_id", owner.String())
		}
		return "", fmt.Errorf("failed to look up contact for %s: %w", owner, err)
	}

	return kernel.Email(email), nil
}
