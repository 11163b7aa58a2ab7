package alertinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// PostgresAlertRepository implements alert.Repository using PostgreSQL
type PostgresAlertRepository struct {
	db *sqlx.DB
}

// NewPostgresAlertRepository creates a new PostgreSQL alert repository
func NewPostgresAlertRepository(db *sqlx.DB) *PostgresAlertRepository {
	return &PostgresAlertRepository{
		db: db,
	}
}

// ============================================================================
// Database Model
// ============================================================================

// Criteria is stored as one JSONB column: dimensions are all optional and
// queried only by the matcher, never filtered on in SQL.
type subscriptionModel struct {
	ID           string          `db:"id"`
	Kind         string          `db:"kind"`
	OwnerID      string          `db:"owner_id"`
	Criteria     json.RawMessage `db:"criteria"`
	Frequency    string          `db:"frequency"`
	IsActive     bool            `db:"is_active"`
	EmailsSent   int64           `db:"emails_sent"`
	TotalMatches int64           `db:"total_matches"`
	LastMatch    *time.Time      `db:"last_match"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

const subscriptionColumns = `
	id, kind, owner_id, criteria, frequency, is_active,
	emails_sent, total_matches, last_match, created_at, updated_at
`

// toEntity converts database model to domain entity
func (m *subscriptionModel) toEntity() (*alert.Subscription, error) {
	var criteria alert.Criteria
	if len(m.Criteria) > 0 {
		if err := json.Unmarshal(m.Criteria, &criteria); err != nil {
			return nil, fmt.Errorf("failed to unmarshal criteria: %w", err)
		}
	}

	return &alert.Subscription{
		ID:        kernel.AlertID(m.ID),
		Kind:      alert.Kind(m.Kind),
		Owner:     kernel.UserID(m.OwnerID),
		Criteria:  criteria,
		Frequency: alert.Frequency(m.Frequency),
		IsActive:  m.IsActive,
		Stats: alert.Stats{
			EmailsSent:   m.EmailsSent,
			TotalMatches: m.TotalMatches,
			LastMatch:    m.LastMatch,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// fromEntity converts domain entity to database model
func fromEntity(sub *alert.Subscription) (*subscriptionModel, error) {
	criteria, err := json.Marshal(sub.Criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal criteria: %w", err)
	}

	return &subscriptionModel{
		ID:           string(sub.ID),
		Kind:         string(sub.Kind),
		OwnerID:      string(sub.Owner),
		Criteria:     criteria,
		Frequency:    string(sub.Frequency),
		IsActive:     sub.IsActive,
		EmailsSent:   sub.Stats.EmailsSent,
		TotalMatches: sub.Stats.TotalMatches,
		LastMatch:    sub.Stats.LastMatch,
		CreatedAt:    sub.CreatedAt,
		UpdatedAt:    sub.UpdatedAt,
	}, nil
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new subscription
func (r *PostgresAlertRepository) Create(ctx context.Context, sub *alert.Subscription) error {
	model, err := fromEntity(sub)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO alert_subscriptions (
			id, kind, owner_id, criteria, frequency, is_active,
			emails_sent, total_matches, last_match, created_at, updated_at
		) VALUES (
			:id, :kind, :owner_id, :criteria, :frequency, :is_active,
			:emails_sent, :total_matches, :last_match, :created_at, :updated_at
		)
	`

	_, err = r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return fmt.Errorf("subscription %s already exists: %w", sub.ID, err)
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// Update updates a subscription's criteria, frequency and active flag.
// Counters are excluded: only RecordDelivery touches them.
func (r *PostgresAlertRepository) Update(ctx context.Context, id kernel.AlertID, sub *alert.Subscription) error {
	model, err := fromEntity(sub)
	if err != nil {
		return err
	}
	model.ID = string(id)

	query := `
		UPDATE alert_subscriptions SET
			criteria = :criteria,
			frequency = :frequency,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return alert.ErrAlertNotFound()
	}

	return nil
}

// GetByID retrieves a subscription by ID
func (r *PostgresAlertRepository) GetByID(ctx context.Context, id kernel.AlertID) (*alert.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM alert_subscriptions WHERE id = $1`

	var model subscriptionModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, alert.ErrAlertNotFound()
		}
		return nil, fmt.Errorf("failed to get subscription by id: %w", err)
	}

	return model.toEntity()
}

// Delete deletes a subscription by ID
func (r *PostgresAlertRepository) Delete(ctx context.Context, id kernel.AlertID) error {
	query := `DELETE FROM alert_subscriptions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return alert.ErrAlertNotFound()
	}

	return nil
}

// ListByOwner retrieves subscriptions belonging to a user
func (r *PostgresAlertRepository) ListByOwner(ctx context.Context, owner kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[alert.Subscription], error) {
	// Count total
	var total int
	countQuery := `SELECT COUNT(*) FROM alert_subscriptions WHERE owner_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, string(owner)); err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	// Get paginated results
	query := `
		SELECT ` + subscriptionColumns + `
		FROM alert_subscriptions
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var models []subscriptionModel
	err := r.db.SelectContext(ctx, &models, query, string(owner), pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	entities := make([]alert.Subscription, 0, len(models))
	for i := range models {
		entity, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}

	return &kernel.Paginated[alert.Subscription]{
		Items: entities,
		Page:  kernel.NewPage(pagination, total),
		Empty: len(entities) == 0,
	}, nil
}

// ListActiveInstant retrieves the working set of one dispatch pass
func (r *PostgresAlertRepository) ListActiveInstant(ctx context.Context, kind alert.Kind) ([]alert.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM alert_subscriptions
		WHERE kind = $1 AND frequency = $2 AND is_active = TRUE
	`

	var models []subscriptionModel
	err := r.db.SelectContext(ctx, &models, query, string(kind), string(alert.FrequencyInstant))
	if err != nil {
		return nil, fmt.Errorf("failed to list active instant subscriptions: %w", err)
	}

	entities := make([]alert.Subscription, 0, len(models))
	for i := range models {
		entity, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}

	return entities, nil
}

// RecordDelivery bumps the delivery counters in a single UPDATE, so
// concurrent dispatch goroutines never lose increments.
func (r *PostgresAlertRepository) RecordDelivery(ctx context.Context, id kernel.AlertID, at time.Time) error {
	query := `
		UPDATE alert_subscriptions
		SET emails_sent = emails_sent + 1,
		    total_matches = total_matches + 1,
		    last_match = $1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, at, string(id))
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return alert.ErrAlertNotFound()
	}

	return nil
}
