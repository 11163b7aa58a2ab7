package candidateinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/matchbox-hr/matchbox/board/candidate"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// PostgresCandidateRepository implements candidate.Repository using PostgreSQL
type PostgresCandidateRepository struct {
	db *sqlx.DB
}

// NewPostgresCandidateRepository creates a new PostgreSQL candidate repository
func NewPostgresCandidateRepository(db *sqlx.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{
		db: db,
	}
}

// ============================================================================
// Database Model
// ============================================================================

type profileModel struct {
	ID          string         `db:"id"`
	OwnerID     string         `db:"owner_id"`
	Headline    string         `db:"headline"`
	Summary     string         `db:"summary"`
	Skills      pq.StringArray `db:"skills"`
	Specialisms pq.StringArray `db:"specialisms"`
	City        string         `db:"city"`
	Experience  string         `db:"experience"`
	Education   string         `db:"education"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

const profileColumns = `
	id, owner_id, headline, summary, skills, specialisms,
	city, experience, education, created_at, updated_at
`

// toEntity converts database model to domain entity
func (m *profileModel) toEntity() *candidate.Profile {
	skills := make([]kernel.SkillID, 0, len(m.Skills))
	for _, s := range m.Skills {
		skills = append(skills, kernel.SkillID(s))
	}
	specialisms := make([]kernel.Specialism, 0, len(m.Specialisms))
	for _, s := range m.Specialisms {
		specialisms = append(specialisms, kernel.Specialism(s))
	}

	return &candidate.Profile{
		ID:          kernel.CandidateID(m.ID),
		Owner:       kernel.UserID(m.OwnerID),
		Headline:    m.Headline,
		Summary:     m.Summary,
		Skills:      skills,
		Specialisms: specialisms,
		City:        kernel.City(m.City),
		Experience:  kernel.ExperienceLevel(m.Experience),
		Education:   m.Education,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// fromEntity converts domain entity to database model
func fromEntity(p *candidate.Profile) *profileModel {
	skills := make(pq.StringArray, 0, len(p.Skills))
	for _, s := range p.Skills {
		skills = append(skills, string(s))
	}
	specialisms := make(pq.StringArray, 0, len(p.Specialisms))
	for _, s := range p.Specialisms {
		specialisms = append(specialisms, string(s))
	}

	return &profileModel{
		ID:          string(p.ID),
		OwnerID:     string(p.Owner),
		Headline:    p.Headline,
		Summary:     p.Summary,
		Skills:      skills,
		Specialisms: specialisms,
		City:        string(p.City),
		Experience:  string(p.Experience),
		Education:   p.Education,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new profile. owner_id carries a unique constraint: one
// profile per account.
func (r *PostgresCandidateRepository) Create(ctx context.Context, profile *candidate.Profile) error {
	model := fromEntity(profile)

	query := `
		INSERT INTO candidate_profiles (
			id, owner_id, headline, summary, skills, specialisms,
			city, experience, education, created_at, updated_at
		) VALUES (
			:id, :owner_id, :headline, :summary, :skills, :specialisms,
			:city, :experience, :education, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return candidate.ErrProfileAlreadyExists()
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// Update updates an existing profile
func (r *PostgresCandidateRepository) Update(ctx context.Context, id kernel.CandidateID, profile *candidate.Profile) error {
	model := fromEntity(profile)
	model.ID = string(id)

	query := `
		UPDATE candidate_profiles SET
			headline = :headline,
			summary = :summary,
			skills = :skills,
			specialisms = :specialisms,
			city = :city,
			experience = :experience,
			education = :education,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return candidate.ErrProfileNotFound()
	}

	return nil
}

// GetByID retrieves a profile by ID
func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id kernel.CandidateID) (*candidate.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM candidate_profiles WHERE id = $1`

	var model profileModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, candidate.ErrProfileNotFound()
		}
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}

	return model.toEntity(), nil
}

// GetByOwner retrieves the profile belonging to a user account
func (r *PostgresCandidateRepository) GetByOwner(ctx context.Context, owner kernel.UserID) (*candidate.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM candidate_profiles WHERE owner_id = $1`

	var model profileModel
	err := r.db.GetContext(ctx, &model, query, string(owner))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, candidate.ErrProfileNotFound()
		}
		return nil, fmt.Errorf("failed to get profile by owner: %w", err)
	}

	return model.toEntity(), nil
}

// Delete deletes a profile by ID
func (r *PostgresCandidateRepository) Delete(ctx context.Context, id kernel.CandidateID) error {
	query := `DELETE FROM candidate_profiles WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return candidate.ErrProfileNotFound()
	}

	return nil
}

// List retrieves profiles with pagination
func (r *PostgresCandidateRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[candidate.Profile], error) {
	// Count total
	var total int
	countQuery := `SELECT COUNT(*) FROM candidate_profiles`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}

	// Get paginated results
	query := `
		SELECT ` + profileColumns + `
		FROM candidate_profiles
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`

	var models []profileModel
	err := r.db.SelectContext(ctx, &models, query, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	entities := make([]candidate.Profile, 0, len(models))
	for i := range models {
		entities = append(entities, *models[i].toEntity())
	}

	return &kernel.Paginated[candidate.Profile]{
		Items: entities,
		Page:  kernel.NewPage(pagination, total),
		Empty: len(entities) == 0,
	}, nil
}
