package applicationinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/matchbox-hr/matchbox/board/application"
	"github.com/matchbox-hr/matchbox/pkg/iam/authz"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// PostgresApplicationRepository implements application.Repository using PostgreSQL
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

// NewPostgresApplicationRepository creates a new PostgreSQL application repository
func NewPostgresApplicationRepository(db *sqlx.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
	}
}

// ============================================================================
// Database Model
// ============================================================================

type applicationModel struct {
	ID          string    `db:"id"`
	JobID       string    `db:"job_id"`
	EmployerID  string    `db:"employer_id"`
	CandidateID string    `db:"candidate_id"`
	ApplicantID string    `db:"applicant_id"`
	CoverNote   string    `db:"cover_note"`
	Status      string    `db:"status"`
	SubmittedAt time.Time `db:"submitted_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const applicationColumns = `
	id, job_id, employer_id, candidate_id, applicant_id,
	cover_note, status, submitted_at, updated_at
`

// toEntity converts database model to domain entity
func (m *applicationModel) toEntity() *application.Application {
	return &application.Application{
		ID:          kernel.ApplicationID(m.ID),
		JobID:       kernel.JobID(m.JobID),
		Employer:    kernel.EmployerID(m.EmployerID),
		CandidateID: kernel.CandidateID(m.CandidateID),
		Applicant:   kernel.UserID(m.ApplicantID),
		CoverNote:   m.CoverNote,
		Status:      application.ApplicationStatus(m.Status),
		SubmittedAt: m.SubmittedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// fromEntity converts domain entity to database model
func fromEntity(a *application.Application) *applicationModel {
	return &applicationModel{
		ID:          string(a.ID),
		JobID:       string(a.JobID),
		EmployerID:  string(a.Employer),
		CandidateID: string(a.CandidateID),
		ApplicantID: string(a.Applicant),
		CoverNote:   a.CoverNote,
		Status:      string(a.Status),
		SubmittedAt: a.SubmittedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new application. (job_id, applicant_id) carries a
// unique constraint.
func (r *PostgresApplicationRepository) Create(ctx context.Context, app *application.Application) error {
	model := fromEntity(app)

	query := `
		INSERT INTO applications (
			id, job_id, employer_id, candidate_id, applicant_id,
			cover_note, status, submitted_at, updated_at
		) VALUES (
			:id, :job_id, :employer_id, :candidate_id, :applicant_id,
			:cover_note, :status, :submitted_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return application.ErrAlreadyApplied()
			}
			if pqErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("invalid job or candidate reference: %w", err)
			}
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// GetByID retrieves an application by ID
func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	var model applicationModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, application.ErrApplicationNotFound()
		}
		return nil, fmt.Errorf("failed to get application by id: %w", err)
	}

	return model.toEntity(), nil
}

// UpdateStatus moves an application through review
func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id kernel.ApplicationID, status application.ApplicationStatus) error {
	query := `
		UPDATE applications
		SET status = $1,
		    updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, string(status), time.Now(), string(id))
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return application.ErrApplicationNotFound()
	}

	return nil
}

// ExistsForJobAndApplicant reports whether the applicant already applied
func (r *PostgresApplicationRepository) ExistsForJobAndApplicant(ctx context.Context, jobID kernel.JobID, applicant kernel.UserID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, string(jobID), string(applicant))
	if err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}

	return exists, nil
}

// ListByJob retrieves applications for one posting
func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID kernel.JobID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	// Count total
	var total int
	countQuery := `SELECT COUNT(*) FROM applications WHERE job_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, string(jobID)); err != nil {
		return nil, fmt.Errorf("failed to count job applications: %w", err)
	}

	// Get paginated results
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE job_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2 OFFSET $3
	`

	var models []applicationModel
	err := r.db.SelectContext(ctx, &models, query, string(jobID), pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}

	return paginate(models, pagination, total), nil
}

// ListVisible retrieves the applications a principal's scope allows. The
// denormalized employer_id column keeps this a single-table query.
func (r *PostgresApplicationRepository) ListVisible(ctx context.Context, scope authz.Scope, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	predicate, args := scope.Where("employer_id", 1)

	// Count total
	var total int
	countQuery := `SELECT COUNT(*) FROM applications WHERE ` + predicate
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to count visible applications: %w", err)
	}

	// Get paginated results
	query := fmt.Sprintf(`
		SELECT `+applicationColumns+`
		FROM applications
		WHERE %s
		ORDER BY submitted_at DESC
		LIMIT $%d OFFSET $%d
	`, predicate, len(args)+1, len(args)+2)
	args = append(args, pagination.PageSize, pagination.Offset())

	var models []applicationModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list visible applications: %w", err)
	}

	return paginate(models, pagination, total), nil
}

// ListByApplicant retrieves a candidate's own applications
func (r *PostgresApplicationRepository) ListByApplicant(ctx context.Context, applicant kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	// Count total
	var total int
	countQuery := `SELECT COUNT(*) FROM applications WHERE applicant_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, string(applicant)); err != nil {
		return nil, fmt.Errorf("failed to count own applications: %w", err)
	}

	// Get paginated results
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE applicant_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2 OFFSET $3
	`

	var models []applicationModel
	err := r.db.SelectContext(ctx, &models, query, string(applicant), pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list own applications: %w", err)
	}

	return paginate(models, pagination, total), nil
}

// ============================================================================
// Helper Methods
// ============================================================================

func paginate(models []applicationModel, pagination kernel.PaginationOptions, total int) *kernel.Paginated[application.Application] {
	entities := make([]application.Application, 0, len(models))
	for i := range models {
		entities = append(entities, *models[i].toEntity())
	}
	return &kernel.Paginated[application.Application]{
		Items: entities,
		Page:  kernel.NewPage(pagination, total),
		Empty: len(entities) == 0,
	}
}
