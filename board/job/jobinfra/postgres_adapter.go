package jobinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/matchbox-hr/matchbox/board/job"
	"github.com/matchbox-hr/matchbox/pkg/iam/authz"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// PostgresJobRepository implements job.Repository using PostgreSQL
type PostgresJobRepository struct {
	db *sqlx.DB
}

// NewPostgresJobRepository creates a new PostgreSQL job repository
func NewPostgresJobRepository(db *sqlx.DB) *PostgresJobRepository {
	return &PostgresJobRepository{
		db: db,
	}
}

// ============================================================================
// Database Model
// ============================================================================

type jobModel struct {
	ID              string         `db:"id"`
	EmployerID      string         `db:"employer_id"`
	PostedBy        string         `db:"posted_by"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	FunctionalAreas pq.StringArray `db:"functional_areas"`
	Industry        string         `db:"industry"`
	JobRole         string         `db:"job_role"`
	Skills          pq.StringArray `db:"skills"`
	Specialisms     pq.StringArray `db:"specialisms"`
	City            string         `db:"city"`
	OfferedSalary   string         `db:"offered_salary"`
	JobType         string         `db:"job_type"`
	Experience      string         `db:"experience"`
	Status          string         `db:"status"`
	PublishedAt     *time.Time     `db:"published_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

const jobColumns = `
	id, employer_id, posted_by, title, description,
	functional_areas, industry, job_role, skills, specialisms,
	city, offered_salary, job_type, experience, status,
	published_at, created_at, updated_at
`

// toEntity converts database model to domain entity
func (m *jobModel) toEntity() *job.Job {
	functionalAreas := make([]kernel.FunctionalAreaID, 0, len(m.FunctionalAreas))
	for _, fa := range m.FunctionalAreas {
		functionalAreas = append(functionalAreas, kernel.FunctionalAreaID(fa))
	}
	skills := make([]kernel.SkillID, 0, len(m.Skills))
	for _, s := range m.Skills {
		skills = append(skills, kernel.SkillID(s))
	}
	specialisms := make([]kernel.Specialism, 0, len(m.Specialisms))
	for _, s := range m.Specialisms {
		specialisms = append(specialisms, kernel.Specialism(s))
	}

	return &job.Job{
		ID:              kernel.JobID(m.ID),
		Employer:        kernel.EmployerID(m.EmployerID),
		PostedBy:        kernel.UserID(m.PostedBy),
		Title:           kernel.JobTitle(m.Title),
		Description:     kernel.JobDescription(m.Description),
		FunctionalAreas: functionalAreas,
		Industry:        kernel.IndustryID(m.Industry),
		Role:            kernel.JobRoleID(m.JobRole),
		Skills:          skills,
		Specialisms:     specialisms,
		City:            kernel.City(m.City),
		OfferedSalary:   kernel.OfferedSalary(m.OfferedSalary),
		JobType:         kernel.JobType(m.JobType),
		Experience:      kernel.ExperienceLevel(m.Experience),
		Status:          job.JobStatus(m.Status),
		PublishedAt:     m.PublishedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// fromEntity converts domain entity to database model
func fromEntity(j *job.Job) *jobModel {
	functionalAreas := make(pq.StringArray, 0, len(j.FunctionalAreas))
	for _, fa := range j.FunctionalAreas {
		functionalAreas = append(functionalAreas, string(fa))
	}
	skills := make(pq.StringArray, 0, len(j.Skills))
	for _, s := range j.Skills {
		skills = append(skills, string(s))
	}
	specialisms := make(pq.StringArray, 0, len(j.Specialisms))
	for _, s := range j.Specialisms {
		specialisms = append(specialisms, string(s))
	}

	return &jobModel{
		ID:              string(j.ID),
		EmployerID:      string(j.Employer),
		PostedBy:        string(j.PostedBy),
		Title:           string(j.Title),
		Description:     string(j.Description),
		FunctionalAreas: functionalAreas,
		Industry:        string(j.Industry),
		JobRole:         string(j.Role),
		Skills:          skills,
		Specialisms:     specialisms,
		City:            string(j.City),
		OfferedSalary:   string(j.OfferedSalary),
		JobType:         string(j.JobType),
		Experience:      string(j.Experience),
		Status:          string(j.Status),
		PublishedAt:     j.PublishedAt,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new job
func (r *PostgresJobRepository) Create(ctx context.Context, jobEntity *job.Job) error {
	model := fromEntity(jobEntity)

	query := `
		INSERT INTO jobs (
			id, employer_id, posted_by, title, description,
			functional_areas, industry, job_role, skills, specialisms,
			city, offered_salary, job_type, experience, status,
			published_at, created_at, updated_at
		) VALUES (
			:id, :employer_id, :posted_by, :title, :description,
			:functional_areas, :industry, :job_role, :skills, :specialisms,
			:city, :offered_salary, :job_type, :experience, :status,
			:published_at, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return job.ErrJobAlreadyExists()
			}
			if pqErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("invalid employer or poster reference: %w", err)
			}
		}
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// Update updates an existing job. The owning employer and poster never
// change after creation.
func (r *PostgresJobRepository) Update(ctx context.Context, id kernel.JobID, jobEntity *job.Job) error {
	model := fromEntity(jobEntity)
	model.ID = string(id)

	query := `
		UPDATE jobs SET
			title = :title,
			description = :description,
			functional_areas = :functional_areas,
			industry = :industry,
			job_role = :job_role,
			skills = :skills,
			specialisms = :specialisms,
			city = :city,
			offered_salary = :offered_salary,
			job_type = :job_type,
			experience = :experience,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return job.ErrJobNotFound()
	}

	return nil
}

// GetByID retrieves a job by ID
func (r *PostgresJobRepository) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	var model jobModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, job.ErrJobNotFound()
		}
		return nil, fmt.Errorf("failed to get job by id: %w", err)
	}

	return model.toEntity(), nil
}

// Delete deletes a job by ID
func (r *PostgresJobRepository) Delete(ctx context.Context, id kernel.JobID) error {
	query := `DELETE FROM jobs WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return job.ErrJobNotFound()
	}

	return nil
}

// ListVisible retrieves the jobs a principal's scope allows. The scope is
// rendered into the WHERE clause so filtering happens in the database.
func (r *PostgresJobRepository) ListVisible(ctx context.Context, scope authz.Scope, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	predicate, args := scope.Where("employer_id", 1)

	// Count total
	var total int
	countQuery := `SELECT COUNT(*) FROM jobs WHERE ` + predicate
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to count visible jobs: %w", err)
	}

	// Get paginated results
	query := fmt.Sprintf(`
		SELECT `+jobColumns+`
		FROM jobs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, predicate, len(args)+1, len(args)+2)
	args = append(args, pagination.PageSize, pagination.Offset())

	var models []jobModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list visible jobs: %w", err)
	}

	return paginate(models, pagination, total), nil
}

// ListPublished retrieves live postings for the public board
func (r *PostgresJobRepository) ListPublished(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	// Count total
	var total int
	countQuery := `SELECT COUNT(*) FROM jobs WHERE status = 'PUBLISHED'`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, fmt.Errorf("failed to count published jobs: %w", err)
	}

	// Get paginated results
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE status = 'PUBLISHED'
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`

	var models []jobModel
	err := r.db.SelectContext(ctx, &models, query, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list published jobs: %w", err)
	}

	return paginate(models, pagination, total), nil
}

// Publish transitions a DRAFT job to PUBLISHED. The status guard in the
// WHERE clause makes the transition first-writer-wins: a concurrent
// second publish affects zero rows.
func (r *PostgresJobRepository) Publish(ctx context.Context, id kernel.JobID) error {
	query := `
		UPDATE jobs
		SET status = 'PUBLISHED',
		    published_at = $1,
		    updated_at = $1
		WHERE id = $2 AND status = 'DRAFT'
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, now, string(id))
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return job.ErrCannotPublish().WithDetail("job_id", id.String())
	}

	return nil
}

// Close transitions a PUBLISHED job to CLOSED
func (r *PostgresJobRepository) Close(ctx context.Context, id kernel.JobID) error {
	query := `
		UPDATE jobs
		SET status = 'CLOSED',
		    updated_at = $1
		WHERE id = $2 AND status = 'PUBLISHED'
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, now, string(id))
	if err != nil {
		return fmt.Errorf("failed to close job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return job.ErrCannotClose().WithDetail("job_id", id.String())
	}

	return nil
}

// Reopen transitions a CLOSED job back to PUBLISHED without touching
// published_at, so reopening never looks like a fresh publish.
func (r *PostgresJobRepository) Reopen(ctx context.Context, id kernel.JobID) error {
	query := `
		UPDATE jobs
		SET status = 'PUBLISHED',
		    updated_at = $1
		WHERE id = $2 AND status = 'CLOSED'
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, now, string(id))
	if err != nil {
		return fmt.Errorf("failed to reopen job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return job.ErrCannotReopen().WithDetail("job_id", id.String())
	}

	return nil
}

// ============================================================================
// Helper Methods
// ============================================================================

func paginate(models []jobModel, pagination kernel.PaginationOptions, total int) *kernel.Paginated[job.Job] {
	entities := make([]job.Job, 0, len(models))
	for i := range models {
		entities = append(entities, *models[i].toEntity())
	}
	return &kernel.Paginated[job.Job]{
		Items: entities,
		Page:  kernel.NewPage(pagination, total),
		Empty: len(entities) == 0,
	}
}
