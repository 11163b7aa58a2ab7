package job

import (
	"time"

	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// CreateJobRequest - DTO for creating a new posting
type CreateJobRequest struct {
	Employer        kernel.EmployerID         `json:"employer_id" validate:"required"`
	Title           kernel.JobTitle           `json:"title" validate:"required"`
	Description     kernel.JobDescription     `json:"description" validate:"required"`
	FunctionalAreas []kernel.FunctionalAreaID `json:"functional_areas,omitempty"`
	Industry        kernel.IndustryID         `json:"industry,omitempty"`
	Role            kernel.JobRoleID          `json:"role,omitempty"`
	Skills          []kernel.SkillID          `json:"skills,omitempty"`
	Specialisms     []kernel.Specialism       `json:"specialisms,omitempty"`
	City            kernel.City               `json:"city,omitempty"`
	OfferedSalary   kernel.OfferedSalary      `json:"offered_salary,omitempty"`
	JobType         kernel.JobType            `json:"job_type,omitempty"`
	Experience      kernel.ExperienceLevel    `json:"experience,omitempty"`
	// PublishImmediately creates the posting directly as PUBLISHED,
	// which counts as a publish transition.
	PublishImmediately bool `json:"publish_immediately,omitempty"`
}

// UpdateJobRequest - DTO for updating an existing posting
type UpdateJobRequest struct {
	Title           *kernel.JobTitle           `json:"title,omitempty"`
	Description     *kernel.JobDescription     `json:"description,omitempty"`
	FunctionalAreas *[]kernel.FunctionalAreaID `json:"functional_areas,omitempty"`
	Industry        *kernel.IndustryID         `json:"industry,omitempty"`
	Role            *kernel.JobRoleID          `json:"role,omitempty"`
	Skills          *[]kernel.SkillID          `json:"skills,omitempty"`
	Specialisms     *[]kernel.Specialism       `json:"specialisms,omitempty"`
	City            *kernel.City               `json:"city,omitempty"`
	OfferedSalary   *kernel.OfferedSalary      `json:"offered_salary,omitempty"`
	JobType         *kernel.JobType            `json:"job_type,omitempty"`
	Experience      *kernel.ExperienceLevel    `json:"experience,omitempty"`
}

// Response type alias for paginated jobs
type PaginatedJobsResponse = kernel.Paginated[JobResponse]

// JobResponse - DTO for returning posting data
type JobResponse struct {
	ID              kernel.JobID              `json:"id"`
	Employer        kernel.EmployerID         `json:"employer_id"`
	PostedBy        kernel.UserID             `json:"posted_by"`
	Title           kernel.JobTitle           `json:"title"`
	Description     kernel.JobDescription     `json:"description"`
	FunctionalAreas []kernel.FunctionalAreaID `json:"functional_areas"`
	Industry        kernel.IndustryID         `json:"industry"`
	Role            kernel.JobRoleID          `json:"role"`
	Skills          []kernel.SkillID          `json:"skills"`
	Specialisms     []kernel.Specialism       `json:"specialisms"`
	City            kernel.City               `json:"city"`
	OfferedSalary   kernel.OfferedSalary      `json:"offered_salary"`
	JobType         kernel.JobType            `json:"job_type"`
	Experience      kernel.ExperienceLevel    `json:"experience"`
	Status          JobStatus                 `json:"status"`
	PublishedAt     *time.Time                `json:"published_at,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}
