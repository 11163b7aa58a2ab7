package job

import (
	"time"

	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// JobStatus represents the lifecycle state of a posting
type JobStatus string

const (
	JobStatusDraft     JobStatus = "DRAFT"     // Created but not visible to candidates
	JobStatusPublished JobStatus = "PUBLISHED" // Live and accepting applications
	JobStatusClosed    JobStatus = "CLOSED"    // No longer accepting applications
)

// Job is a posting owned by an employer account. Employer is the owning
// account; PostedBy is whoever created it, which differs when an hr-admin
// posts on an employer's behalf.
type Job struct {
	ID              kernel.JobID               `db:"id" json:"id"`
	Employer        kernel.EmployerID          `db:"employer_id" json:"employer_id"`
	PostedBy        kernel.UserID              `db:"posted_by" json:"posted_by"`
	Title           kernel.JobTitle            `db:"title" json:"title"`
	Description     kernel.JobDescription      `db:"description" json:"description"`
	FunctionalAreas []kernel.FunctionalAreaID  `db:"functional_areas" json:"functional_areas"`
	Industry        kernel.IndustryID          `db:"industry" json:"industry"`
	Role            kernel.JobRoleID           `db:"role" json:"role"`
	Skills          []kernel.SkillID           `db:"skills" json:"skills"`
	Specialisms     []kernel.Specialism        `db:"specialisms" json:"specialisms"`
	City            kernel.City                `db:"city" json:"city"`
	OfferedSalary   kernel.OfferedSalary       `db:"offered_salary" json:"offered_salary"`
	JobType         kernel.JobType             `db:"job_type" json:"job_type"`
	Experience      kernel.ExperienceLevel     `db:"experience" json:"experience"`
	Status          JobStatus                  `db:"status" json:"status"`
	PublishedAt     *time.Time                 `db:"published_at" json:"published_at,omitempty"`
	CreatedAt       time.Time                  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time                  `db:"updated_at" json:"updated_at"`
}

// OwnerEmployer satisfies the authorization subject contract
func (j *Job) OwnerEmployer() kernel.EmployerID {
	return j.Employer
}

// IsPublished checks if the job is currently live
func (j *Job) IsPublished() bool {
	return j.Status == JobStatusPublished
}

// IsDraft checks if the job is in draft status
func (j *Job) IsDraft() bool {
	return j.Status == JobStatusDraft
}

// IsClosed checks if the job is closed
func (j *Job) IsClosed() bool {
	return j.Status == JobStatusClosed
}

// Publish marks a draft job as published
func (j *Job) Publish() error {
	if j.IsPublished() {
		return ErrJobAlreadyPublished()
	}
	if !j.IsDraft() {
		return ErrCannotPublish().WithDetail("current_status", j.Status)
	}

	now := time.Now()
	j.Status = JobStatusPublished
	j.PublishedAt = &now
	j.UpdatedAt = now
	return nil
}

// Close stops a published job from accepting applications
func (j *Job) Close() error {
	if !j.IsPublished() {
		return ErrCannotClose().WithDetail("current_status", j.Status)
	}
	j.Status = JobStatusClosed
	j.UpdatedAt = time.Now()
	return nil
}

// Reopen brings a closed job back to published. Reopening restores
// visibility only; it is not a publish transition.
func (j *Job) Reopen() error {
	if !j.IsClosed() {
		return ErrCannotReopen().WithDetail("current_status", j.Status)
	}
	j.Status = JobStatusPublished
	j.UpdatedAt = time.Now()
	return nil
}
