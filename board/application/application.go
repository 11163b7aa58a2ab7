package application

import (
	"time"

	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// ApplicationStatus represents the review state of an application
type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationStatusShortlisted ApplicationStatus = "SHORTLISTED"
	ApplicationStatusRejected    ApplicationStatus = "REJECTED"
	ApplicationStatusWithdrawn   ApplicationStatus = "WITHDRAWN"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusShortlisted,
		ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// Application connects a candidate to a posting. Employer is denormalized
// from the posting at submit time so visibility queries never need a join.
type Application struct {
	ID          kernel.ApplicationID `db:"id" json:"id"`
	JobID       kernel.JobID         `db:"job_id" json:"job_id"`
	Employer    kernel.EmployerID    `db:"employer_id" json:"employer_id"`
	CandidateID kernel.CandidateID   `db:"candidate_id" json:"candidate_id"`
	Applicant   kernel.UserID        `db:"applicant_id" json:"applicant_id"`
	CoverNote   string               `db:"cover_note" json:"cover_note"`
	Status      ApplicationStatus    `db:"status" json:"status"`
	SubmittedAt time.Time            `db:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updated_at"`
}

// OwnerEmployer makes applications subjects of the employer-assignment
// rule: whoever manages the posting manages its applications.
func (a *Application) OwnerEmployer() kernel.EmployerID {
	return a.Employer
}

// IsOpen reports whether the application is still under review
func (a *Application) IsOpen() bool {
	return a.Status == ApplicationStatusSubmitted || a.Status == ApplicationStatusShortlisted
}
