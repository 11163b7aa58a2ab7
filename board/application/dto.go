package application

import (
	"time"

	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// SubmitApplicationRequest - DTO for applying to a posting
type SubmitApplicationRequest struct {
	JobID     kernel.JobID `json:"job_id" validate:"required"`
	CoverNote string       `json:"cover_note,omitempty"`
}

// UpdateStatusRequest - DTO for moving an application through review
type UpdateStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required"`
}

// Response type alias for paginated applications
type PaginatedApplicationsResponse = kernel.Paginated[ApplicationResponse]

// ApplicationResponse - DTO for returning application data
type ApplicationResponse struct {
	ID          kernel.ApplicationID `json:"id"`
	JobID       kernel.JobID         `json:"job_id"`
	Employer    kernel.EmployerID    `json:"employer_id"`
	CandidateID kernel.CandidateID   `json:"candidate_id"`
	Applicant   kernel.UserID        `json:"applicant_id"`
	CoverNote   string               `json:"cover_note"`
	Status      ApplicationStatus    `json:"status"`
	SubmittedAt time.Time            `json:"submitted_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
