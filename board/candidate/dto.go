package candidate

import (
	"time"

	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// CreateProfileRequest - DTO for creating a profile
type CreateProfileRequest struct {
	Headline    string                 `json:"headline" validate:"required"`
	Summary     string                 `json:"summary,omitempty"`
	Skills      []kernel.SkillID       `json:"skills,omitempty"`
	Specialisms []kernel.Specialism    `json:"specialisms,omitempty"`
	City        kernel.City            `json:"city,omitempty"`
	Experience  kernel.ExperienceLevel `json:"experience,omitempty"`
	Education   string                 `json:"education,omitempty"`
}

// UpdateProfileRequest - DTO for updating a profile
type UpdateProfileRequest struct {
	Headline    *string                 `json:"headline,omitempty"`
	Summary     *string                 `json:"summary,omitempty"`
	Skills      *[]kernel.SkillID       `json:"skills,omitempty"`
	Specialisms *[]kernel.Specialism    `json:"specialisms,omitempty"`
	City        *kernel.City            `json:"city,omitempty"`
	Experience  *kernel.ExperienceLevel `json:"experience,omitempty"`
	Education   *string                 `json:"education,omitempty"`
}

// ProfileResponse - DTO for returning profile data
type ProfileResponse struct {
	ID          kernel.CandidateID     `json:"id"`
	Owner       kernel.UserID          `json:"owner_id"`
	Headline    string                 `json:"headline"`
	Summary     string                 `json:"summary"`
	Skills      []kernel.SkillID       `json:"skills"`
	Specialisms []kernel.Specialism    `json:"specialisms"`
	City        kernel.City            `json:"city"`
	Experience  kernel.ExperienceLevel `json:"experience"`
	Education   string                 `json:"education"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}
