package candidate

import (
	"time"

	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// Profile is a candidate's public profile, the subject matched by resume
// alerts. Owner is the candidate's own account; self-service operations
// are guarded by plain ownership, never the employer-assignment rule.
type Profile struct {
	ID          kernel.CandidateID     `db:"id" json:"id"`
	Owner       kernel.UserID          `db:"owner_id" json:"owner_id"`
	Headline    string                 `db:"headline" json:"headline"`
	Summary     string                 `db:"summary" json:"summary"`
	Skills      []kernel.SkillID       `db:"skills" json:"skills"`
	Specialisms []kernel.Specialism    `db:"specialisms" json:"specialisms"`
	City        kernel.City            `db:"city" json:"city"`
	Experience  kernel.ExperienceLevel `db:"experience" json:"experience"`
	Education   string                 `db:"education" json:"education"`
	CreatedAt   time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time              `db:"updated_at" json:"updated_at"`
}

// UpdateDetails applies non-empty fields from an update
func (p *Profile) UpdateDetails(headline, summary, education string) {
	if headline != "" {
		p.Headline = headline
	}
	if summary != "" {
		p.Summary = summary
	}
	if education != "" {
		p.Education = education
	}
	p.UpdatedAt = time.Now()
}
