package alert

import (
	"time"

	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// Kind distinguishes the two structurally parallel subscription types:
// job alerts owned by candidates and resume alerts owned by employers.
type Kind string

const (
	KindJobAlert    Kind = "JOB"
	KindResumeAlert Kind = "RESUME"
)

func (k Kind) IsValid() bool {
	return k == KindJobAlert || k == KindResumeAlert
}

// Frequency controls delivery cadence. Only Instant subscriptions
// participate in the event-driven path; Daily and Weekly are drained by a
// separate scheduled digest.
type Frequency string

const (
	FrequencyInstant Frequency = "INSTANT"
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
)

func (f Frequency) IsValid() bool {
	return f == FrequencyInstant || f == FrequencyDaily || f == FrequencyWeekly
}

// Stats are delivery counters, mutated only by the dispatcher after a
// confirmed send, via an atomic increment at the persistence boundary.
type Stats struct {
	EmailsSent   int64      `db:"emails_sent" json:"emails_sent"`
	TotalMatches int64      `db:"total_matches" json:"total_matches"`
	LastMatch    *time.Time `db:"last_match" json:"last_match,omitempty"`
}

// Subscription is an alert owned by a candidate (job alerts) or an
// employer (resume alerts)
type Subscription struct {
	ID        kernel.AlertID `db:"id" json:"id"`
	Kind      Kind           `db:"kind" json:"kind"`
	Owner     kernel.UserID  `db:"owner_id" json:"owner_id"`
	Criteria  Criteria       `db:"-" json:"criteria"`
	Frequency Frequency      `db:"frequency" json:"frequency"`
	IsActive  bool           `db:"is_active" json:"is_active"`
	Stats     Stats          `json:"stats"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// IsInstant reports whether the subscription is on the event-driven path
func (s *Subscription) IsInstant() bool {
	return s.Frequency == FrequencyInstant
}
