package alert

import (
	"time"
)

// SubjectKind identifies what a dispatch event is about
type SubjectKind string

const (
	SubjectJob     SubjectKind = "JOB_PUBLISHED"
	SubjectProfile SubjectKind = "PROFILE_PUBLISHED"
)

// Event is the post-commit message a write path publishes when a posting
// goes live or a candidate profile is created/updated. Dispatch runs off
// this event, never inside the write's request cycle.
type Event struct {
	Kind       SubjectKind `json:"kind"`
	SubjectID  string      `json:"subject_id"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// SubscriptionKind maps the event to the subscription type it concerns
func (e Event) SubscriptionKind() Kind {
	if e.Kind == SubjectProfile {
		return KindResumeAlert
	}
	return KindJobAlert
}
