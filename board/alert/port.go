package alert

import (
	"context"
	"time"

	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

type Repository interface {
	// Create creates a new subscription
	Create(ctx context.Context, sub *Subscription) error

	// Update updates a subscription's criteria, frequency and active flag
	Update(ctx context.Context, id kernel.AlertID, sub *Subscription) error

	// GetByID retrieves a subscription by ID
	GetByID(ctx context.Context, id kernel.AlertID) (*Subscription, error)

	// Delete deletes a subscription by ID
	Delete(ctx context.Context, id kernel.AlertID) error

	// ListByOwner retrieves subscriptions belonging to a user
	ListByOwner(ctx context.Context, owner kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[Subscription], error)

	// ListActiveInstant retrieves every active instant subscription of a
	// kind: the working set of one dispatch pass
	ListActiveInstant(ctx context.Context, kind Kind) ([]Subscription, error)

	// RecordDelivery increments the subscription's delivery counters and
	// stamps the last match, atomically at the persistence boundary.
	// Called only after a confirmed send.
	RecordDelivery(ctx context.Context, id kernel.AlertID, at time.Time) error
}

// EventQueue carries post-commit dispatch events from the write paths to
// the alert worker
type EventQueue interface {
	// Publish enqueues an event after the triggering write committed
	Publish(ctx context.Context, event Event) error

	// Dequeue blocks up to timeout for the next event; returns nil when
	// none arrived
	Dequeue(ctx context.Context, timeout time.Duration) (*Event, error)
}

// Notification is a single delivery request handed to the gateway
type Notification struct {
	Recipient    kernel.Email
	TemplateKind string
	SubjectID    string
	Metadata     map[string]string
}

// NotificationGateway delivers notifications best-effort. A failed Send
// is logged by the dispatcher and never propagated to the triggering
// write.
type NotificationGateway interface {
	Send(ctx context.Context, n Notification) error
}

// ContactDirectory resolves a subscription owner to a deliverable
// address. Owners without one are skipped, not failed.
type ContactDirectory interface {
	EmailFor(ctx context.Context, owner kernel.UserID) (kernel.Email, error)
}
