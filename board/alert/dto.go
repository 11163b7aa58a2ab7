package alert

import (
	"time"

	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// CreateSubscriptionRequest - DTO for creating a subscription
type CreateSubscriptionRequest struct {
	Kind      Kind      `json:"kind" validate:"required"`
	Criteria  Criteria  `json:"criteria"`
	Frequency Frequency `json:"frequency" validate:"required"`
}

// UpdateSubscriptionRequest - DTO for updating a subscription
type UpdateSubscriptionRequest struct {
	Criteria  *Criteria  `json:"criteria,omitempty"`
	Frequency *Frequency `json:"frequency,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
}

// Response type alias for paginated subscriptions
type PaginatedSubscriptionsResponse = kernel.Paginated[SubscriptionResponse]

// SubscriptionResponse - DTO for returning subscription data
type SubscriptionResponse struct {
	ID        kernel.AlertID `json:"id"`
	Kind      Kind           `json:"kind"`
	Owner     kernel.UserID  `json:"owner_id"`
	Criteria  Criteria       `json:"criteria"`
	Frequency Frequency      `json:"frequency"`
	IsActive  bool           `json:"is_active"`
	Stats     Stats          `json:"stats"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
