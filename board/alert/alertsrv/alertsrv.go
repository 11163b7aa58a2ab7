package alertsrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/pkg/errx"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/iam/authz"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// AlertService provides subscription management. Delivery counters are
// not writable through here; only the dispatcher records deliveries.
type AlertService struct {
	alertRepo alert.Repository
}

// NewAlertService creates a new instance of the alert service
func NewAlertService(alertRepo alert.Repository) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
	}
}

// CreateSubscription creates a subscription owned by the principal.
// Candidates subscribe to job alerts, employers to resume alerts.
func (s *AlertService) CreateSubscription(ctx context.Context, req alert.CreateSubscriptionRequest, principal iam.Principal) (*alert.Subscription, error) {
	if !req.Kind.IsValid() {
		return nil, alert.ErrInvalidKind().WithDetail("kind", req.Kind)
	}
	if !req.Frequency.IsValid() {
		return nil, alert.ErrInvalidFrequency().WithDetail("frequency", req.Frequency)
	}

	switch req.Kind {
	case alert.KindJobAlert:
		if principal.Role != iam.RoleCandidate && principal.Role != iam.RoleSuperadmin {
			return nil, iam.ErrPermissionDenied().WithDetail("kind", req.Kind)
		}
	case alert.KindResumeAlert:
		if principal.Role != iam.RoleEmployer && principal.Role != iam.RoleSuperadmin {
			return nil, iam.ErrPermissionDenied().WithDetail("kind", req.Kind)
		}
	}

	now := time.Now()
	sub := &alert.Subscription{
		ID:        kernel.NewAlertID(uuid.NewString()),
		Kind:      req.Kind,
		Owner:     principal.ID,
		Criteria:  req.Criteria,
		Frequency: req.Frequency,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.alertRepo.Create(ctx, sub); err != nil {
		return nil, errx.Wrap(err, "failed to create subscription", errx.TypeInternal)
	}
	return sub, nil
}

// UpdateSubscription changes criteria, frequency or the active flag
func (s *AlertService) UpdateSubscription(ctx context.Context, id kernel.AlertID, req alert.UpdateSubscriptionRequest, principal iam.Principal) (*alert.Subscription, error) {
	sub, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, alert.ErrAlertNotFound().WithDetail("alert_id", id.String())
	}

	if !authz.OwnsOrAdmin(sub.Owner, principal) {
		return nil, iam.ErrPermissionDenied()
	}

	if req.Frequency != nil {
		if !req.Frequency.IsValid() {
			return nil, alert.ErrInvalidFrequency().WithDetail("frequency", *req.Frequency)
		}
		sub.Frequency = *req.Frequency
	}
	if req.Criteria != nil {
		sub.Criteria = *req.Criteria
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}
	sub.UpdatedAt = time.Now()

	if err := s.alertRepo.Update(ctx, id, sub); err != nil {
		return nil, errx.Wrap(err, "failed to update subscription", errx.TypeInternal)
	}
	return sub, nil
}

// GetSubscription retrieves a subscription the principal owns
func (s *AlertService) GetSubscription(ctx context.Context, id kernel.AlertID, principal iam.Principal) (*alert.Subscription, error) {
	sub, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, alert.ErrAlertNotFound().WithDetail("alert_id", id.String())
	}
	if !authz.OwnsOrAdmin(sub.Owner, principal) {
		// do not reveal whether the subscription exists
		return nil, alert.ErrAlertNotFound().WithDetail("alert_id", id.String())
	}
	return sub, nil
}

// ListOwnSubscriptions retrieves the principal's subscriptions
func (s *AlertService) ListOwnSubscriptions(ctx context.Context, principal iam.Principal, pagination kernel.PaginationOptions) (*kernel.Paginated[alert.Subscription], error) {
	subs, err := s.alertRepo.ListByOwner(ctx, principal.ID, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list subscriptions", errx.TypeInternal)
	}
	return subs, nil
}

// DeleteSubscription deletes a subscription the principal owns
func (s *AlertService) DeleteSubscription(ctx context.Context, id kernel.AlertID, principal iam.Principal) error {
	sub, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		return alert.ErrAlertNotFound().WithDetail("alert_id", id.String())
	}
	if !authz.OwnsOrAdmin(sub.Owner, principal) {
		return alert.ErrAlertNotFound().WithDetail("alert_id", id.String())
	}
	if err := s.alertRepo.Delete(ctx, id); err != nil {
		return errx.Wrap(err, "failed to delete subscription", errx.TypeInternal)
	}
	return nil
}
