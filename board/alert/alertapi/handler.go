package alertapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/board/alert/alertsrv"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/iam/auth"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// Handlers provides HTTP handlers for alert subscription operations
type Handlers struct {
	service *alertsrv.AlertService
}

// NewHandlers creates a new alert handlers instance
func NewHandlers(service *alertsrv.AlertService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// CreateSubscription creates a subscription owned by the principal
// POST /api/alerts
func (h *Handlers) CreateSubscription(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	var req alert.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return alert.ErrInvalidKind().WithDetail("parse_error", err.Error())
	}

	sub, err := h.service.CreateSubscription(c.Context(), req, principal)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(sub)
}

// GetSubscription retrieves a subscription the principal owns
// GET /api/alerts/:id
func (h *Handlers) GetSubscription(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	alertID := kernel.AlertID(c.Params("id"))
	if alertID == "" {
		return alert.ErrAlertNotFound().WithDetail("id", "missing or empty")
	}

	sub, err := h.service.GetSubscription(c.Context(), alertID, principal)
	if err != nil {
		return err
	}

	return c.JSON(sub)
}

// ListSubscriptions retrieves the principal's subscriptions
// GET /api/alerts
func (h *Handlers) ListSubscriptions(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	pagination := parsePaginationOptions(c)

	subs, err := h.service.ListOwnSubscriptions(c.Context(), principal, pagination)
	if err != nil {
		return err
	}

	return c.JSON(subs)
}

// UpdateSubscription changes criteria, frequency or the active flag
// PUT /api/alerts/:id
func (h *Handlers) UpdateSubscription(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	alertID := kernel.AlertID(c.Params("id"))
	if alertID == "" {
		return alert.ErrAlertNotFound().WithDetail("id", "missing or empty")
	}

	var req alert.UpdateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return alert.ErrInvalidKind().WithDetail("parse_error", err.Error())
	}

	sub, err := h.service.UpdateSubscription(c.Context(), alertID, req, principal)
	if err != nil {
		return err
	}

	return c.JSON(sub)
}

// DeleteSubscription deletes a subscription the principal owns
// DELETE /api/alerts/:id
func (h *Handlers) DeleteSubscription(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	alertID := kernel.AlertID(c.Params("id"))
	if alertID == "" {
		return alert.ErrAlertNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.DeleteSubscription(c.Context(), alertID, principal); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// ============================================================================
// Helper Functions
// ============================================================================

// parsePaginationOptions extracts pagination options from query parameters
func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return kernel.PaginationOptions{
		Page:     page,
		PageSize: pageSize,
	}
}

// RegisterRoutes registers all alert routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware fiber.Handler) {
	api := app.Group("/api/alerts", authMiddleware)

	api.Get("/", handlers.ListSubscriptions)
	api.Get("/:id", handlers.GetSubscription)
	api.Post("/", handlers.CreateSubscription)
	api.Put("/:id", handlers.UpdateSubscription)
	api.Delete("/:id", handlers.DeleteSubscription)
}
