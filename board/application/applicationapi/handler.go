package applicationapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/matchbox-hr/matchbox/board/application"
	"github.com/matchbox-hr/matchbox/board/application/applicationsrv"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/iam/auth"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// Handlers provides HTTP handlers for application operations
type Handlers struct {
	service *applicationsrv.ApplicationService
}

// NewHandlers creates a new application handlers instance
func NewHandlers(service *applicationsrv.ApplicationService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// SubmitApplication applies the principal's profile to a posting
// POST /api/applications
func (h *Handlers) SubmitApplication(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	var req application.SubmitApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidApplication().WithDetail("parse_error", err.Error())
	}

	app, err := h.service.SubmitApplication(c.Context(), req, principal)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

// GetApplication retrieves one application
// GET /api/applications/:id
func (h *Handlers) GetApplication(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	appID := kernel.ApplicationID(c.Params("id"))
	if appID == "" {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	app, err := h.service.GetApplication(c.Context(), appID, principal)
	if err != nil {
		return err
	}

	return c.JSON(app)
}

// ListOwnApplications retrieves the principal's own applications
// GET /api/applications/mine
func (h *Handlers) ListOwnApplications(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	pagination := parsePaginationOptions(c)

	apps, err := h.service.ListOwn(c.Context(), principal, pagination)
	if err != nil {
		return err
	}

	return c.JSON(apps)
}

// ListVisibleApplications retrieves applications across every posting the
// principal may manage
// GET /api/applications
func (h *Handlers) ListVisibleApplications(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	pagination := parsePaginationOptions(c)

	apps, err := h.service.ListVisible(c.Context(), principal, pagination)
	if err != nil {
		return err
	}

	return c.JSON(apps)
}

// ListForJob retrieves applications for one posting
// GET /api/applications/by-job/:jobId
func (h *Handlers) ListForJob(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	jobID := kernel.JobID(c.Params("jobId"))
	if jobID == "" {
		return application.ErrApplicationNotFound().WithDetail("job_id", "missing or empty")
	}

	pagination := parsePaginationOptions(c)

	apps, err := h.service.ListForJob(c.Context(), jobID, principal, pagination)
	if err != nil {
		return err
	}

	return c.JSON(apps)
}

// UpdateStatus moves an application through review
// POST /api/applications/:id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	appID := kernel.ApplicationID(c.Params("id"))
	if appID == "" {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	var req application.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidStatus().WithDetail("parse_error", err.Error())
	}

	app, err := h.service.UpdateStatus(c.Context(), appID, req, principal)
	if err != nil {
		return err
	}

	return c.JSON(app)
}

// WithdrawApplication lets the applicant pull their own application
// POST /api/applications/:id/withdraw
func (h *Handlers) WithdrawApplication(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	appID := kernel.ApplicationID(c.Params("id"))
	if appID == "" {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.WithdrawApplication(c.Context(), appID, principal); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Application withdrawn",
	})
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

// RegisterRoutes registers all application routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware fiber.Handler) {
	api := app.Group("/api/applications", authMiddleware)

	api.Get("/mine", handlers.ListOwnApplications)
	api.Get("/by-job/:jobId", auth.RequireEmployerLike(), handlers.ListForJob)
	api.Get("/", auth.RequireEmployerLike(), handlers.ListVisibleApplications)
	api.Get("/:id", handlers.GetApplication)
	api.Post("/", handlers.SubmitApplication)
	api.Post("/:id/status", auth.RequireEmployerLike(), handlers.UpdateStatus)
	api.Post("/:id/withdraw", handlers.WithdrawApplication)
}
