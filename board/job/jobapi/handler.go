package jobapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/matchbox-hr/matchbox/board/job"
	"github.com/matchbox-hr/matchbox/board/job/jobsrv"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/iam/auth"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// Handlers provides HTTP handlers for job operations
type Handlers struct {
	service *jobsrv.JobService
}

// NewHandlers creates a new job handlers instance
func NewHandlers(service *jobsrv.JobService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// CreateJob creates a new job posting
// POST /api/jobs
func (h *Handlers) CreateJob(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidJob().WithDetail("parse_error", err.Error())
	}

	newJob, err := h.service.CreateJob(c.Context(), req, principal)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newJob)
}

// GetJob retrieves a job by ID
// GET /api/jobs/:id
func (h *Handlers) GetJob(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	jobResp, err := h.service.GetJob(c.Context(), jobID, principal)
	if err != nil {
		return err
	}

	return c.JSON(jobResp)
}

// ListPublishedJobs retrieves the public board
// GET /api/jobs/published
func (h *Handlers) ListPublishedJobs(c *fiber.Ctx) error {
	pagination := parsePaginationOptions(c)

	jobs, err := h.service.ListPublishedJobs(c.Context(), pagination)
	if err != nil {
		return err
	}

	return c.JSON(jobs)
}

// ListManagedJobs retrieves the postings the principal may manage
// GET /api/jobs/managed
func (h *Handlers) ListManagedJobs(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	pagination := parsePaginationOptions(c)

	jobs, err := h.service.ListManagedJobs(c.Context(), principal, pagination)
	if err != nil {
		return err
	}

	return c.JSON(jobs)
}

// UpdateJob updates an existing job
// PUT /api/jobs/:id
func (h *Handlers) UpdateJob(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	var req job.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidJob().WithDetail("parse_error", err.Error())
	}

	updatedJob, err := h.service.UpdateJob(c.Context(), jobID, req, principal)
	if err != nil {
		return err
	}

	return c.JSON(updatedJob)
}

// PublishJob transitions a draft posting to published
// POST /api/jobs/:id/publish
func (h *Handlers) PublishJob(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.PublishJob(c.Context(), jobID, principal); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Job published successfully",
	})
}

// CloseJob stops a published posting from accepting applications
// POST /api/jobs/:id/close
func (h *Handlers) CloseJob(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.CloseJob(c.Context(), jobID, principal); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Job closed successfully",
	})
}

// ReopenJob brings a closed posting back to published
// POST /api/jobs/:id/reopen
func (h *Handlers) ReopenJob(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.ReopenJob(c.Context(), jobID, principal); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Job reopened successfully",
	})
}

// DeleteJob deletes a job
// DELETE /api/jobs/:id
func (h *Handlers) DeleteJob(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	jobID := kernel.JobID(c.Params("id"))
	if jobID == "" {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.DeleteJob(c.Context(), jobID, principal); err != nil {
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

// RegisterRoutes registers all job routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware fiber.Handler) {
	api := app.Group("/api/jobs")

	// Public board
	api.Get("/published", handlers.ListPublishedJobs)

	// Authenticated reads
	api.Get("/managed", authMiddleware, auth.RequireEmployerLike(), handlers.ListManagedJobs)
	api.Get("/:id", authMiddleware, handlers.GetJob)

	// Writes
	api.Post("/", authMiddleware, auth.RequireEmployerLike(), handlers.CreateJob)
	api.Put("/:id", authMiddleware, auth.RequireEmployerLike(), handlers.UpdateJob)
	api.Post("/:id/publish", authMiddleware, auth.RequireEmployerLike(), handlers.PublishJob)
	api.Post("/:id/close", authMiddleware, auth.RequireEmployerLike(), handlers.CloseJob)
	api.Post("/:id/reopen", authMiddleware, auth.RequireEmployerLike(), handlers.ReopenJob)
	api.Delete("/:id", authMiddleware, auth.RequireEmployerLike(), handlers.DeleteJob)
}
