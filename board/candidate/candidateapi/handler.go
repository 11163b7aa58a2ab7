package candidateapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/matchbox-hr/matchbox/board/candidate"
	"github.com/matchbox-hr/matchbox/board/candidate/candidatesrv"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/iam/auth"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// Handlers provides HTTP handlers for candidate profile operations
type Handlers struct {
	service *candidatesrv.CandidateService
}

// NewHandlers creates a new candidate handlers instance
func NewHandlers(service *candidatesrv.CandidateService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// CreateProfile creates the principal's profile
// POST /api/candidates
func (h *Handlers) CreateProfile(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	var req candidate.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return candidate.ErrInvalidProfile().WithDetail("parse_error", err.Error())
	}

	profile, err := h.service.CreateProfile(c.Context(), req, principal)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

// GetOwnProfile retrieves the principal's own profile
// GET /api/candidates/me
func (h *Handlers) GetOwnProfile(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	profile, err := h.service.GetOwnProfile(c.Context(), principal)
	if err != nil {
		return err
	}

	return c.JSON(profile)
}

// GetProfile retrieves a profile by ID
// GET /api/candidates/:id
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	candidateID := kernel.CandidateID(c.Params("id"))
	if candidateID == "" {
		return candidate.ErrProfileNotFound().WithDetail("id", "missing or empty")
	}

	profile, err := h.service.GetProfile(c.Context(), candidateID, principal)
	if err != nil {
		return err
	}

	return c.JSON(profile)
}

// ListProfiles retrieves the candidate pool
// GET /api/candidates
func (h *Handlers) ListProfiles(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	pagination := parsePaginationOptions(c)

	profiles, err := h.service.ListProfiles(c.Context(), principal, pagination)
	if err != nil {
		return err
	}

	return c.JSON(profiles)
}

// UpdateProfile updates a profile
// PUT /api/candidates/:id
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	candidateID := kernel.CandidateID(c.Params("id"))
	if candidateID == "" {
		return candidate.ErrProfileNotFound().WithDetail("id", "missing or empty")
	}

	var req candidate.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return candidate.ErrInvalidProfile().WithDetail("parse_error", err.Error())
	}

	profile, err := h.service.UpdateProfile(c.Context(), candidateID, req, principal)
	if err != nil {
		return err
	}

	return c.JSON(profile)
}

// DeleteProfile deletes a profile
// DELETE /api/candidates/:id
func (h *Handlers) DeleteProfile(c *fiber.Ctx) error {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	candidateID := kernel.CandidateID(c.Params("id"))
	if candidateID == "" {
		return candidate.ErrProfileNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.DeleteProfile(c.Context(), candidateID, principal); err != nil {
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

// RegisterRoutes registers all candidate routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware fiber.Handler) {
	api := app.Group("/api/candidates", authMiddleware)

	api.Get("/me", handlers.GetOwnProfile)
	api.Get("/", handlers.ListProfiles)
	api.Get("/:id", handlers.GetProfile)
	api.Post("/", handlers.CreateProfile)
	api.Put("/:id", handlers.UpdateProfile)
	api.Delete("/:id", handlers.DeleteProfile)
}
