package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

// Handler handles admin HTTP requests
type Handler struct {
	service ports.AdminService
}

// NewHandler creates a new admin handler
func NewHandler(service ports.AdminService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(app *fiber.App, authMiddleware, adminMiddleware fiber.Handler) {
	admin := app.Group("/api/v1/admin", authMiddleware, adminMiddleware)

	// Dashboard
	admin.Get("/overview", h.GetOverview)

	// Users
	admin.Get("/users", h.GetUsers)
	admin.Patch("/users/:id/role", h.UpdateUserRole)
	admin.Patch("/users/:id/status", h.UpdateUserStatus)

	// Reports
	admin.Get("/reports/stations", h.StationReport)
}

// GetOverview handles GET /api/v1/admin/overview
func (h *Handler) GetOverview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(overview)
}

// GetUsers handles GET /api/v1/admin/users
func (h *Handler) GetUsers(c *fiber.Ctx) error {
	limit, offset := domain.ClampPage(c.QueryInt("limit", domain.DefaultPageLimit), c.QueryInt("offset", 0))

	users, err := h.service.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateUserRole handles PATCH /api/v1/admin/users/:id/role
func (h *Handler) UpdateUserRole(c *fiber.Ctx) error {
	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.service.SetUserRole(c.UserContext(), c.Params("id"), domain.UserRole(body.Role))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateUserStatus handles PATCH /api/v1/admin/users/:id/status
func (h *Handler) UpdateUserStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.service.SetUserStatus(c.UserContext(), c.Params("id"), body.Status)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// StationReport handles GET /api/v1/admin/reports/stations
func (h *Handler) StationReport(c *fiber.Ctx) error {
	report, err := h.service.StationReport(c.UserContext())
	if err != nil {
		return err
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename=stations.csv")
	return c.Send(report)
}
