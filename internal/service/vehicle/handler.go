package vehicle

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

// Handler exposes the vehicle catalog
type Handler struct {
	catalog ports.VehicleCatalog
}

func NewHandler(catalog ports.VehicleCatalog) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes registers the public listing and the admin upsert
func (h *Handler) RegisterRoutes(app *fiber.App, adminMiddleware ...fiber.Handler) {
	app.Get("/api/v1/vehicles", h.List)

	handlers := append(adminMiddleware, h.Upsert)
	app.Put("/api/v1/admin/vehicles", handlers...)
}

// List handles GET /api/v1/vehicles
func (h *Handler) List(c *fiber.Ctx) error {
	vehicles, err := h.catalog.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"vehicles": vehicles})
}

// Upsert handles PUT /api/v1/admin/vehicles
func (h *Handler) Upsert(c *fiber.Ctx) error {
	var v domain.Vehicle
	if err := c.BodyParser(&v); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.catalog.Upsert(c.UserContext(), &v); err != nil {
		return err
	}
	return c.JSON(v)
}
