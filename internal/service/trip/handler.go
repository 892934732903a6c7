package trip

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

// Handler handles trip planning HTTP requests
type Handler struct {
	service ports.TripService
}

// NewHandler creates a new trip handler
func NewHandler(service ports.TripService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers trip routes. Estimation is public, history is per user.
func (h *Handler) RegisterRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	trips := app.Group("/api/v1/trips")

	trips.Post("/estimate", h.Estimate)
	trips.Post("/plan", authMiddleware, h.Plan)
	trips.Post("/", authMiddleware, h.SaveTrip)
	trips.Get("/", authMiddleware, h.ListTrips)
	trips.Get("/:id", authMiddleware, h.GetTrip)
	trips.Delete("/:id", authMiddleware, h.DeleteTrip)
}

// Estimate handles POST /api/v1/trips/estimate
func (h *Handler) Estimate(c *fiber.Ctx) error {
	var req domain.TripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	plan, err := h.service.Estimate(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(plan)
}

// Plan handles POST /api/v1/trips/plan
func (h *Handler) Plan(c *fiber.Ctx) error {
	return h.plan(c, false)
}

// SaveTrip handles POST /api/v1/trips
func (h *Handler) SaveTrip(c *fiber.Ctx) error {
	return h.plan(c, true)
}

func (h *Handler) plan(c *fiber.Ctx, forceSave bool) error {
	var req domain.PlanTripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.UserID, _ = c.Locals("user_id").(string)
	if forceSave {
		req.Save = true
	}

	record, err := h.service.PlanTrip(c.UserContext(), &req)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if req.Save {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(record)
}

// ListTrips handles GET /api/v1/trips
func (h *Handler) ListTrips(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	limit, offset := domain.ClampPage(c.QueryInt("limit", domain.DefaultPageLimit), c.QueryInt("offset", 0))

	trips, err := h.service.ListTrips(c.UserContext(), userID, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"trips":  trips,
		"limit":  limit,
		"offset": offset,
	})
}

// GetTrip handles GET /api/v1/trips/:id
func (h *Handler) GetTrip(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	record, err := h.service.GetTrip(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// DeleteTrip handles DELETE /api/v1/trips/:id
func (h *Handler) DeleteTrip(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	if err := h.service.DeleteTrip(c.UserContext(), userID, c.Params("id")); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
