package reservation

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

const dateLayout = "2006-01-02"

// Handler handles reservation HTTP requests
type Handler struct {
	service ports.ReservationService
}

// NewHandler creates a new reservation handler
func NewHandler(service ports.ReservationService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers reservation routes
func (h *Handler) RegisterRoutes(app *fiber.App, authMiddleware fiber.Handler, adminMiddleware fiber.Handler) {
	reservations := app.Group("/api/v1/reservations", authMiddleware)

	reservations.Post("/", h.CreateReservation)
	reservations.Get("/", h.GetUserReservations)
	reservations.Get("/:id", h.GetReservation)
	reservations.Delete("/:id", h.CancelReservation)
	reservations.Post("/:id/confirm", h.ConfirmReservation)
	reservations.Post("/:id/complete", adminMiddleware, h.CompleteReservation)

	// Station availability
	app.Get("/api/v1/stations/:id/availability", h.GetStationAvailability)
	app.Get("/api/v1/stations/:id/reservations", authMiddleware, adminMiddleware, h.GetStationReservations)
	app.Get("/api/v1/stations/:id/reservations/summary", authMiddleware, adminMiddleware, h.GetReservationSummary)
}

// CreateReservationRequest represents the request body
type CreateReservationRequest struct {
	StationID string    `json:"station_id"`
	StartTime time.Time `json:"start_time"`
	Duration  int       `json:"duration"`
	Notes     string    `json:"notes"`
}

// CreateReservation handles POST /api/v1/reservations
func (h *Handler) CreateReservation(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	reservation, err := h.service.CreateReservation(c.UserContext(), &ports.ReservationRequest{
		UserID:    userID,
		StationID: req.StationID,
		StartTime: req.StartTime,
		Duration:  req.Duration,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(reservation)
}

// GetReservation handles GET /api/v1/reservations/:id
func (h *Handler) GetReservation(c *fiber.Ctx) error {
	reservation, err := h.owned(c)
	if err != nil {
		return err
	}
	return c.JSON(reservation)
}

// owned loads the reservation in the path and checks the caller may see it
func (h *Handler) owned(c *fiber.Ctx) (*domain.Reservation, error) {
	userID, _ := c.Locals("user_id").(string)

	reservation, err := h.service.GetReservation(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, err
	}

	// Verify ownership (unless admin)
	if reservation.UserID != userID {
		role, _ := c.Locals("user_role").(string)
		if role != string(domain.UserRoleAdmin) {
			return nil, domain.ErrForbidden
		}
	}
	return reservation, nil
}

// GetUserReservations handles GET /api/v1/reservations
func (h *Handler) GetUserReservations(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	status := c.Query("status", "")
	limit, offset := domain.ClampPage(c.QueryInt("limit", domain.DefaultPageLimit), c.QueryInt("offset", 0))

	reservations, err := h.service.GetUserReservations(c.UserContext(), userID, status, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"reservations": reservations,
		"limit":        limit,
		"offset":       offset,
	})
}

// CancelReservation handles DELETE /api/v1/reservations/:id
func (h *Handler) CancelReservation(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var body struct {
		Reason string `json:"reason"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	if err := h.service.CancelReservation(c.UserContext(), c.Params("id"), userID, body.Reason); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Reservation cancelled successfully",
	})
}

// ConfirmReservation handles POST /api/v1/reservations/:id/confirm
func (h *Handler) ConfirmReservation(c *fiber.Ctx) error {
	reservation, err := h.owned(c)
	if err != nil {
		return err
	}

	if err := h.service.ConfirmReservation(c.UserContext(), reservation.ID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Reservation confirmed",
	})
}

// CompleteReservation handles POST /api/v1/reservations/:id/complete
func (h *Handler) CompleteReservation(c *fiber.Ctx) error {
	if err := h.service.CompleteReservation(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Reservation completed",
	})
}

// GetStationAvailability handles GET /api/v1/stations/:id/availability
func (h *Handler) GetStationAvailability(c *fiber.Ctx) error {
	stationID := c.Params("id")
	dateStr := c.Query("date", time.Now().Format(dateLayout))

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return domain.NewInvalidInput("date", "use YYYY-MM-DD")
	}

	slots, err := h.service.GetAvailableSlots(c.UserContext(), stationID, date)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"station_id": stationID,
		"date":       dateStr,
		"slots":      slots,
	})
}

// GetStationReservations handles GET /api/v1/stations/:id/reservations
func (h *Handler) GetStationReservations(c *fiber.Ctx) error {
	stationID := c.Params("id")
	dateStr := c.Query("date", time.Now().Format(dateLayout))

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return domain.NewInvalidInput("date", "use YYYY-MM-DD")
	}

	reservations, err := h.service.GetStationReservations(c.UserContext(), stationID, date)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"station_id":   stationID,
		"date":         dateStr,
		"reservations": reservations,
	})
}

// GetReservationSummary handles GET /api/v1/stations/:id/reservations/summary
func (h *Handler) GetReservationSummary(c *fiber.Ctx) error {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	var err error
	if v := c.Query("from"); v != "" {
		if start, err = time.Parse(dateLayout, v); err != nil {
			return domain.NewInvalidInput("from", "use YYYY-MM-DD")
		}
	}
	if v := c.Query("to"); v != "" {
		if end, err = time.Parse(dateLayout, v); err != nil {
			return domain.NewInvalidInput("to", "use YYYY-MM-DD")
		}
		end = end.AddDate(0, 0, 1)
	}
	if !start.Before(end) {
		return domain.NewInvalidInput("from", "must be before to")
	}

	summary, err := h.service.GetReservationSummary(c.UserContext(), c.Params("id"), start, end)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
