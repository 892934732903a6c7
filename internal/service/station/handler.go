package station

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

// Handler handles station, favourite and station admin HTTP requests
type Handler struct {
	service ports.StationService
}

// NewHandler creates a new station handler
func NewHandler(service ports.StationService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers station routes
func (h *Handler) RegisterRoutes(app *fiber.App, authMiddleware fiber.Handler, adminMiddleware fiber.Handler) {
	stations := app.Group("/api/v1/stations")
	stations.Get("/", h.ListStations)
	stations.Get("/types", h.GetTypes)
	stations.Get("/nearby", h.GetNearby)
	stations.Get("/:id", h.GetStation)

	favorites := app.Group("/api/v1/favorites", authMiddleware)
	favorites.Get("/", h.ListFavorites)
	favorites.Post("/:stationId", h.AddFavorite)
	favorites.Delete("/:stationId", h.RemoveFavorite)

	admin := app.Group("/api/v1/admin/stations", authMiddleware, adminMiddleware)
	admin.Post("/", h.CreateStation)
	admin.Put("/:id", h.UpdateStation)
	admin.Delete("/:id", h.DeleteStation)
}

// ListStations handles GET /api/v1/stations
func (h *Handler) ListStations(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	stations, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"stations": stations,
		"count":    len(stations),
	})
}

// GetTypes handles GET /api/v1/stations/types
func (h *Handler) GetTypes(c *fiber.Ctx) error {
	types, err := h.service.Types(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"types": types})
}

// GetNearby handles GET /api/v1/stations/nearby?lat=..&lon=..&radius=..
func (h *Handler) GetNearby(c *fiber.Ctx) error {
	lat, err := queryFloat(c, "lat")
	if err != nil {
		return err
	}
	lon, err := queryFloat(c, "lon")
	if err != nil {
		return err
	}
	if lat == nil || lon == nil {
		return domain.NewInvalidInput("lat", "lat and lon are required")
	}
	radius, err := queryFloat(c, "radius")
	if err != nil {
		return err
	}
	r := 25.0
	if radius != nil {
		r = *radius
	}

	stations, err := h.service.Nearby(c.UserContext(), *lat, *lon, r)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"stations":     stations,
		"radius_miles": r,
	})
}

// GetStation handles GET /api/v1/stations/:id
func (h *Handler) GetStation(c *fiber.Ctx) error {
	station, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(station)
}

// ListFavorites handles GET /api/v1/favorites
func (h *Handler) ListFavorites(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	stations, err := h.service.ListFavorites(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"stations": stations})
}

// AddFavorite handles POST /api/v1/favorites/:stationId
func (h *Handler) AddFavorite(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	if err := h.service.AddFavorite(c.UserContext(), userID, c.Params("stationId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveFavorite handles DELETE /api/v1/favorites/:stationId
func (h *Handler) RemoveFavorite(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	if err := h.service.RemoveFavorite(c.UserContext(), userID, c.Params("stationId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateStation handles POST /api/v1/admin/stations
func (h *Handler) CreateStation(c *fiber.Ctx) error {
	var station domain.Station
	if err := c.BodyParser(&station); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.Create(c.UserContext(), &station); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(station)
}

// UpdateStation handles PUT /api/v1/admin/stations/:id
func (h *Handler) UpdateStation(c *fiber.Ctx) error {
	var station domain.Station
	if err := c.BodyParser(&station); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	station.ID = c.Params("id")

	if err := h.service.Update(c.UserContext(), &station); err != nil {
		return err
	}
	return c.JSON(station)
}

// DeleteStation handles DELETE /api/v1/admin/stations/:id
func (h *Handler) DeleteStation(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseFilter(c *fiber.Ctx) (domain.StationFilter, error) {
	f := domain.StationFilter{
		Query: c.Query("q"),
	}

	if raw := c.Query("type"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Types = append(f.Types, t)
			}
		}
	}

	if raw := c.Query("min_availability"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, domain.NewInvalidInput("min_availability", "must be an integer")
		}
		f.MinAvailability = n
	}

	minRating, err := queryFloat(c, "min_rating")
	if err != nil {
		return f, err
	}
	if minRating != nil {
		f.MinRating = *minRating
	}

	maxDistance, err := queryFloat(c, "max_distance")
	if err != nil {
		return f, err
	}
	if maxDistance != nil {
		f.MaxDistanceMiles = *maxDistance
	}

	if f.Latitude, err = queryFloat(c, "lat"); err != nil {
		return f, err
	}
	if f.Longitude, err = queryFloat(c, "lon"); err != nil {
		return f, err
	}

	return f, nil
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.NewInvalidInput(key, "must be a number")
	}
	return &v, nil
}
