package trip

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrecharge/evrecharge-api/internal/adapter/http/fiber/middleware"
	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/mocks"
	"github.com/evrecharge/evrecharge-api/internal/ports"
	"github.com/evrecharge/evrecharge-api/internal/service/planner"
)

func newTestApp(svc ports.TripService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(newTestLogger())})
	auth := func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return domain.ErrUnauthorized
		}
		c.Locals("user_id", "user-1")
		return c.Next()
	}
	NewHandler(svc).RegisterRoutes(app, auth)
	return app
}

func TestHandler_Estimate(t *testing.T) {
	app := newTestApp(NewService(planner.Default(), teslaCatalog(), fixedDistance(0), &mocks.MockTripRepository{}, nil, newTestLogger()))

	req := httptest.NewRequest("POST", "/api/v1/trips/estimate",
		strings.NewReader(`{"distance_miles":300,"vehicle_range_miles":358,"current_charge_percent":50}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var plan domain.TripPlan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	assert.Equal(t, 300.0, plan.TotalDistanceMiles)
	assert.Equal(t, 6.0, plan.EstimatedTotalTimeHours)
	require.Len(t, plan.Stops, 2)
	assert.Equal(t, "Mile 143.2", plan.Stops[0].Location)
}

func TestHandler_EstimateEmptyStopsIsArray(t *testing.T) {
	app := newTestApp(NewService(planner.Default(), teslaCatalog(), fixedDistance(0), &mocks.MockTripRepository{}, nil, newTestLogger()))

	req := httptest.NewRequest("POST", "/api/v1/trips/estimate",
		strings.NewReader(`{"distance_miles":100,"vehicle_range_miles":358,"current_charge_percent":50}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []interface{}{}, body["stops"])
	assert.Equal(t, 1.67, body["estimated_total_time_hours"])
}

func TestHandler_EstimateInvalidInput(t *testing.T) {
	app := newTestApp(NewService(planner.Default(), teslaCatalog(), fixedDistance(0), &mocks.MockTripRepository{}, nil, newTestLogger()))

	req := httptest.NewRequest("POST", "/api/v1/trips/estimate",
		strings.NewReader(`{"distance_miles":100,"vehicle_range_miles":358,"current_charge_percent":150}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "current_charge_percent", body["field"])
}

func TestHandler_SaveTripRequiresAuth(t *testing.T) {
	app := newTestApp(NewService(planner.Default(), teslaCatalog(), fixedDistance(300), &mocks.MockTripRepository{}, nil, newTestLogger()))

	req := httptest.NewRequest("POST", "/api/v1/trips",
		strings.NewReader(`{"start_location":"A","destination":"B","car_model":"Tesla Model 3","current_charge_percent":50}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_SaveTrip(t *testing.T) {
	var saved *domain.TripRecord
	repo := &mocks.MockTripRepository{
		SaveFunc: func(ctx context.Context, trip *domain.TripRecord) error {
			saved = trip
			return nil
		},
	}
	app := newTestApp(NewService(planner.Default(), teslaCatalog(), fixedDistance(300), repo, nil, newTestLogger()))

	req := httptest.NewRequest("POST", "/api/v1/trips",
		strings.NewReader(`{"start_location":"A","destination":"B","car_model":"Tesla Model 3","current_charge_percent":50}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, saved)
	assert.Equal(t, "user-1", saved.UserID)
}

func TestHandler_GetTripForbidden(t *testing.T) {
	repo := &mocks.MockTripRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.TripRecord, error) {
			return &domain.TripRecord{ID: id, UserID: "someone-else"}, nil
		},
	}
	app := newTestApp(NewService(planner.Default(), teslaCatalog(), fixedDistance(300), repo, nil, newTestLogger()))

	req := httptest.NewRequest("GET", "/api/v1/trips/trip-1", nil)
	req.Header.Set("Authorization", "Bearer test")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestHandler_PlanWithoutSave(t *testing.T) {
	var got *domain.PlanTripRequest
	svc := &mocks.MockTripService{
		PlanTripFunc: func(ctx context.Context, req *domain.PlanTripRequest) (*domain.TripRecord, error) {
			got = req
			return &domain.TripRecord{TotalDistanceMiles: 120, Stops: []domain.ChargingStop{}}, nil
		},
	}
	app := newTestApp(svc)

	req := httptest.NewRequest("POST", "/api/v1/trips/plan",
		strings.NewReader(`{"start_location":"A","destination":"B","vehicle_range_miles":200,"current_charge_percent":80}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, got)
	assert.False(t, got.Save)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, 200.0, got.VehicleRangeMiles)
}

func TestHandler_ListTripsPaging(t *testing.T) {
	var gotLimit, gotOffset int
	svc := &mocks.MockTripService{
		ListTripsFunc: func(ctx context.Context, userID string, limit, offset int) ([]domain.TripRecord, error) {
			gotLimit, gotOffset = limit, offset
			return []domain.TripRecord{{ID: "t2"}, {ID: "t1"}}, nil
		},
	}
	app := newTestApp(svc)

	req := httptest.NewRequest("GET", "/api/v1/trips?limit=5&offset=10", nil)
	req.Header.Set("Authorization", "Bearer test")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, 10, gotOffset)

	var body struct {
		Trips []domain.TripRecord `json:"trips"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Trips, 2)
	assert.Equal(t, "t2", body.Trips[0].ID)
}

func TestHandler_DeleteTrip(t *testing.T) {
	svc := &mocks.MockTripService{
		DeleteTripFunc: func(ctx context.Context, userID, id string) error {
			if id == "missing" {
				return domain.ErrNotFound
			}
			return nil
		},
	}
	app := newTestApp(svc)

	for id, want := range map[string]int{"trip-1": fiber.StatusNoContent, "missing": fiber.StatusNotFound} {
		req := httptest.NewRequest("DELETE", "/api/v1/trips/"+id, nil)
		req.Header.Set("Authorization", "Bearer test")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, id)
	}
}

func TestHandler_ListTripsEchoesClampedPaging(t *testing.T) {
	var gotLimit, gotOffset int
	svc := &mocks.MockTripService{
		ListTripsFunc: func(ctx context.Context, userID string, limit, offset int) ([]domain.TripRecord, error) {
			gotLimit, gotOffset = limit, offset
			return []domain.TripRecord{}, nil
		},
	}
	app := newTestApp(svc)

	req := httptest.NewRequest("GET", "/api/v1/trips?limit=500&offset=-3", nil)
	req.Header.Set("Authorization", "Bearer test")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.DefaultPageLimit, gotLimit)
	assert.Equal(t, 0, gotOffset)

	var body struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, domain.DefaultPageLimit, body.Limit)
	assert.Equal(t, 0, body.Offset)
}
