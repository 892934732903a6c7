package reservation

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrecharge/evrecharge-api/internal/adapter/http/fiber/middleware"
	"github.com/evrecharge/evrecharge-api/internal/domain"
)

func newTestApp(svc *Service) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(newTestLogger())})
	auth := func(c *fiber.Ctx) error {
		// header values alias fasthttp's reused buffers
		user := utils.CopyString(c.Get("X-Test-User"))
		if user == "" {
			return domain.ErrUnauthorized
		}
		c.Locals("user_id", user)
		c.Locals("user_role", utils.CopyString(c.Get("X-Test-Role", string(domain.UserRoleUser))))
		return c.Next()
	}
	admin := func(c *fiber.Ctx) error {
		if role, _ := c.Locals("user_role").(string); role != string(domain.UserRoleAdmin) {
			return domain.ErrForbidden
		}
		return c.Next()
	}
	NewHandler(svc).RegisterRoutes(app, auth, admin)
	return app
}

func createViaHTTP(t *testing.T, app *fiber.App, user string) domain.Reservation {
	t.Helper()
	body := `{"station_id":"st-1","start_time":"` + testNow.Add(time.Hour).Format(time.RFC3339) + `","duration":60}`
	req := httptest.NewRequest("POST", "/api/v1/reservations/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var r domain.Reservation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	return r
}

func TestHandler_CreateAndGet(t *testing.T) {
	f := newFixture(2, 2)
	app := newTestApp(f.svc)

	r := createViaHTTP(t, app, "user-1")
	assert.Equal(t, "st-1", r.StationID)

	req := httptest.NewRequest("GET", "/api/v1/reservations/"+r.ID, nil)
	req.Header.Set("X-Test-User", "user-2")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// the stored owner survives later requests with same-length user headers
	stored, err := f.svc.GetReservation(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", stored.UserID)

	req = httptest.NewRequest("GET", "/api/v1/reservations/"+r.ID, nil)
	req.Header.Set("X-Test-User", "user-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/v1/reservations/"+r.ID, nil)
	req.Header.Set("X-Test-User", "ops")
	req.Header.Set("X-Test-Role", "admin")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandler_CreateFullStationIsConflict(t *testing.T) {
	f := newFixture(1, 0)
	app := newTestApp(f.svc)

	body := `{"station_id":"st-1","start_time":"` + testNow.Add(time.Hour).Format(time.RFC3339) + `","duration":60}`
	req := httptest.NewRequest("POST", "/api/v1/reservations/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", "user-1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestHandler_CancelWithoutBody(t *testing.T) {
	f := newFixture(1, 1)
	app := newTestApp(f.svc)
	r := createViaHTTP(t, app, "user-1")

	req := httptest.NewRequest("DELETE", "/api/v1/reservations/"+r.ID, nil)
	req.Header.Set("X-Test-User", "user-1")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, f.stations.available("st-1"))
}

func TestHandler_CompleteRequiresAdmin(t *testing.T) {
	f := newFixture(1, 1)
	app := newTestApp(f.svc)
	r := createViaHTTP(t, app, "user-1")

	req := httptest.NewRequest("POST", "/api/v1/reservations/"+r.ID+"/complete", nil)
	req.Header.Set("X-Test-User", "user-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/v1/reservations/"+r.ID+"/complete", nil)
	req.Header.Set("X-Test-User", "ops")
	req.Header.Set("X-Test-Role", "admin")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandler_AvailabilityBadDate(t *testing.T) {
	app := newTestApp(newFixture(1, 1).svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/stations/st-1/availability?date=18-10-2026", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "date", body["field"])
}

func TestHandler_Availability(t *testing.T) {
	app := newTestApp(newFixture(1, 1).svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/stations/st-1/availability?date=2026-10-19", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Slots []domain.TimeSlot `json:"slots"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Slots, 32)
}
