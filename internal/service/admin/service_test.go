package admin

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/adapter/http/fiber/middleware"
	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newTestService(users *mocks.MockUserRepository) *Service {
	stations := &mocks.MockStationRepository{
		CountFunc: func(ctx context.Context) (int64, error) { return 3, nil },
		SumPortsFunc: func(ctx context.Context) (int64, int64, error) {
			return 20, 7, nil
		},
		FindAllFunc: func(ctx context.Context) ([]domain.Station, error) {
			return []domain.Station{
				{ID: "s1", Name: "Mission Bay, SF", Type: "DC Fast", Available: 2, Total: 8, Rating: 4.5, Latitude: 37.77, Longitude: -122.39},
			}, nil
		},
	}
	reservations := &mocks.MockReservationRepository{
		CountByStatusFunc: func(ctx context.Context, statuses []domain.ReservationStatus) (int64, error) {
			return int64(len(statuses)), nil
		},
	}
	trips := &mocks.MockTripRepository{
		CountFunc: func(ctx context.Context) (int64, error) { return 42, nil },
	}
	svc := NewService(users, stations, reservations, trips, newTestLogger())
	svc.now = mocks.FixedClock(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	return svc
}

func TestOverview(t *testing.T) {
	// Arrange
	svc := newTestService(&mocks.MockUserRepository{
		CountFunc: func(ctx context.Context) (int64, error) { return 11, nil },
	})

	// Act
	overview, err := svc.Overview(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &domain.Overview{
		TotalUsers:         11,
		TotalStations:      3,
		TotalPorts:         20,
		AvailablePorts:     7,
		ActiveReservations: int64(len(domain.HoldingStatuses)),
		TripsPlanned:       42,
		GeneratedAt:        time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
	}, overview)
}

func TestOverview_PropagatesErrors(t *testing.T) {
	svc := newTestService(&mocks.MockUserRepository{
		CountFunc: func(ctx context.Context) (int64, error) { return 0, errors.New("db down") },
	})

	_, err := svc.Overview(context.Background())

	assert.Error(t, err)
}

func TestListUsers_ClampsPaging(t *testing.T) {
	var gotLimit, gotOffset int
	svc := newTestService(&mocks.MockUserRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]domain.User, error) {
			gotLimit, gotOffset = limit, offset
			return []domain.User{}, nil
		},
	})

	_, err := svc.ListUsers(context.Background(), 1000, -5)

	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 0, gotOffset)
}

func TestSetUserRole(t *testing.T) {
	var saved *domain.User
	users := &mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			if id == "u1" {
				return &domain.User{ID: "u1", Role: domain.UserRoleUser}, nil
			}
			return nil, nil
		},
		SaveFunc: func(ctx context.Context, user *domain.User) error {
			saved = user
			return nil
		},
	}
	svc := newTestService(users)

	user, err := svc.SetUserRole(context.Background(), "u1", domain.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, user.Role)
	assert.Equal(t, user, saved)

	_, err = svc.SetUserRole(context.Background(), "u1", "operator")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SetUserRole(context.Background(), "ghost", domain.UserRoleUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetUserStatus(t *testing.T) {
	svc := newTestService(&mocks.MockUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Status: "Active"}, nil
		},
	})

	user, err := svc.SetUserStatus(context.Background(), "u1", "Blocked")
	require.NoError(t, err)
	assert.Equal(t, "Blocked", user.Status)

	_, err = svc.SetUserStatus(context.Background(), "u1", "Deleted")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStationReport(t *testing.T) {
	svc := newTestService(&mocks.MockUserRepository{})

	report, err := svc.StationReport(context.Background())

	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(report))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "StationID", rows[0][0])
	assert.Equal(t, []string{"s1", "Mission Bay, SF", "DC Fast", "", "2", "8", "4.5", "37.770000", "-122.390000"}, rows[1])
}

func TestHandler_RequiresAdmin(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(newTestLogger())})
	auth := func(c *fiber.Ctx) error {
		c.Locals("user_role", utils.CopyString(c.Get("X-Test-Role")))
		return c.Next()
	}
	NewHandler(newTestService(&mocks.MockUserRepository{})).RegisterRoutes(app, auth, middleware.RequireRole(domain.UserRoleAdmin))

	req := httptest.NewRequest("GET", "/api/v1/admin/overview", nil)
	req.Header.Set("X-Test-Role", "user")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/v1/admin/reports/stations", nil)
	req.Header.Set("X-Test-Role", "admin")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
}
