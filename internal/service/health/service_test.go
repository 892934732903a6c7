package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestReady_AllHealthy(t *testing.T) {
	// Arrange
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := NewService(&Config{
		Version: "1.2.3",
		Redis:   client,
		Queue:   func() error { return nil },
	}, newTestLogger())

	// Act
	resp := svc.Ready(context.Background())

	// Assert
	assert.True(t, resp.Ready)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Len(t, resp.Checks, 2)
	assert.Equal(t, StatusHealthy, resp.Checks["redis"].Status)
}

func TestReady_RedisDownDegrades(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	svc := NewService(&Config{Redis: client, Timeout: time.Second}, newTestLogger())

	resp := svc.Ready(context.Background())

	assert.True(t, resp.Ready)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Contains(t, resp.Checks["redis"].Message, "ping failed")
}

func TestReady_CustomUnhealthyChecker(t *testing.T) {
	svc := NewService(&Config{Queue: func() error { return errors.New("nats: RECONNECTING") }}, newTestLogger())
	svc.RegisterChecker("database", func(ctx context.Context) CheckResult {
		return CheckResult{Name: "database", Status: StatusUnhealthy}
	})

	resp := svc.Ready(context.Background())

	assert.False(t, resp.Ready)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Equal(t, StatusDegraded, resp.Checks["queue"].Status)
}

func TestReady_CheckerTimeout(t *testing.T) {
	svc := NewService(&Config{Timeout: 50 * time.Millisecond}, newTestLogger())
	svc.RegisterChecker("slow", pingCheck("slow", StatusUnhealthy, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, newTestLogger()))

	start := time.Now()
	resp := svc.Ready(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, resp.Ready)
}

func TestHandler_Routes(t *testing.T) {
	svc := NewService(&Config{Version: "1.2.3"}, newTestLogger())
	svc.RegisterChecker("database", func(ctx context.Context) CheckResult {
		return CheckResult{Name: "database", Status: StatusUnhealthy}
	})
	app := fiber.New()
	NewFiberHandler(svc).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "1.2.3", health.Version)

	resp, err = app.Test(httptest.NewRequest("GET", "/readyz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
