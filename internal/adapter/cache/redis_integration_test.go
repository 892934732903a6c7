//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/ports"
)

func redisURL(t *testing.T) string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return url
}

func TestRedisCache_Integration(t *testing.T) {
	c, err := NewRedisCache(redisURL(t), "it:", zap.NewNop())
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Ping())

	require.NoError(t, c.Set(ctx, "stations:all", `[{"id":"1"}]`, time.Minute))
	val, err := c.Get(ctx, "stations:all")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, val)

	raw, err := c.Client().Get(ctx, "it:stations:all").Result()
	require.NoError(t, err)
	assert.Equal(t, val, raw)

	require.NoError(t, c.Set(ctx, "revoked_token:abc", "1", 200*time.Millisecond))
	time.Sleep(400 * time.Millisecond)
	_, err = c.Get(ctx, "revoked_token:abc")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}
