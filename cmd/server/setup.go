package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/adapter/cache"
	"github.com/evrecharge/evrecharge-api/internal/adapter/distance"
	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
	"github.com/evrecharge/evrecharge-api/internal/service/planner"
	"github.com/evrecharge/evrecharge-api/pkg/config"
)

// newLogger builds the process logger from the logging section
func newLogger(cfg config.LoggingConfig, environment string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if environment == "development" {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging.level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = level

	switch cfg.Format {
	case "json", "console":
		zapCfg.Encoding = cfg.Format
	case "":
	default:
		return nil, fmt.Errorf("invalid logging.format %q", cfg.Format)
	}

	return zapCfg.Build()
}

// newCache connects to Redis, or falls back to an in-process cache outside production
func newCache(cfg *config.Config, log *zap.Logger) (ports.Cache, *cache.RedisCache, error) {
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL, cfg.Redis.KeyPrefix, log)
		if err == nil {
			return redisCache, redisCache, nil
		}
		if cfg.IsProduction() {
			return nil, nil, err
		}
		log.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
	}
	return cache.NewLocalCache(time.Minute, log), nil, nil
}

// newDistanceSource returns the configured road-distance source
func newDistanceSource(cfg config.RoutingConfig, ttl time.Duration, c ports.Cache, log *zap.Logger) (ports.DistanceSource, error) {
	placeholder := distance.NewPlaceholder()
	if cfg.Provider != "ors" {
		log.Warn("Using placeholder distances; set routing.provider=ors for real routing")
		return placeholder, nil
	}

	ors, err := distance.NewORS(distance.ORSConfig{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Profile:        cfg.Profile,
		Country:        cfg.Country,
		Timeout:        cfg.Timeout,
		CacheTTL:       ttl,
		MaxAttempts:    cfg.MaxAttempts,
		InitialBackoff: cfg.InitialBackoff,
		BreakerTimeout: cfg.BreakerTimeout,
		BreakerTrips:   cfg.BreakerTrips,
	}, c, log)
	if err != nil {
		return nil, err
	}

	if cfg.Fallback {
		return distance.NewFallback(ors, placeholder, log), nil
	}
	return ors, nil
}

// plannerPolicy maps the planner section onto the estimator policy
func plannerPolicy(cfg config.PlannerConfig) planner.Policy {
	policy := planner.DefaultPolicy()
	policy.AssumedSpeedMPH = cfg.AverageSpeedMph
	policy.SafetyFactor = 1 - cfg.SafetyBufferPercent/100
	policy.ChargingDurationMinutes = cfg.ChargingDurationMinutes
	return policy
}

func reservationConfig(cfg config.ReservationConfig) *domain.ReservationConfig {
	rc := domain.DefaultReservationConfig()
	rc.MaxDurationMinutes = cfg.MaxDurationMinutes
	rc.MinDurationMinutes = cfg.MinDurationMinutes
	rc.MaxAdvanceBookingDays = cfg.MaxAdvanceBookingDays
	rc.GracePeriodMinutes = cfg.GracePeriodMinutes
	rc.MaxActiveReservations = cfg.MaxActiveReservations
	return rc
}
