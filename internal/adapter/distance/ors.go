package distance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/observability/telemetry"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

const metersPerMile = 1609.344

// ORSConfig configures the OpenRouteService client
type ORSConfig struct {
	APIKey         string
	BaseURL        string
	Profile        string
	Country        string
	Timeout        time.Duration
	CacheTTL       time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	BreakerTimeout time.Duration
	BreakerTrips   uint32
}

func (c *ORSConfig) setDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openrouteservice.org"
	}
	if c.Profile == "" {
		c.Profile = "driving-car"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 24 * time.Hour
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 4
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 200 * time.Millisecond
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = 30 * time.Second
	}
	if c.BreakerTrips == 0 {
		c.BreakerTrips = 5
	}
}

// ORS resolves driving distances through OpenRouteService. Geocodes and
// distances are cached; calls go through a circuit breaker.
//
// ORS is safe for concurrent use.
type ORS struct {
	client  *http.Client
	cfg     ORSConfig
	cache   ports.Cache
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewORS creates an OpenRouteService distance source. cache may be nil.
func NewORS(cfg ORSConfig, cache ports.Cache, log *zap.Logger) (*ORS, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	cfg.setDefaults()

	o := &ORS{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		cache:  cache,
		log:    log,
	}

	o.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ors",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerTrips
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return o, nil
}

// lookup carries errors caused by the request itself, which must not trip the breaker
type lookup struct {
	miles float64
	err   error
}

func (o *ORS) Distance(ctx context.Context, origin, destination string) (float64, error) {
	start := time.Now()
	defer func() {
		telemetry.DistanceLookupLatency.WithLabelValues("ors").Observe(time.Since(start).Seconds())
	}()

	normOrigin := normalize(origin)
	normDest := normalize(destination)
	if normOrigin == "" {
		return 0, domain.NewInvalidInput("start_location", "is required")
	}
	if normDest == "" {
		return 0, domain.NewInvalidInput("destination", "is required")
	}

	key := "distance:" + o.cfg.Profile + ":" + strings.ToLower(normOrigin) + "|" + strings.ToLower(normDest)
	if miles, ok := o.cachedFloat(ctx, key); ok {
		return miles, nil
	}

	res, err := o.breaker.Execute(func() (interface{}, error) {
		miles, err := o.fetch(ctx, normOrigin, normDest)
		if err != nil && !isTransient(err) {
			return lookup{err: err}, nil
		}
		return lookup{miles: miles}, err
	})
	if err != nil {
		return 0, fmt.Errorf("ors distance %q -> %q: %w", normOrigin, normDest, err)
	}

	out := res.(lookup)
	if out.err != nil {
		return 0, fmt.Errorf("ors distance %q -> %q: %w", normOrigin, normDest, out.err)
	}

	o.store(ctx, key, strconv.FormatFloat(out.miles, 'f', -1, 64))
	return out.miles, nil
}

func (o *ORS) fetch(ctx context.Context, origin, destination string) (float64, error) {
	from, err := o.geocode(ctx, origin)
	if err != nil {
		return 0, err
	}
	to, err := o.geocode(ctx, destination)
	if err != nil {
		return 0, err
	}

	meters, err := o.fetchMatrixDistance(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if meters <= 0 {
		return 0, fmt.Errorf("%w: no drivable route between %q and %q", domain.ErrInvalidInput, origin, destination)
	}

	return math.Round(meters/metersPerMile*10) / 10, nil
}

func (o *ORS) cachedFloat(ctx context.Context, key string) (float64, bool) {
	if o.cache == nil {
		return 0, false
	}
	raw, err := o.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			o.log.Warn("Distance cache read failed", zap.String("key", key), zap.Error(err))
		}
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (o *ORS) store(ctx context.Context, key, value string) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Set(ctx, key, value, o.cfg.CacheTTL); err != nil {
		o.log.Warn("Distance cache write failed", zap.String("key", key), zap.Error(err))
	}
}
