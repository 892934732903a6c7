package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// Cache is a string key/value store with expiry
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}

// DistanceSource returns the driving distance in miles between two places
type DistanceSource interface {
	Distance(ctx context.Context, origin, destination string) (float64, error)
}

// Event subjects
const (
	SubjectTripPlanned          = "trips.planned"
	SubjectReservationCreated   = "reservations.created"
	SubjectReservationCancelled = "reservations.cancelled"
	SubjectStationUpdated       = "stations.updated"
)

// EventPublisher publishes JSON domain events
type EventPublisher interface {
	Publish(subject string, data []byte) error
}
