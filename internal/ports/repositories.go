package ports

import (
	"context"
	"time"

	"github.com/evrecharge/evrecharge-api/internal/domain"
)

type StationRepository interface {
	Save(ctx context.Context, station *domain.Station) error
	FindByID(ctx context.Context, id string) (*domain.Station, error)
	FindAll(ctx context.Context) ([]domain.Station, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Station, error)
	Delete(ctx context.Context, id string) error
	// AdjustAvailability adds delta to the free port count, keeping it within [0, total].
	// It returns the updated station, or domain.ErrConflict when the change would leave the range.
	AdjustAvailability(ctx context.Context, id string, delta int) (*domain.Station, error)
	Count(ctx context.Context) (int64, error)
	SumPorts(ctx context.Context) (total int64, available int64, err error)
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// TripRepository handles trip history persistence
type TripRepository interface {
	Save(ctx context.Context, trip *domain.TripRecord) error
	GetByID(ctx context.Context, id string) (*domain.TripRecord, error)
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]domain.TripRecord, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// VehicleRepository handles vehicle catalog persistence
type VehicleRepository interface {
	Save(ctx context.Context, vehicle *domain.Vehicle) error
	FindAll(ctx context.Context) ([]domain.Vehicle, error)
	FindByLabel(ctx context.Context, label string) (*domain.Vehicle, error)
}

// FavoriteRepository handles per-user favourite stations
type FavoriteRepository interface {
	Add(ctx context.Context, fav *domain.Favorite) error
	Remove(ctx context.Context, userID, stationID string) error
	StationIDs(ctx context.Context, userID string) ([]string, error)
}

// ReservationRepository handles reservation persistence
type ReservationRepository interface {
	Save(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID string, status string, limit, offset int) ([]domain.Reservation, error)
	GetByStationID(ctx context.Context, stationID string, date time.Time) ([]domain.Reservation, error)
	GetByTimeRange(ctx context.Context, stationID string, startTime, endTime time.Time) ([]domain.Reservation, error)
	GetByStationBetween(ctx context.Context, stationID string, startDate, endDate time.Time) ([]domain.Reservation, error)
	GetExpired(ctx context.Context, gracePeriod time.Duration) ([]domain.Reservation, error)
	CountByUserAndStatus(ctx context.Context, userID string, statuses []domain.ReservationStatus) (int, error)
	CountByStatus(ctx context.Context, statuses []domain.ReservationStatus) (int64, error)
}
