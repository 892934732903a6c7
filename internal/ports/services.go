package ports

import (
	"context"
	"time"

	"github.com/evrecharge/evrecharge-api/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error) // token, refresh, err
	Register(ctx context.Context, user *domain.User) error
	RefreshToken(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// TripPlanner is the pure charging-stop estimator
type TripPlanner interface {
	Plan(req domain.TripRequest) (*domain.TripPlan, error)
}

type TripService interface {
	Estimate(ctx context.Context, req domain.TripRequest) (*domain.TripPlan, error)
	PlanTrip(ctx context.Context, req *domain.PlanTripRequest) (*domain.TripRecord, error)
	ListTrips(ctx context.Context, userID string, limit, offset int) ([]domain.TripRecord, error)
	GetTrip(ctx context.Context, userID, id string) (*domain.TripRecord, error)
	DeleteTrip(ctx context.Context, userID, id string) error
}

// VehicleCatalog supplies (label, range) pairs for trip planning
type VehicleCatalog interface {
	List(ctx context.Context) ([]domain.Vehicle, error)
	Lookup(ctx context.Context, label string) (*domain.Vehicle, error)
	Upsert(ctx context.Context, vehicle *domain.Vehicle) error
}

type StationService interface {
	List(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error)
	Get(ctx context.Context, id string) (*domain.Station, error)
	Types(ctx context.Context) ([]string, error)
	Nearby(ctx context.Context, lat, lon, radiusMiles float64) ([]domain.Station, error)
	Create(ctx context.Context, station *domain.Station) error
	Update(ctx context.Context, station *domain.Station) error
	Delete(ctx context.Context, id string) error
	AddFavorite(ctx context.Context, userID, stationID string) error
	RemoveFavorite(ctx context.Context, userID, stationID string) error
	ListFavorites(ctx context.Context, userID string) ([]domain.Station, error)
	// AdjustAvailability is used by reservations to take or release a port
	AdjustAvailability(ctx context.Context, id string, delta int) (*domain.Station, error)
}

// ReservationService handles charging station reservations
type ReservationService interface {
	CreateReservation(ctx context.Context, req *ReservationRequest) (*domain.Reservation, error)
	GetReservation(ctx context.Context, id string) (*domain.Reservation, error)
	GetUserReservations(ctx context.Context, userID string, status string, limit, offset int) ([]domain.Reservation, error)
	GetStationReservations(ctx context.Context, stationID string, date time.Time) ([]domain.Reservation, error)
	CancelReservation(ctx context.Context, id string, userID string, reason string) error
	ConfirmReservation(ctx context.Context, id string) error
	CompleteReservation(ctx context.Context, id string) error
	CheckAvailability(ctx context.Context, stationID string, startTime, endTime time.Time) (bool, error)
	GetAvailableSlots(ctx context.Context, stationID string, date time.Time) ([]domain.TimeSlot, error)
	ProcessExpiredReservations(ctx context.Context) error
	GetReservationSummary(ctx context.Context, stationID string, startDate, endDate time.Time) (*domain.ReservationSummary, error)
}

// ReservationRequest represents a reservation creation request
type ReservationRequest struct {
	UserID    string
	StationID string
	StartTime time.Time
	Duration  int // minutes
	Notes     string
}

type AdminService interface {
	Overview(ctx context.Context) (*domain.Overview, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	SetUserRole(ctx context.Context, userID string, role domain.UserRole) (*domain.User, error)
	SetUserStatus(ctx context.Context, userID string, status string) (*domain.User, error)
	StationReport(ctx context.Context) ([]byte, error)
}

// Notifier sends user-facing messages about reservations
type Notifier interface {
	ReservationCreated(ctx context.Context, user *domain.User, reservation *domain.Reservation, station *domain.Station) error
	ReservationCancelled(ctx context.Context, user *domain.User, reservation *domain.Reservation) error
}

// StationBroadcaster pushes live station updates to connected clients
type StationBroadcaster interface {
	BroadcastStation(station *domain.Station)
}
