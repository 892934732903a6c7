package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

// MockAuthService is a mock implementation of AuthService interface
type MockAuthService struct {
	LoginFunc         func(ctx context.Context, email, password string) (string, string, error)
	RegisterFunc      func(ctx context.Context, user *domain.User) error
	RefreshTokenFunc  func(ctx context.Context, token string) (string, error)
	LogoutFunc        func(ctx context.Context, token string) error
	ValidateTokenFunc func(ctx context.Context, token string) (*domain.User, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", "", nil
}

func (m *MockAuthService) Register(ctx context.Context, user *domain.User) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, user)
	}
	return nil
}

func (m *MockAuthService) RefreshToken(ctx context.Context, token string) (string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, token)
	}
	return "", nil
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, domain.ErrUnauthorized
}

// MockVehicleCatalog is a mock implementation of VehicleCatalog interface
type MockVehicleCatalog struct {
	ListFunc   func(ctx context.Context) ([]domain.Vehicle, error)
	LookupFunc func(ctx context.Context, label string) (*domain.Vehicle, error)
	UpsertFunc func(ctx context.Context, vehicle *domain.Vehicle) error
}

func (m *MockVehicleCatalog) List(ctx context.Context) ([]domain.Vehicle, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return domain.DefaultVehicles(), nil
}

func (m *MockVehicleCatalog) Lookup(ctx context.Context, label string) (*domain.Vehicle, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, label)
	}
	return nil, domain.ErrNotFound
}

func (m *MockVehicleCatalog) Upsert(ctx context.Context, vehicle *domain.Vehicle) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, vehicle)
	}
	return nil
}

// MockDistanceSource is a mock implementation of DistanceSource interface
type MockDistanceSource struct {
	DistanceFunc func(ctx context.Context, origin, destination string) (float64, error)
}

func (m *MockDistanceSource) Distance(ctx context.Context, origin, destination string) (float64, error) {
	if m.DistanceFunc != nil {
		return m.DistanceFunc(ctx, origin, destination)
	}
	return 100, nil
}

// MockTripService is a mock implementation of TripService interface
type MockTripService struct {
	EstimateFunc   func(ctx context.Context, req domain.TripRequest) (*domain.TripPlan, error)
	PlanTripFunc   func(ctx context.Context, req *domain.PlanTripRequest) (*domain.TripRecord, error)
	ListTripsFunc  func(ctx context.Context, userID string, limit, offset int) ([]domain.TripRecord, error)
	GetTripFunc    func(ctx context.Context, userID, id string) (*domain.TripRecord, error)
	DeleteTripFunc func(ctx context.Context, userID, id string) error
}

func (m *MockTripService) Estimate(ctx context.Context, req domain.TripRequest) (*domain.TripPlan, error) {
	if m.EstimateFunc != nil {
		return m.EstimateFunc(ctx, req)
	}
	return &domain.TripPlan{Stops: []domain.ChargingStop{}}, nil
}

func (m *MockTripService) PlanTrip(ctx context.Context, req *domain.PlanTripRequest) (*domain.TripRecord, error) {
	if m.PlanTripFunc != nil {
		return m.PlanTripFunc(ctx, req)
	}
	return &domain.TripRecord{}, nil
}

func (m *MockTripService) ListTrips(ctx context.Context, userID string, limit, offset int) ([]domain.TripRecord, error) {
	if m.ListTripsFunc != nil {
		return m.ListTripsFunc(ctx, userID, limit, offset)
	}
	return []domain.TripRecord{}, nil
}

func (m *MockTripService) GetTrip(ctx context.Context, userID, id string) (*domain.TripRecord, error) {
	if m.GetTripFunc != nil {
		return m.GetTripFunc(ctx, userID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockTripService) DeleteTrip(ctx context.Context, userID, id string) error {
	if m.DeleteTripFunc != nil {
		return m.DeleteTripFunc(ctx, userID, id)
	}
	return nil
}

// MockStationService is a mock implementation of StationService interface
type MockStationService struct {
	ListFunc               func(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error)
	GetFunc                func(ctx context.Context, id string) (*domain.Station, error)
	TypesFunc              func(ctx context.Context) ([]string, error)
	NearbyFunc             func(ctx context.Context, lat, lon, radiusMiles float64) ([]domain.Station, error)
	CreateFunc             func(ctx context.Context, station *domain.Station) error
	UpdateFunc             func(ctx context.Context, station *domain.Station) error
	DeleteFunc             func(ctx context.Context, id string) error
	AddFavoriteFunc        func(ctx context.Context, userID, stationID string) error
	RemoveFavoriteFunc     func(ctx context.Context, userID, stationID string) error
	ListFavoritesFunc      func(ctx context.Context, userID string) ([]domain.Station, error)
	AdjustAvailabilityFunc func(ctx context.Context, id string, delta int) (*domain.Station, error)
}

func (m *MockStationService) List(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []domain.Station{}, nil
}

func (m *MockStationService) Get(ctx context.Context, id string) (*domain.Station, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockStationService) Types(ctx context.Context) ([]string, error) {
	if m.TypesFunc != nil {
		return m.TypesFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockStationService) Nearby(ctx context.Context, lat, lon, radiusMiles float64) ([]domain.Station, error) {
	if m.NearbyFunc != nil {
		return m.NearbyFunc(ctx, lat, lon, radiusMiles)
	}
	return []domain.Station{}, nil
}

func (m *MockStationService) Create(ctx context.Context, station *domain.Station) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, station)
	}
	return nil
}

func (m *MockStationService) Update(ctx context.Context, station *domain.Station) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, station)
	}
	return nil
}

func (m *MockStationService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockStationService) AddFavorite(ctx context.Context, userID, stationID string) error {
	if m.AddFavoriteFunc != nil {
		return m.AddFavoriteFunc(ctx, userID, stationID)
	}
	return nil
}

func (m *MockStationService) RemoveFavorite(ctx context.Context, userID, stationID string) error {
	if m.RemoveFavoriteFunc != nil {
		return m.RemoveFavoriteFunc(ctx, userID, stationID)
	}
	return nil
}

func (m *MockStationService) ListFavorites(ctx context.Context, userID string) ([]domain.Station, error) {
	if m.ListFavoritesFunc != nil {
		return m.ListFavoritesFunc(ctx, userID)
	}
	return []domain.Station{}, nil
}

func (m *MockStationService) AdjustAvailability(ctx context.Context, id string, delta int) (*domain.Station, error) {
	if m.AdjustAvailabilityFunc != nil {
		return m.AdjustAvailabilityFunc(ctx, id, delta)
	}
	return nil, nil
}

// MockNotifier records reservation notifications
type MockNotifier struct {
	mu        sync.Mutex
	Created   []string
	Cancelled []string
	Err       error
}

func (m *MockNotifier) ReservationCreated(ctx context.Context, user *domain.User, reservation *domain.Reservation, station *domain.Station) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, reservation.ID)
	return m.Err
}

func (m *MockNotifier) ReservationCancelled(ctx context.Context, user *domain.User, reservation *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cancelled = append(m.Cancelled, reservation.ID)
	return m.Err
}

// MockBroadcaster records broadcast station snapshots
type MockBroadcaster struct {
	mu       sync.Mutex
	Stations []domain.Station
}

func (m *MockBroadcaster) BroadcastStation(station *domain.Station) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stations = append(m.Stations, *station)
}

// FixedClock returns a clock function frozen at t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var (
	_ ports.AuthService        = (*MockAuthService)(nil)
	_ ports.VehicleCatalog     = (*MockVehicleCatalog)(nil)
	_ ports.DistanceSource     = (*MockDistanceSource)(nil)
	_ ports.TripService        = (*MockTripService)(nil)
	_ ports.StationService     = (*MockStationService)(nil)
	_ ports.Notifier           = (*MockNotifier)(nil)
	_ ports.StationBroadcaster = (*MockBroadcaster)(nil)
)
