package mocks

import (
	"context"
	"time"

	"github.com/evrecharge/evrecharge-api/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	ListFunc        func(ctx context.Context, limit, offset int) ([]domain.User, error)
	CountFunc       func(ctx context.Context) (int64, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []domain.User{}, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// MockStationRepository is a mock implementation of StationRepository
type MockStationRepository struct {
	SaveFunc               func(ctx context.Context, station *domain.Station) error
	FindByIDFunc           func(ctx context.Context, id string) (*domain.Station, error)
	FindAllFunc            func(ctx context.Context) ([]domain.Station, error)
	FindByIDsFunc          func(ctx context.Context, ids []string) ([]domain.Station, error)
	DeleteFunc             func(ctx context.Context, id string) error
	AdjustAvailabilityFunc func(ctx context.Context, id string, delta int) (*domain.Station, error)
	CountFunc              func(ctx context.Context) (int64, error)
	SumPortsFunc           func(ctx context.Context) (int64, int64, error)
}

func (m *MockStationRepository) Save(ctx context.Context, station *domain.Station) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, station)
	}
	return nil
}

func (m *MockStationRepository) FindByID(ctx context.Context, id string) (*domain.Station, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStationRepository) FindAll(ctx context.Context) ([]domain.Station, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.Station{}, nil
}

func (m *MockStationRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Station, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return []domain.Station{}, nil
}

func (m *MockStationRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockStationRepository) AdjustAvailability(ctx context.Context, id string, delta int) (*domain.Station, error) {
	if m.AdjustAvailabilityFunc != nil {
		return m.AdjustAvailabilityFunc(ctx, id, delta)
	}
	return nil, nil
}

func (m *MockStationRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockStationRepository) SumPorts(ctx context.Context) (int64, int64, error) {
	if m.SumPortsFunc != nil {
		return m.SumPortsFunc(ctx)
	}
	return 0, 0, nil
}

// MockTripRepository is a mock implementation of TripRepository
type MockTripRepository struct {
	SaveFunc        func(ctx context.Context, trip *domain.TripRecord) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.TripRecord, error)
	GetByUserIDFunc func(ctx context.Context, userID string, limit, offset int) ([]domain.TripRecord, error)
	DeleteFunc      func(ctx context.Context, id string) error
	CountFunc       func(ctx context.Context) (int64, error)
}

func (m *MockTripRepository) Save(ctx context.Context, trip *domain.TripRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, trip)
	}
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.TripRecord, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTripRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]domain.TripRecord, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID, limit, offset)
	}
	return []domain.TripRecord{}, nil
}

func (m *MockTripRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTripRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// MockVehicleRepository is a mock implementation of VehicleRepository
type MockVehicleRepository struct {
	SaveFunc        func(ctx context.Context, vehicle *domain.Vehicle) error
	FindAllFunc     func(ctx context.Context) ([]domain.Vehicle, error)
	FindByLabelFunc func(ctx context.Context, label string) (*domain.Vehicle, error)
}

func (m *MockVehicleRepository) Save(ctx context.Context, vehicle *domain.Vehicle) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, vehicle)
	}
	return nil
}

func (m *MockVehicleRepository) FindAll(ctx context.Context) ([]domain.Vehicle, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return []domain.Vehicle{}, nil
}

func (m *MockVehicleRepository) FindByLabel(ctx context.Context, label string) (*domain.Vehicle, error) {
	if m.FindByLabelFunc != nil {
		return m.FindByLabelFunc(ctx, label)
	}
	return nil, nil
}

// MockFavoriteRepository is a mock implementation of FavoriteRepository
type MockFavoriteRepository struct {
	AddFunc        func(ctx context.Context, fav *domain.Favorite) error
	RemoveFunc     func(ctx context.Context, userID, stationID string) error
	StationIDsFunc func(ctx context.Context, userID string) ([]string, error)
}

func (m *MockFavoriteRepository) Add(ctx context.Context, fav *domain.Favorite) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, fav)
	}
	return nil
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, stationID string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, stationID)
	}
	return nil
}

func (m *MockFavoriteRepository) StationIDs(ctx context.Context, userID string) ([]string, error) {
	if m.StationIDsFunc != nil {
		return m.StationIDsFunc(ctx, userID)
	}
	return []string{}, nil
}

// MockReservationRepository is a mock implementation of ReservationRepository
type MockReservationRepository struct {
	SaveFunc                 func(ctx context.Context, reservation *domain.Reservation) error
	GetByIDFunc              func(ctx context.Context, id string) (*domain.Reservation, error)
	GetByUserIDFunc          func(ctx context.Context, userID string, status string, limit, offset int) ([]domain.Reservation, error)
	GetByStationIDFunc       func(ctx context.Context, stationID string, date time.Time) ([]domain.Reservation, error)
	GetByTimeRangeFunc       func(ctx context.Context, stationID string, startTime, endTime time.Time) ([]domain.Reservation, error)
	GetByStationBetweenFunc  func(ctx context.Context, stationID string, startDate, endDate time.Time) ([]domain.Reservation, error)
	GetExpiredFunc           func(ctx context.Context, gracePeriod time.Duration) ([]domain.Reservation, error)
	CountByUserAndStatusFunc func(ctx context.Context, userID string, statuses []domain.ReservationStatus) (int, error)
	CountByStatusFunc        func(ctx context.Context, statuses []domain.ReservationStatus) (int64, error)
}

func (m *MockReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, reservation)
	}
	return nil
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockReservationRepository) GetByUserID(ctx context.Context, userID string, status string, limit, offset int) ([]domain.Reservation, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID, status, limit, offset)
	}
	return []domain.Reservation{}, nil
}

func (m *MockReservationRepository) GetByStationID(ctx context.Context, stationID string, date time.Time) ([]domain.Reservation, error) {
	if m.GetByStationIDFunc != nil {
		return m.GetByStationIDFunc(ctx, stationID, date)
	}
	return []domain.Reservation{}, nil
}

func (m *MockReservationRepository) GetByTimeRange(ctx context.Context, stationID string, startTime, endTime time.Time) ([]domain.Reservation, error) {
	if m.GetByTimeRangeFunc != nil {
		return m.GetByTimeRangeFunc(ctx, stationID, startTime, endTime)
	}
	return []domain.Reservation{}, nil
}

func (m *MockReservationRepository) GetByStationBetween(ctx context.Context, stationID string, startDate, endDate time.Time) ([]domain.Reservation, error) {
	if m.GetByStationBetweenFunc != nil {
		return m.GetByStationBetweenFunc(ctx, stationID, startDate, endDate)
	}
	return []domain.Reservation{}, nil
}

func (m *MockReservationRepository) GetExpired(ctx context.Context, gracePeriod time.Duration) ([]domain.Reservation, error) {
	if m.GetExpiredFunc != nil {
		return m.GetExpiredFunc(ctx, gracePeriod)
	}
	return []domain.Reservation{}, nil
}

func (m *MockReservationRepository) CountByUserAndStatus(ctx context.Context, userID string, statuses []domain.ReservationStatus) (int, error) {
	if m.CountByUserAndStatusFunc != nil {
		return m.CountByUserAndStatusFunc(ctx, userID, statuses)
	}
	return 0, nil
}

func (m *MockReservationRepository) CountByStatus(ctx context.Context, statuses []domain.ReservationStatus) (int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, statuses)
	}
	return 0, nil
}
