package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

var validStatuses = map[string]bool{"Active": true, "Inactive": true, "Blocked": true}

// Service implements AdminService
type Service struct {
	userRepo        ports.UserRepository
	stationRepo     ports.StationRepository
	reservationRepo ports.ReservationRepository
	tripRepo        ports.TripRepository
	log             *zap.Logger
	now             func() time.Time
}

// NewService creates a new admin service
func NewService(
	userRepo ports.UserRepository,
	stationRepo ports.StationRepository,
	reservationRepo ports.ReservationRepository,
	tripRepo ports.TripRepository,
	log *zap.Logger,
) *Service {
	return &Service{
		userRepo:        userRepo,
		stationRepo:     stationRepo,
		reservationRepo: reservationRepo,
		tripRepo:        tripRepo,
		log:             log,
		now:             time.Now,
	}
}

// Overview returns dashboard statistics. Any failing count fails the call.
func (s *Service) Overview(ctx context.Context) (*domain.Overview, error) {
	overview := &domain.Overview{GeneratedAt: s.now()}
	var err error

	if overview.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if overview.TotalStations, err = s.stationRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count stations: %w", err)
	}
	if overview.TotalPorts, overview.AvailablePorts, err = s.stationRepo.SumPorts(ctx); err != nil {
		return nil, fmt.Errorf("failed to sum ports: %w", err)
	}
	if overview.ActiveReservations, err = s.reservationRepo.CountByStatus(ctx, domain.HoldingStatuses); err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}
	if overview.TripsPlanned, err = s.tripRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count trips: %w", err)
	}

	return overview, nil
}

// ListUsers returns paginated users
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	limit, offset = domain.ClampPage(limit, offset)
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetUserRole updates a user's role
func (s *Service) SetUserRole(ctx context.Context, userID string, role domain.UserRole) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.NewInvalidInput("role", "must be admin or user")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	user.UpdatedAt = s.now()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.log.Info("User role updated",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
	)

	return user, nil
}

// SetUserStatus updates a user's status; Blocked users can no longer sign in
func (s *Service) SetUserStatus(ctx context.Context, userID string, status string) (*domain.User, error) {
	if !validStatuses[status] {
		return nil, domain.NewInvalidInput("status", "must be Active, Inactive or Blocked")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Status = status
	user.UpdatedAt = s.now()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.log.Info("User status updated",
		zap.String("user_id", userID),
		zap.String("status", status),
	)

	return user, nil
}

func (s *Service) findUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return user, nil
}

// StationReport renders every station as CSV
func (s *Service) StationReport(ctx context.Context) ([]byte, error) {
	stations, err := s.stationRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stations: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"StationID", "Name", "Type", "Address", "Available", "Total", "Rating", "Latitude", "Longitude"})
	for _, st := range stations {
		_ = w.Write([]string{
			st.ID,
			st.Name,
			st.Type,
			st.Address,
			strconv.Itoa(st.Available),
			strconv.Itoa(st.Total),
			strconv.FormatFloat(st.Rating, 'f', 1, 64),
			strconv.FormatFloat(st.Latitude, 'f', 6, 64),
			strconv.FormatFloat(st.Longitude, 'f', 6, 64),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}

	return buf.Bytes(), nil
}
