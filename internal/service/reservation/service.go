package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/observability/telemetry"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

// Service implements ReservationService
type Service struct {
	repo      ports.ReservationRepository
	stations  ports.StationService
	users     ports.UserRepository
	notifier  ports.Notifier
	publisher ports.EventPublisher
	config    *domain.ReservationConfig
	log       *zap.Logger
	now       func() time.Time
}

// NewService creates a new reservation service. notifier and publisher may be nil.
func NewService(
	repo ports.ReservationRepository,
	stations ports.StationService,
	users ports.UserRepository,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	config *domain.ReservationConfig,
	log *zap.Logger,
) *Service {
	if config == nil {
		config = domain.DefaultReservationConfig()
	}

	return &Service{
		repo:      repo,
		stations:  stations,
		users:     users,
		notifier:  notifier,
		publisher: publisher,
		config:    config,
		log:       log,
		now:       time.Now,
	}
}

// CreateReservation holds a port at a station for the requested window
func (s *Service) CreateReservation(ctx context.Context, req *ports.ReservationRequest) (*domain.Reservation, error) {
	// Validate request
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// Check station exists and has a free port
	station, err := s.stations.Get(ctx, req.StationID)
	if err != nil {
		return nil, err
	}
	if !station.IsAvailable() {
		return nil, fmt.Errorf("%w: station is full", domain.ErrConflict)
	}

	// Check user's active reservations limit
	activeCount, err := s.repo.CountByUserAndStatus(ctx, req.UserID, []domain.ReservationStatus{
		domain.ReservationStatusPending,
		domain.ReservationStatusConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check active reservations: %w", err)
	}
	if activeCount >= s.config.MaxActiveReservations {
		return nil, fmt.Errorf("%w: maximum active reservations reached (%d)", domain.ErrConflict, s.config.MaxActiveReservations)
	}

	// Calculate end time
	endTime := req.StartTime.Add(time.Duration(req.Duration) * time.Minute)

	// Check availability
	available, err := s.CheckAvailability(ctx, req.StationID, req.StartTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if !available {
		return nil, fmt.Errorf("%w: time slot not available", domain.ErrConflict)
	}

	// Take the port first; the conditional update is what guards concurrent bookings
	if _, err := s.stations.AdjustAvailability(ctx, req.StationID, -1); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: station is full", domain.ErrConflict)
		}
		return nil, err
	}

	now := s.now()
	reservation := &domain.Reservation{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		StationID: req.StationID,
		Status:    domain.ReservationStatusPending,
		StartTime: req.StartTime,
		EndTime:   endTime,
		Duration:  req.Duration,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Save reservation
	if err := s.repo.Save(ctx, reservation); err != nil {
		s.releasePort(ctx, req.StationID, reservation.ID)
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	telemetry.ReservationsTotal.WithLabelValues(string(domain.ReservationStatusPending)).Inc()
	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID),
		zap.String("user_id", req.UserID),
		zap.String("station_id", req.StationID),
		zap.Time("start_time", req.StartTime),
	)

	s.publish(ports.SubjectReservationCreated, reservation)
	if s.notifier != nil {
		if user := s.lookupUser(ctx, reservation.UserID); user != nil {
			if err := s.notifier.ReservationCreated(ctx, user, reservation, station); err != nil {
				s.log.Warn("Failed to send reservation confirmation", zap.String("reservation_id", reservation.ID), zap.Error(err))
			}
		}
	}

	return reservation, nil
}

// validateRequest validates a reservation request
func (s *Service) validateRequest(req *ports.ReservationRequest) error {
	if req.UserID == "" {
		return domain.ErrUnauthorized
	}
	if req.StationID == "" {
		return domain.NewInvalidInput("station_id", "is required")
	}

	// Check duration
	if req.Duration < s.config.MinDurationMinutes {
		return domain.NewInvalidInput("duration", fmt.Sprintf("must be at least %d minutes", s.config.MinDurationMinutes))
	}
	if req.Duration > s.config.MaxDurationMinutes {
		return domain.NewInvalidInput("duration", fmt.Sprintf("must be at most %d minutes", s.config.MaxDurationMinutes))
	}

	// Check start time is in the future
	now := s.now()
	if req.StartTime.Before(now) {
		return domain.NewInvalidInput("start_time", "must be in the future")
	}

	// Check max advance booking
	maxAdvance := now.AddDate(0, 0, s.config.MaxAdvanceBookingDays)
	if req.StartTime.After(maxAdvance) {
		return domain.NewInvalidInput("start_time", fmt.Sprintf("cannot be more than %d days ahead", s.config.MaxAdvanceBookingDays))
	}

	return nil
}

// GetReservation retrieves a reservation by ID
func (s *Service) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %s: %w", id, domain.ErrNotFound)
	}
	return reservation, nil
}

// GetUserReservations retrieves all reservations for a user
func (s *Service) GetUserReservations(ctx context.Context, userID string, status string, limit, offset int) ([]domain.Reservation, error) {
	limit, offset = domain.ClampPage(limit, offset)
	return s.repo.GetByUserID(ctx, userID, status, limit, offset)
}

// GetStationReservations retrieves all reservations for a station on a day
func (s *Service) GetStationReservations(ctx context.Context, stationID string, date time.Time) ([]domain.Reservation, error) {
	return s.repo.GetByStationID(ctx, stationID, date)
}

// CancelReservation cancels a reservation and releases its port
func (s *Service) CancelReservation(ctx context.Context, id string, userID string, reason string) error {
	reservation, err := s.GetReservation(ctx, id)
	if err != nil {
		return err
	}

	// Verify ownership
	if reservation.UserID != userID {
		return domain.ErrForbidden
	}

	// Check if can be cancelled
	if !reservation.CanBeCancelled() {
		return fmt.Errorf("%w: reservation cannot be cancelled in status %s", domain.ErrConflict, reservation.Status)
	}

	// Update status
	reservation.Status = domain.ReservationStatusCancelled
	reservation.CancellationReason = reason
	reservation.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, reservation); err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}

	s.releasePort(ctx, reservation.StationID, id)
	telemetry.ReservationsTotal.WithLabelValues(string(domain.ReservationStatusCancelled)).Inc()

	s.log.Info("Reservation cancelled",
		zap.String("reservation_id", id),
		zap.String("reason", reason),
	)

	s.publish(ports.SubjectReservationCancelled, reservation)
	if s.notifier != nil {
		if user := s.lookupUser(ctx, reservation.UserID); user != nil {
			if err := s.notifier.ReservationCancelled(ctx, user, reservation); err != nil {
				s.log.Warn("Failed to send cancellation notice", zap.String("reservation_id", id), zap.Error(err))
			}
		}
	}

	return nil
}

// ConfirmReservation confirms a pending reservation
func (s *Service) ConfirmReservation(ctx context.Context, id string) error {
	reservation, err := s.GetReservation(ctx, id)
	if err != nil {
		return err
	}

	if reservation.Status != domain.ReservationStatusPending {
		return fmt.Errorf("%w: can only confirm pending reservations", domain.ErrConflict)
	}

	reservation.Status = domain.ReservationStatusConfirmed
	reservation.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, reservation); err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}

	telemetry.ReservationsTotal.WithLabelValues(string(domain.ReservationStatusConfirmed)).Inc()
	s.log.Info("Reservation confirmed", zap.String("reservation_id", id))

	return nil
}

// CompleteReservation marks reservation as completed and releases its port
func (s *Service) CompleteReservation(ctx context.Context, id string) error {
	reservation, err := s.GetReservation(ctx, id)
	if err != nil {
		return err
	}

	if !reservation.HoldsPort() {
		return fmt.Errorf("%w: reservation already %s", domain.ErrConflict, reservation.Status)
	}

	reservation.Status = domain.ReservationStatusCompleted
	reservation.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, reservation); err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}

	s.releasePort(ctx, reservation.StationID, id)
	telemetry.ReservationsTotal.WithLabelValues(string(domain.ReservationStatusCompleted)).Inc()
	s.log.Info("Reservation completed", zap.String("reservation_id", id))

	return nil
}

// CheckAvailability reports whether the station has a port free for the whole window
func (s *Service) CheckAvailability(ctx context.Context, stationID string, startTime, endTime time.Time) (bool, error) {
	station, err := s.stations.Get(ctx, stationID)
	if err != nil {
		return false, err
	}

	// Get existing reservations that overlap
	existing, err := s.repo.GetByTimeRange(ctx, stationID, startTime, endTime)
	if err != nil {
		return false, fmt.Errorf("failed to check existing reservations: %w", err)
	}

	return holdingOverlaps(existing, startTime, endTime) < station.Total, nil
}

func holdingOverlaps(reservations []domain.Reservation, start, end time.Time) int {
	n := 0
	for i := range reservations {
		if reservations[i].HoldsPort() && reservations[i].Overlaps(start, end) {
			n++
		}
	}
	return n
}

// GetAvailableSlots returns 30-minute slots between 06:00 and 22:00
func (s *Service) GetAvailableSlots(ctx context.Context, stationID string, date time.Time) ([]domain.TimeSlot, error) {
	station, err := s.stations.Get(ctx, stationID)
	if err != nil {
		return nil, err
	}

	// Get all reservations for the day
	reservations, err := s.repo.GetByStationID(ctx, stationID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservations: %w", err)
	}

	slots := make([]domain.TimeSlot, 0)
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 6, 0, 0, 0, date.Location())
	endOfDay := time.Date(date.Year(), date.Month(), date.Day(), 22, 0, 0, 0, date.Location())

	slotDuration := 30 * time.Minute
	now := s.now()

	for current := startOfDay; current.Before(endOfDay); current = current.Add(slotDuration) {
		slotEnd := current.Add(slotDuration)

		available := holdingOverlaps(reservations, current, slotEnd) < station.Total

		// Don't show past slots
		if current.Before(now) {
			available = false
		}

		slots = append(slots, domain.TimeSlot{
			StartTime: current,
			EndTime:   slotEnd,
			Available: available,
		})
	}

	return slots, nil
}

// ProcessExpiredReservations marks confirmed reservations past their grace period as no-shows
func (s *Service) ProcessExpiredReservations(ctx context.Context) error {
	gracePeriod := time.Duration(s.config.GracePeriodMinutes) * time.Minute

	expired, err := s.repo.GetExpired(ctx, gracePeriod)
	if err != nil {
		return fmt.Errorf("failed to get expired reservations: %w", err)
	}

	now := s.now()
	for i := range expired {
		r := &expired[i]
		if !r.IsExpired(now, gracePeriod) {
			continue
		}

		r.Status = domain.ReservationStatusNoShow
		r.UpdatedAt = now

		if err := s.repo.Save(ctx, r); err != nil {
			s.log.Error("Failed to mark reservation as no-show",
				zap.String("reservation_id", r.ID),
				zap.Error(err),
			)
			continue
		}

		s.releasePort(ctx, r.StationID, r.ID)
		telemetry.ReservationsTotal.WithLabelValues(string(domain.ReservationStatusNoShow)).Inc()

		s.log.Info("Reservation marked as no-show",
			zap.String("reservation_id", r.ID),
			zap.String("user_id", r.UserID),
		)
	}

	return nil
}

// RunExpiryWorker calls ProcessExpiredReservations every interval until ctx is done
func (s *Service) RunExpiryWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ProcessExpiredReservations(ctx); err != nil {
				s.log.Error("Expired reservation sweep failed", zap.Error(err))
			}
		}
	}
}

// GetReservationSummary returns reservation statistics for a station
func (s *Service) GetReservationSummary(ctx context.Context, stationID string, startDate, endDate time.Time) (*domain.ReservationSummary, error) {
	reservations, err := s.repo.GetByStationBetween(ctx, stationID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}

	summary := &domain.ReservationSummary{TotalReservations: len(reservations)}
	totalMinutes := 0
	for _, r := range reservations {
		totalMinutes += r.Duration
		switch r.Status {
		case domain.ReservationStatusPending, domain.ReservationStatusConfirmed:
			summary.PendingReservations++
		case domain.ReservationStatusCompleted:
			summary.CompletedReservations++
		case domain.ReservationStatusCancelled:
			summary.CancelledReservations++
		case domain.ReservationStatusNoShow:
			summary.NoShowCount++
		}
	}
	if len(reservations) > 0 {
		summary.AverageDuration = float64(totalMinutes) / float64(len(reservations))
	}

	return summary, nil
}

func (s *Service) releasePort(ctx context.Context, stationID, reservationID string) {
	if _, err := s.stations.AdjustAvailability(ctx, stationID, 1); err != nil {
		s.log.Error("Failed to release station port",
			zap.String("station_id", stationID),
			zap.String("reservation_id", reservationID),
			zap.Error(err),
		)
	}
}

func (s *Service) lookupUser(ctx context.Context, userID string) *domain.User {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		s.log.Warn("Reservation owner not found", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return user
}

func (s *Service) publish(subject string, r *domain.Reservation) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(domain.ReservationEvent{
		ReservationID: r.ID,
		UserID:        r.UserID,
		StationID:     r.StationID,
		Status:        r.Status,
		OccurredAt:    r.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(subject, payload); err != nil {
		s.log.Warn("Failed to publish reservation event", zap.String("subject", subject), zap.Error(err))
	}
}
