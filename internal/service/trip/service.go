package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/observability/telemetry"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

// Service implements ports.TripService on top of the pure planner
type Service struct {
	planner   ports.TripPlanner
	catalog   ports.VehicleCatalog
	distance  ports.DistanceSource
	repo      ports.TripRepository
	publisher ports.EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

// NewService creates a trip service. publisher may be nil.
func NewService(
	planner ports.TripPlanner,
	catalog ports.VehicleCatalog,
	distance ports.DistanceSource,
	repo ports.TripRepository,
	publisher ports.EventPublisher,
	log *zap.Logger,
) *Service {
	return &Service{
		planner:   planner,
		catalog:   catalog,
		distance:  distance,
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Estimate runs the planner on raw figures
func (s *Service) Estimate(ctx context.Context, req domain.TripRequest) (*domain.TripPlan, error) {
	_, span := telemetry.StartSpan(ctx, "trip.Estimate")
	defer span.End()

	plan, err := s.planner.Plan(req)
	if err != nil {
		telemetry.TripsPlannedTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	telemetry.TripsPlannedTotal.WithLabelValues("estimated").Inc()
	telemetry.TripChargingStops.Observe(float64(len(plan.Stops)))
	span.SetAttributes(
		attribute.Float64("trip.distance_miles", plan.TotalDistanceMiles),
		attribute.Int("trip.stops", len(plan.Stops)),
	)
	return plan, nil
}

// PlanTrip resolves the vehicle range and route distance, plans the trip
// and optionally stores it in the user's history.
func (s *Service) PlanTrip(ctx context.Context, req *domain.PlanTripRequest) (*domain.TripRecord, error) {
	ctx, span := telemetry.StartSpan(ctx, "trip.PlanTrip")
	defer span.End()

	start := strings.TrimSpace(req.StartLocation)
	dest := strings.TrimSpace(req.Destination)
	if start == "" {
		return nil, domain.NewInvalidInput("start_location", "is required")
	}
	if dest == "" {
		return nil, domain.NewInvalidInput("destination", "is required")
	}
	if req.Save && req.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	rangeMiles := req.VehicleRangeMiles
	carModel := strings.TrimSpace(req.CarModel)
	if carModel != "" {
		vehicle, err := s.catalog.Lookup(ctx, carModel)
		if err != nil {
			return nil, err
		}
		rangeMiles = vehicle.RangeMiles
		carModel = vehicle.Label
	}

	distance, err := s.distance.Distance(ctx, start, dest)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve route distance: %w", err)
	}

	plan, err := s.Estimate(ctx, domain.TripRequest{
		DistanceMiles:        distance,
		VehicleRangeMiles:    rangeMiles,
		CurrentChargePercent: req.CurrentChargePercent,
	})
	if err != nil {
		return nil, err
	}

	record := &domain.TripRecord{
		ID:                      uuid.New().String(),
		UserID:                  req.UserID,
		StartLocation:           start,
		Destination:             dest,
		CarModel:                carModel,
		CurrentChargePercent:    req.CurrentChargePercent,
		TotalDistanceMiles:      plan.TotalDistanceMiles,
		EstimatedTotalTimeHours: plan.EstimatedTotalTimeHours,
		Stops:                   plan.Stops,
		CreatedAt:               s.now(),
	}

	if !req.Save {
		return record, nil
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	s.log.Info("Trip planned",
		zap.String("trip_id", record.ID),
		zap.String("user_id", record.UserID),
		zap.Float64("distance_miles", record.TotalDistanceMiles),
		zap.Int("stops", len(record.Stops)),
	)

	s.publish(record)

	return record, nil
}

func (s *Service) publish(record *domain.TripRecord) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(domain.TripPlannedEvent{
		TripID:     record.ID,
		UserID:     record.UserID,
		Distance:   record.TotalDistanceMiles,
		StopCount:  len(record.Stops),
		OccurredAt: record.CreatedAt,
	})
	if err != nil {
		s.log.Error("Failed to encode trip event", zap.Error(err))
		return
	}

	if err := s.publisher.Publish(ports.SubjectTripPlanned, payload); err != nil {
		s.log.Warn("Failed to publish trip event", zap.String("trip_id", record.ID), zap.Error(err))
	}
}

// ListTrips returns the user's saved trips, newest first
func (s *Service) ListTrips(ctx context.Context, userID string, limit, offset int) ([]domain.TripRecord, error) {
	limit, offset = domain.ClampPage(limit, offset)
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

// GetTrip returns one of the user's trips
func (s *Service) GetTrip(ctx context.Context, userID, id string) (*domain.TripRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	if record.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return record, nil
}

// DeleteTrip removes one of the user's trips
func (s *Service) DeleteTrip(ctx context.Context, userID, id string) error {
	if _, err := s.GetTrip(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	s.log.Info("Trip deleted", zap.String("trip_id", id), zap.String("user_id", userID))
	return nil
}
