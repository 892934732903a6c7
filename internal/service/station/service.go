package station

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/observability/telemetry"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

const allStationsKey = "stations:all"

// Service implements ports.StationService
type Service struct {
	repo        ports.StationRepository
	favorites   ports.FavoriteRepository
	cache       ports.Cache
	cacheTTL    time.Duration
	publisher   ports.EventPublisher
	broadcaster ports.StationBroadcaster
	log         *zap.Logger
}

// NewService creates a station service. cache, publisher and broadcaster may be nil.
func NewService(
	repo ports.StationRepository,
	favorites ports.FavoriteRepository,
	cache ports.Cache,
	cacheTTL time.Duration,
	publisher ports.EventPublisher,
	broadcaster ports.StationBroadcaster,
	log *zap.Logger,
) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{
		repo:        repo,
		favorites:   favorites,
		cache:       cache,
		cacheTTL:    cacheTTL,
		publisher:   publisher,
		broadcaster: broadcaster,
		log:         log,
	}
}

// List returns the stations matching filter
func (s *Service) List(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	stations, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	return applyFilter(stations, filter), nil
}

// all returns every station, from cache when possible
func (s *Service) all(ctx context.Context) ([]domain.Station, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, allStationsKey)
		if err == nil {
			var cached []domain.Station
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				telemetry.CacheRequestsTotal.WithLabelValues("hit").Inc()
				return cached, nil
			}
		} else if !errors.Is(err, ports.ErrCacheMiss) {
			s.log.Warn("Station cache read failed", zap.Error(err))
		}
		telemetry.CacheRequestsTotal.WithLabelValues("miss").Inc()
	}

	stations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stations); err == nil {
			if err := s.cache.Set(ctx, allStationsKey, string(payload), s.cacheTTL); err != nil {
				s.log.Warn("Station cache write failed", zap.Error(err))
			}
		}
	}

	return stations, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, allStationsKey); err != nil {
		s.log.Warn("Station cache invalidation failed", zap.Error(err))
	}
}

// Get returns a station by ID
func (s *Service) Get(ctx context.Context, id string) (*domain.Station, error) {
	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("station %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find station: %w", err)
	}
	if station == nil {
		return nil, fmt.Errorf("station %s: %w", id, domain.ErrNotFound)
	}
	return station, nil
}

// Types returns the distinct charger types, sorted
func (s *Service) Types(ctx context.Context) ([]string, error) {
	stations, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	types := make([]string, 0)
	for _, st := range stations {
		if st.Type == "" {
			continue
		}
		if _, ok := seen[st.Type]; ok {
			continue
		}
		seen[st.Type] = struct{}{}
		types = append(types, st.Type)
	}
	sort.Strings(types)
	return types, nil
}

// Nearby returns stations within radiusMiles of a point, nearest first
func (s *Service) Nearby(ctx context.Context, lat, lon, radiusMiles float64) ([]domain.Station, error) {
	if radiusMiles <= 0 {
		return nil, domain.NewInvalidInput("radius", "must be positive")
	}
	return s.List(ctx, domain.StationFilter{
		Latitude:         &lat,
		Longitude:        &lon,
		MaxDistanceMiles: radiusMiles,
	})
}

// Create adds a station
func (s *Service) Create(ctx context.Context, station *domain.Station) error {
	station.Name = strings.TrimSpace(station.Name)
	if err := station.Validate(); err != nil {
		return err
	}

	now := time.Now()
	station.ID = uuid.New().String()
	station.CreatedAt = now
	station.UpdatedAt = now

	if err := s.repo.Save(ctx, station); err != nil {
		return fmt.Errorf("failed to save station: %w", err)
	}

	s.log.Info("Station created", zap.String("station_id", station.ID), zap.String("name", station.Name))
	s.changed(ctx, station)
	return nil
}

// Update replaces a station's details
func (s *Service) Update(ctx context.Context, station *domain.Station) error {
	existing, err := s.Get(ctx, station.ID)
	if err != nil {
		return err
	}

	station.Name = strings.TrimSpace(station.Name)
	if err := station.Validate(); err != nil {
		return err
	}
	station.CreatedAt = existing.CreatedAt
	station.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, station); err != nil {
		return fmt.Errorf("failed to update station: %w", err)
	}

	s.log.Info("Station updated", zap.String("station_id", station.ID))
	s.changed(ctx, station)
	return nil
}

// Delete removes a station
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete station: %w", err)
	}

	telemetry.StationPortsAvailable.DeleteLabelValues(id)
	s.invalidate(ctx)
	s.log.Info("Station deleted", zap.String("station_id", id))
	return nil
}

// AdjustAvailability takes (delta < 0) or releases (delta > 0) ports
func (s *Service) AdjustAvailability(ctx context.Context, id string, delta int) (*domain.Station, error) {
	station, err := s.repo.AdjustAvailability(ctx, id, delta)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to adjust availability: %w", err)
	}

	s.changed(ctx, station)
	return station, nil
}

// changed propagates a station change to its consumers
func (s *Service) changed(ctx context.Context, station *domain.Station) {
	s.invalidate(ctx)
	telemetry.StationPortsAvailable.WithLabelValues(station.ID).Set(float64(station.Available))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastStation(station)
	}

	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(domain.StationUpdatedEvent{
		StationID:  station.ID,
		Available:  station.Available,
		Total:      station.Total,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ports.SubjectStationUpdated, payload); err != nil {
		s.log.Warn("Failed to publish station event", zap.String("station_id", station.ID), zap.Error(err))
	}
}

// AddFavorite stars a station for the user. Adding twice is a no-op.
func (s *Service) AddFavorite(ctx context.Context, userID, stationID string) error {
	if _, err := s.Get(ctx, stationID); err != nil {
		return err
	}

	err := s.favorites.Add(ctx, &domain.Favorite{
		UserID:    userID,
		StationID: stationID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite unstars a station
func (s *Service) RemoveFavorite(ctx context.Context, userID, stationID string) error {
	if err := s.favorites.Remove(ctx, userID, stationID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// ListFavorites returns the user's starred stations sorted by name
func (s *Service) ListFavorites(ctx context.Context, userID string) ([]domain.Station, error) {
	ids, err := s.favorites.StationIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Station{}, nil
	}

	stations, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite stations: %w", err)
	}
	sortByName(stations)
	return stations, nil
}
