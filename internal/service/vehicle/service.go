package vehicle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

// Catalog merges the built-in vehicle list with rows stored by admins
type Catalog struct {
	repo     ports.VehicleRepository
	defaults []domain.Vehicle
	log      *zap.Logger
}

// NewCatalog creates a vehicle catalog. repo may be nil for a read-only catalog.
func NewCatalog(repo ports.VehicleRepository, log *zap.Logger) *Catalog {
	return &Catalog{
		repo:     repo,
		defaults: domain.DefaultVehicles(),
		log:      log,
	}
}

// List returns every known vehicle sorted by label. Stored rows override defaults.
func (c *Catalog) List(ctx context.Context) ([]domain.Vehicle, error) {
	byLabel := make(map[string]domain.Vehicle, len(c.defaults))
	for _, v := range c.defaults {
		byLabel[normalize(v.Label)] = v
	}

	if c.repo != nil {
		stored, err := c.repo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list vehicles: %w", err)
		}
		for _, v := range stored {
			byLabel[normalize(v.Label)] = v
		}
	}

	vehicles := make([]domain.Vehicle, 0, len(byLabel))
	for _, v := range byLabel {
		vehicles = append(vehicles, v)
	}
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].Label < vehicles[j].Label
	})
	return vehicles, nil
}

// Lookup finds a vehicle by label, ignoring case and surrounding spaces
func (c *Catalog) Lookup(ctx context.Context, label string) (*domain.Vehicle, error) {
	key := normalize(label)
	if key == "" {
		return nil, domain.NewInvalidInput("car_model", "is required")
	}

	if c.repo != nil {
		stored, err := c.repo.FindByLabel(ctx, strings.TrimSpace(label))
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up vehicle: %w", err)
		}
		if stored != nil {
			return stored, nil
		}
	}

	for _, v := range c.defaults {
		if normalize(v.Label) == key {
			found := v
			return &found, nil
		}
	}

	return nil, fmt.Errorf("vehicle %q: %w", label, domain.ErrNotFound)
}

// Upsert stores a vehicle, replacing any stored row with the same label
func (c *Catalog) Upsert(ctx context.Context, vehicle *domain.Vehicle) error {
	vehicle.Label = strings.TrimSpace(vehicle.Label)
	if vehicle.Label == "" {
		return domain.NewInvalidInput("label", "is required")
	}
	if vehicle.RangeMiles <= 0 {
		return domain.NewInvalidInput("range_miles", "must be positive")
	}
	if c.repo == nil {
		return fmt.Errorf("vehicle catalog is read-only")
	}

	now := time.Now()
	existing, err := c.repo.FindByLabel(ctx, vehicle.Label)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to look up vehicle: %w", err)
	}
	if existing != nil {
		vehicle.ID = existing.ID
		vehicle.CreatedAt = existing.CreatedAt
	} else {
		vehicle.ID = uuid.New().String()
		vehicle.CreatedAt = now
	}
	vehicle.UpdatedAt = now

	if err := c.repo.Save(ctx, vehicle); err != nil {
		return fmt.Errorf("failed to save vehicle: %w", err)
	}

	c.log.Info("Vehicle saved", zap.String("label", vehicle.Label), zap.Float64("range_miles", vehicle.RangeMiles))
	return nil
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
