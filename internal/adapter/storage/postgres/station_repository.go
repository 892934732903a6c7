package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

type StationRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStationRepository(db *gorm.DB, log *zap.Logger) ports.StationRepository {
	return &StationRepository{
		db:  db,
		log: log,
	}
}

func (r *StationRepository) Save(ctx context.Context, station *domain.Station) error {
	result := r.db.WithContext(ctx).Save(station)
	if result.Error != nil {
		r.log.Error("Failed to save station", zap.String("station_id", station.ID), zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *StationRepository) FindByID(ctx context.Context, id string) (*domain.Station, error) {
	var station domain.Station
	result := r.db.WithContext(ctx).First(&station, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &station, nil
}

func (r *StationRepository) FindAll(ctx context.Context) ([]domain.Station, error) {
	var stations []domain.Station
	result := r.db.WithContext(ctx).Order("name").Find(&stations)
	return stations, result.Error
}

func (r *StationRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Station, error) {
	if len(ids) == 0 {
		return []domain.Station{}, nil
	}
	var stations []domain.Station
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&stations)
	return stations, result.Error
}

func (r *StationRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Station{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("station %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AdjustAvailability applies delta in a single guarded UPDATE so concurrent
// reservations cannot push the count outside [0, total].
func (r *StationRepository) AdjustAvailability(ctx context.Context, id string, delta int) (*domain.Station, error) {
	var updated []domain.Station
	result := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("id = ? AND available + ? BETWEEN 0 AND total", id, delta).
		Updates(map[string]interface{}{
			"available":  gorm.Expr("available + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		existing, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("station %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("station %s has %d of %d ports free: %w", id, existing.Available, existing.Total, domain.ErrConflict)
	}

	return &updated[0], nil
}

func (r *StationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Station{}).Count(&count).Error
	return count, err
}

func (r *StationRepository) SumPorts(ctx context.Context) (int64, int64, error) {
	var sums struct {
		Total     int64
		Available int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Station{}).
		Select("COALESCE(SUM(total), 0) AS total, COALESCE(SUM(available), 0) AS available").
		Scan(&sums).Error
	return sums.Total, sums.Available, err
}
