package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

type TripRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewTripRepository(db *gorm.DB, log *zap.Logger) ports.TripRepository {
	return &TripRepository{db: db, log: log}
}

func (r *TripRepository) Save(ctx context.Context, trip *domain.TripRecord) error {
	if err := r.db.WithContext(ctx).Create(trip).Error; err != nil {
		r.log.Error("Failed to save trip", zap.String("trip_id", trip.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.TripRecord, error) {
	var trip domain.TripRecord
	err := r.db.WithContext(ctx).First(&trip, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

// GetByUserID returns the user's trips newest first
func (r *TripRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]domain.TripRecord, error) {
	var trips []domain.TripRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&trips).Error
	return trips, err
}

func (r *TripRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.TripRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("trip %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *TripRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.TripRecord{}).Count(&count).Error
	return count, err
}
