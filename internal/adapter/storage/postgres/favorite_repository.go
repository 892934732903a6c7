package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

type FavoriteRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewFavoriteRepository(db *gorm.DB, log *zap.Logger) ports.FavoriteRepository {
	return &FavoriteRepository{db: db, log: log}
}

// Add is idempotent
func (r *FavoriteRepository) Add(ctx context.Context, fav *domain.Favorite) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fav).Error
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, stationID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND station_id = ?", userID, stationID).
		Delete(&domain.Favorite{}).Error
}

func (r *FavoriteRepository) StationIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("station_id", &ids).Error
	return ids, err
}
