package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

type ReservationRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReservationRepository(db *gorm.DB, log *zap.Logger) ports.ReservationRepository {
	return &ReservationRepository{db: db, log: log}
}

func (r *ReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) error {
	if err := r.db.WithContext(ctx).Omit("Station").Save(reservation).Error; err != nil {
		r.log.Error("Failed to save reservation", zap.String("reservation_id", reservation.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := r.db.WithContext(ctx).Preload("Station").First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reservation, nil
}

// GetByUserID lists a user's reservations by start time, newest first. An empty status matches all.
func (r *ReservationRepository) GetByUserID(ctx context.Context, userID string, status string, limit, offset int) ([]domain.Reservation, error) {
	query := r.db.WithContext(ctx).Preload("Station").Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var reservations []domain.Reservation
	err := query.Order("start_time DESC").Limit(limit).Offset(offset).Find(&reservations).Error
	return reservations, err
}

// GetByStationID returns reservations overlapping the calendar day of date
func (r *ReservationRepository) GetByStationID(ctx context.Context, stationID string, date time.Time) ([]domain.Reservation, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return r.GetByTimeRange(ctx, stationID, dayStart, dayStart.AddDate(0, 0, 1))
}

// GetByTimeRange returns reservations overlapping [startTime, endTime)
func (r *ReservationRepository) GetByTimeRange(ctx context.Context, stationID string, startTime, endTime time.Time) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := r.db.WithContext(ctx).
		Where("station_id = ? AND start_time < ? AND end_time > ?", stationID, endTime, startTime).
		Order("start_time").
		Find(&reservations).Error
	return reservations, err
}

// GetByStationBetween returns reservations starting within [startDate, endDate]
func (r *ReservationRepository) GetByStationBetween(ctx context.Context, stationID string, startDate, endDate time.Time) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := r.db.WithContext(ctx).
		Where("station_id = ? AND start_time BETWEEN ? AND ?", stationID, startDate, endDate).
		Order("start_time").
		Find(&reservations).Error
	return reservations, err
}

// GetExpired returns pending or confirmed reservations whose start passed more than gracePeriod ago
func (r *ReservationRepository) GetExpired(ctx context.Context, gracePeriod time.Duration) ([]domain.Reservation, error) {
	cutoff := time.Now().Add(-gracePeriod)

	var reservations []domain.Reservation
	err := r.db.WithContext(ctx).
		Where("status IN ? AND start_time < ?", []domain.ReservationStatus{
			domain.ReservationStatusPending,
			domain.ReservationStatusConfirmed,
		}, cutoff).
		Find(&reservations).Error
	return reservations, err
}

func (r *ReservationRepository) CountByUserAndStatus(ctx context.Context, userID string, statuses []domain.ReservationStatus) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("user_id = ? AND status IN ?", userID, statuses).
		Count(&count).Error
	return int(count), err
}

func (r *ReservationRepository) CountByStatus(ctx context.Context, statuses []domain.ReservationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("status IN ?", statuses).
		Count(&count).Error
	return count, err
}
