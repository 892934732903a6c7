package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/pkg/config"
)

// NewConnection initializes a new PostgreSQL connection using GORM
func NewConnection(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.LogQueries {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	log.Info("Successfully connected to PostgreSQL",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)
	return db, nil
}

// RunMigrations creates or updates every table the API owns
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Station{},
		&domain.Favorite{},
		&domain.Vehicle{},
		&domain.TripRecord{},
		&domain.Reservation{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// SeedStations inserts the starter network when the stations table is empty
func SeedStations(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Station{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count stations: %w", err)
	}
	if count > 0 {
		return nil
	}

	stations := seedStations()
	if err := db.WithContext(ctx).Create(&stations).Error; err != nil {
		return fmt.Errorf("failed to seed stations: %w", err)
	}
	log.Info("Seeded stations", zap.Int("count", len(stations)))
	return nil
}

func seedStations() []domain.Station {
	return []domain.Station{
		{ID: "1", Name: "Downtown Station", Address: "Main St & 1st Ave", Type: "DC Fast Charger", Price: "$0.35/kWh", PowerKW: 150, Rating: 4.6, Reviews: 128, Available: 6, Total: 8, Latitude: 37.7749, Longitude: -122.4194},
		{ID: "2", Name: "Mall Station", Address: "Shopping Center", Type: "Tesla Supercharger", Price: "$0.40/kWh", PowerKW: 250, Rating: 4.8, Reviews: 342, Available: 9, Total: 12, Latitude: 37.7849, Longitude: -122.4074},
		{ID: "3", Name: "Highway Rest Stop", Address: "Highway 101", Type: "DC Fast Charger", Price: "$0.45/kWh", PowerKW: 350, Rating: 4.3, Reviews: 87, Available: 4, Total: 6, Latitude: 37.6879, Longitude: -122.4702},
		{ID: "4", Name: "City Library Garage", Address: "100 Larkin St", Type: "Level 2", Price: "$0.25/kWh", PowerKW: 19.2, Rating: 4.1, Reviews: 56, Available: 3, Total: 4, Latitude: 37.7793, Longitude: -122.4163},
	}
}

// Close closes the underlying sql.DB
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
