package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/adapter/http/fiber/handlers"
	"github.com/evrecharge/evrecharge-api/internal/adapter/http/fiber/middleware"
	"github.com/evrecharge/evrecharge-api/internal/adapter/queue"
	"github.com/evrecharge/evrecharge-api/internal/adapter/storage/postgres"
	"github.com/evrecharge/evrecharge-api/internal/adapter/vault"
	wsAdapter "github.com/evrecharge/evrecharge-api/internal/adapter/websocket"
	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/observability/telemetry"
	"github.com/evrecharge/evrecharge-api/internal/ports"
	"github.com/evrecharge/evrecharge-api/internal/service/admin"
	"github.com/evrecharge/evrecharge-api/internal/service/auth"
	"github.com/evrecharge/evrecharge-api/internal/service/email"
	"github.com/evrecharge/evrecharge-api/internal/service/health"
	"github.com/evrecharge/evrecharge-api/internal/service/planner"
	"github.com/evrecharge/evrecharge-api/internal/service/reservation"
	"github.com/evrecharge/evrecharge-api/internal/service/station"
	"github.com/evrecharge/evrecharge-api/internal/service/trip"
	"github.com/evrecharge/evrecharge-api/internal/service/vehicle"
	"github.com/evrecharge/evrecharge-api/pkg/config"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging, cfg.App.Environment)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Starting EV Recharge API",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Overlay secrets from Vault
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault, logger)
		if err != nil {
			logger.Fatal("Failed to create vault client", zap.Error(err))
		}
		if err := secrets.Apply(ctx, cfg); err != nil {
			logger.Fatal("Failed to load secrets from vault", zap.Error(err))
		}
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(
			cfg.OpenTelemetry.ServiceName,
			cfg.App.Version,
			cfg.OpenTelemetry.Jaeger.Endpoint,
			cfg.OpenTelemetry.Jaeger.SamplerParam,
		)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db)

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	if cfg.Database.SeedStations {
		if err := postgres.SeedStations(ctx, db, logger); err != nil {
			logger.Fatal("Failed to seed stations", zap.Error(err))
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}

	// 6. Initialize Cache
	appCache, redisCache, err := newCache(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer appCache.Close()

	// 7. Initialize Message Queue
	messageQueue, err := queue.New(cfg.Queue, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize Repositories
	userRepo := postgres.NewUserRepository(db, logger)
	stationRepo := postgres.NewStationRepository(db, logger)
	favoriteRepo := postgres.NewFavoriteRepository(db, logger)
	vehicleRepo := postgres.NewVehicleRepository(db, logger)
	tripRepo := postgres.NewTripRepository(db, logger)
	reservationRepo := postgres.NewReservationRepository(db, logger)

	// 9. Initialize Services (Business Logic Layer)
	tripPlanner, err := planner.New(plannerPolicy(cfg.Planner))
	if err != nil {
		logger.Fatal("Invalid planner policy", zap.Error(err))
	}
	distanceSource, err := newDistanceSource(cfg.Routing, cfg.Cache.DistanceTTL, appCache, logger)
	if err != nil {
		logger.Fatal("Failed to initialize distance source", zap.Error(err))
	}
	notifier, err := email.NewService(cfg.Email, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service", zap.Error(err))
	}

	wsHub := wsAdapter.NewHub(logger)
	go wsHub.Run(ctx)

	authService := auth.NewService(userRepo, appCache, auth.Config{
		Secret:          cfg.JWT.Secret,
		AccessDuration:  cfg.JWT.AccessTokenDuration,
		RefreshDuration: cfg.JWT.RefreshTokenDuration,
		AdminEmails:     cfg.Auth.AdminEmails,
	}, logger)
	catalog := vehicle.NewCatalog(vehicleRepo, logger)
	tripService := trip.NewService(tripPlanner, catalog, distanceSource, tripRepo, messageQueue, logger)
	stationService := station.NewService(stationRepo, favoriteRepo, appCache, cfg.Cache.StationsTTL, messageQueue, wsHub, logger)
	reservationService := reservation.NewService(reservationRepo, stationService, userRepo, notifier, messageQueue, reservationConfig(cfg.Reservation), logger)
	adminService := admin.NewService(userRepo, stationRepo, reservationRepo, tripRepo, logger)

	healthCfg := &health.Config{
		Version: cfg.App.Version,
		DB:      sqlDB,
		Queue:   messageQueue.Healthy,
	}
	if redisCache != nil {
		healthCfg.Redis = redisCache.Client()
	}
	healthService := health.NewService(healthCfg, logger)

	// 10. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	if !cfg.IsProduction() {
		app.Use(fiberlogger.New())
	}
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	app.Use(middleware.Metrics())
	if cfg.RateLimiting.Enabled {
		app.Use(middleware.RateLimit(cfg.RateLimiting))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(cfg.CircuitBreaker, logger))
	}

	// Health Check Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// API v1 Routes
	authRequired := middleware.AuthRequired(authService)
	adminOnly := middleware.RequireRole(domain.UserRoleAdmin)

	handlers.NewAuthHandler(authService, logger).RegisterRoutes(app, authRequired)
	trip.NewHandler(tripService).RegisterRoutes(app, authRequired)
	vehicle.NewHandler(catalog).RegisterRoutes(app, authRequired, adminOnly)
	station.NewHandler(stationService).RegisterRoutes(app, authRequired, adminOnly)
	reservation.NewHandler(reservationService).RegisterRoutes(app, authRequired, adminOnly)
	admin.NewHandler(adminService).RegisterRoutes(app, authRequired, adminOnly)

	// WebSocket live station feed
	wsHub.RegisterRoutes(app)

	// 11. Start Background Workers
	go reservationService.RunExpiryWorker(ctx, cfg.Reservation.ExpirySweepInterval)
	startEventLoggers(messageQueue, logger)

	// 12. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Error("HTTP Server failed", zap.Error(err))
			stop()
		}
	}()

	// 13. Graceful Shutdown
	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Server exited gracefully")
}

// startEventLoggers records every domain event this instance or its peers publish
func startEventLoggers(mq queue.MessageQueue, logger *zap.Logger) {
	subjects := []string{
		ports.SubjectTripPlanned,
		ports.SubjectReservationCreated,
		ports.SubjectReservationCancelled,
		ports.SubjectStationUpdated,
	}
	for _, subject := range subjects {
		subject := subject
		err := mq.Subscribe(subject, func(msg []byte) error {
			logger.Debug("Domain event", zap.String("subject", subject), zap.ByteString("payload", msg))
			return nil
		})
		if err != nil {
			logger.Warn("Failed to subscribe", zap.String("subject", subject), zap.Error(err))
		}
	}
}
