package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configs/config.yaml (if present) and environment overrides
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads the given file, or searches the default locations when path is empty
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		v.AddConfigPath("/app/configs")
	}

	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	_ = v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	_ = v.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	_ = v.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	_ = v.BindEnv("queue.nats.url", "NATS_URL", "APP_QUEUE_NATS_URL")
	_ = v.BindEnv("queue.rabbitmq.url", "RABBITMQ_URL", "APP_QUEUE_RABBITMQ_URL")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	_ = v.BindEnv("routing.api_key", "ORS_API_KEY", "APP_ROUTING_API_KEY")
	_ = v.BindEnv("email.api_key", "SENDGRID_API_KEY", "APP_EMAIL_API_KEY")
	_ = v.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	_ = v.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")
	_ = v.BindEnv("app.environment", "APP_ENVIRONMENT")
	_ = v.BindEnv("logging.level", "LOG_LEVEL", "APP_LOGGING_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "evrecharge-api")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)
	v.SetDefault("http.body_limit", 1<<20)

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.conn_max_idle_time", time.Minute)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.seed_stations", false)

	v.SetDefault("redis.key_prefix", "evr:")

	v.SetDefault("queue.provider", "nats")
	v.SetDefault("queue.nats.url", "nats://localhost:4222")
	v.SetDefault("queue.nats.max_reconnects", 10)
	v.SetDefault("queue.nats.reconnect_wait", 2*time.Second)
	v.SetDefault("queue.nats.timeout", 5*time.Second)

	v.SetDefault("jwt.access_token_duration", 15*time.Minute)
	v.SetDefault("jwt.refresh_token_duration", 7*24*time.Hour)

	v.SetDefault("planner.safety_buffer_percent", 20.0)
	v.SetDefault("planner.charging_duration_minutes", 30)
	v.SetDefault("planner.average_speed_mph", 60.0)

	v.SetDefault("routing.provider", "placeholder")
	v.SetDefault("routing.base_url", "https://api.openrouteservice.org")
	v.SetDefault("routing.profile", "driving-car")
	v.SetDefault("routing.timeout", 10*time.Second)
	v.SetDefault("routing.max_attempts", 3)
	v.SetDefault("routing.initial_backoff", 200*time.Millisecond)
	v.SetDefault("routing.breaker_timeout", 30*time.Second)
	v.SetDefault("routing.breaker_trips", 5)
	v.SetDefault("routing.fallback", true)

	v.SetDefault("cache.stations_ttl", time.Minute)
	v.SetDefault("cache.distance_ttl", 24*time.Hour)

	v.SetDefault("reservation.max_duration_minutes", 180)
	v.SetDefault("reservation.min_duration_minutes", 30)
	v.SetDefault("reservation.max_advance_booking_days", 7)
	v.SetDefault("reservation.grace_period_minutes", 15)
	v.SetDefault("reservation.max_active_reservations", 2)
	v.SetDefault("reservation.expiry_sweep_interval", time.Minute)

	v.SetDefault("email.provider", "log")
	v.SetDefault("email.from", "no-reply@evrecharge.dev")
	v.SetDefault("email.from_name", "EV Recharge")
	v.SetDefault("email.base_url", "http://localhost:3000")
	v.SetDefault("email.smtp.host", "localhost")
	v.SetDefault("email.smtp.port", 1025)

	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.path", "evrecharge")

	v.SetDefault("opentelemetry.service_name", "evrecharge-api")
	v.SetDefault("opentelemetry.jaeger.endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("opentelemetry.jaeger.sampler_param", 1.0)

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("rate_limiting.enabled", true)
	v.SetDefault("rate_limiting.max_requests", 100)
	v.SetDefault("rate_limiting.window", time.Minute)

	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.failure_threshold", 0.6)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.HTTP.Port)
	}
	if c.Planner.ChargingDurationMinutes <= 0 {
		return fmt.Errorf("planner.charging_duration_minutes must be positive")
	}
	if c.Planner.AverageSpeedMph <= 0 {
		return fmt.Errorf("planner.average_speed_mph must be positive")
	}
	if c.Planner.SafetyBufferPercent < 0 || c.Planner.SafetyBufferPercent >= 100 {
		return fmt.Errorf("planner.safety_buffer_percent must be in [0, 100)")
	}
	switch c.Queue.Provider {
	case "nats", "rabbitmq", "none":
	default:
		return fmt.Errorf("unknown queue.provider %q", c.Queue.Provider)
	}
	switch c.Routing.Provider {
	case "ors", "placeholder":
	default:
		return fmt.Errorf("unknown routing.provider %q", c.Routing.Provider)
	}
	if c.Routing.Provider == "ors" && c.Routing.APIKey == "" {
		return fmt.Errorf("routing.api_key is required for the ors provider")
	}
	if c.App.Environment == "production" && c.JWT.Secret == "" && !c.Vault.Enabled {
		return fmt.Errorf("jwt.secret is required in production")
	}
	return nil
}

// IsProduction reports whether the app runs in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
