package config

import "time"

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Queue          QueueConfig          `mapstructure:"queue"`
	JWT            JWTConfig            `mapstructure:"jwt"`
	Auth           AuthConfig           `mapstructure:"auth"`
	Planner        PlannerConfig        `mapstructure:"planner"`
	Routing        RoutingConfig        `mapstructure:"routing"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Reservation    ReservationConfig    `mapstructure:"reservation"`
	Email          EmailConfig          `mapstructure:"email"`
	Vault          VaultConfig          `mapstructure:"vault"`
	OpenTelemetry  OpenTelemetryConfig  `mapstructure:"opentelemetry"`
	Prometheus     PrometheusConfig     `mapstructure:"prometheus"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	RateLimiting   RateLimitingConfig   `mapstructure:"rate_limiting"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	CORS           CORSConfig           `mapstructure:"cors"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	BodyLimit       int           `mapstructure:"body_limit"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LogQueries      bool          `mapstructure:"log_queries"`
	SeedStations    bool          `mapstructure:"seed_stations"`
}

type RedisConfig struct {
	URL       string `mapstructure:"url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// QueueConfig selects the event transport: nats, rabbitmq or none
type QueueConfig struct {
	Provider string         `mapstructure:"provider"`
	NATS     NATSConfig     `mapstructure:"nats"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type RabbitMQConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret               string        `mapstructure:"secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
}

type AuthConfig struct {
	AdminEmails []string `mapstructure:"admin_emails"`
}

// PlannerConfig holds the charging-stop estimator constants
type PlannerConfig struct {
	SafetyBufferPercent     float64 `mapstructure:"safety_buffer_percent"`
	ChargingDurationMinutes int     `mapstructure:"charging_duration_minutes"`
	AverageSpeedMph         float64 `mapstructure:"average_speed_mph"`
}

// RoutingConfig configures the road-distance source. Provider is ors or placeholder.
type RoutingConfig struct {
	Provider       string        `mapstructure:"provider"`
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	Profile        string        `mapstructure:"profile"`
	Country        string        `mapstructure:"country"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
	BreakerTrips   uint32        `mapstructure:"breaker_trips"`
	// Fallback serves placeholder distances when ORS fails
	Fallback bool `mapstructure:"fallback"`
}

type CacheConfig struct {
	StationsTTL time.Duration `mapstructure:"stations_ttl"`
	DistanceTTL time.Duration `mapstructure:"distance_ttl"`
}

type ReservationConfig struct {
	MaxDurationMinutes    int           `mapstructure:"max_duration_minutes"`
	MinDurationMinutes    int           `mapstructure:"min_duration_minutes"`
	MaxAdvanceBookingDays int           `mapstructure:"max_advance_booking_days"`
	GracePeriodMinutes    int           `mapstructure:"grace_period_minutes"`
	MaxActiveReservations int           `mapstructure:"max_active_reservations"`
	ExpirySweepInterval   time.Duration `mapstructure:"expiry_sweep_interval"`
}

// EmailConfig selects the notifier: sendgrid, smtp or log
type EmailConfig struct {
	Provider string     `mapstructure:"provider"`
	APIKey   string     `mapstructure:"api_key"`
	From     string     `mapstructure:"from"`
	FromName string     `mapstructure:"from_name"`
	BaseURL  string     `mapstructure:"base_url"`
	SMTP     SMTPConfig `mapstructure:"smtp"`
}

// SMTPConfig points at a relay such as Mailhog
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	MountPath string `mapstructure:"mount_path"`
	Path      string `mapstructure:"path"`
}

type OpenTelemetryConfig struct {
	Enabled     bool         `mapstructure:"enabled"`
	Jaeger      JaegerConfig `mapstructure:"jaeger"`
	ServiceName string       `mapstructure:"service_name"`
}

type JaegerConfig struct {
	Endpoint     string  `mapstructure:"endpoint"`
	SamplerParam float64 `mapstructure:"sampler_param"`
}

type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
	ByUser      bool          `mapstructure:"by_user"`
}

type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      int           `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold float64       `mapstructure:"failure_threshold"`
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	ExposeHeaders  []string `mapstructure:"expose_headers"`
	MaxAge         int      `mapstructure:"max_age"`
	Credentials    bool     `mapstructure:"credentials"`
}
