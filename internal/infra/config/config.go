package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Auth        AuthConfig        `yaml:"auth"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Valkey      ValkeyConfig      `yaml:"valkey"`
	Environment EnvironmentConfig `yaml:"environment"`
	NASA        NASAConfig        `yaml:"nasa"`
	Storage     StorageConfig     `yaml:"storage"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Reports     ReportsConfig     `yaml:"reports"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AuthConfig holds token and sign-in settings.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
	Google          GoogleConfig  `yaml:"google"`
	Admin           AdminConfig   `yaml:"admin"`
}

// GoogleConfig carries the OAuth client used for Google sign-in.
type GoogleConfig struct {
	ClientID             string `yaml:"clientId"`
	ClientSecret         string `yaml:"clientSecret"`
	RedirectURL          string `yaml:"redirectUrl"`
	TokenEncryptionKey   string `yaml:"tokenEncryptionKey"`
	PostLoginRedirectURL string `yaml:"postLoginRedirectUrl"`
}

// AdminConfig seeds the bootstrap administrator. An empty password disables seeding.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for cache, leaderboard and queue storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// EnvironmentConfig shapes the generated environmental series.
type EnvironmentConfig struct {
	DefaultCity    string        `yaml:"defaultCity"`
	LiveCacheTTL   time.Duration `yaml:"liveCacheTtl"`
	ForecastHours  int           `yaml:"forecastHours"`
	HistoryDays    int           `yaml:"historyDays"`
	MaxForecastHrs int           `yaml:"maxForecastHours"`
	MaxHistoryDays int           `yaml:"maxHistoryDays"`
}

// NASAConfig points at the NASA POWER API used for live conditions.
type NASAConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig configures the object store for report exports.
type StorageConfig struct {
	R2 R2Config `yaml:"r2"`
}

// R2Config captures Cloudflare R2 (S3 compatible) settings.
type R2Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// KafkaConfig configures the high-risk alert publisher.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// ReportsConfig controls the export job queue.
type ReportsConfig struct {
	QueueKey string        `yaml:"queueKey"`
	PollWait time.Duration `yaml:"pollWait"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	envString("HTTP_ADDRESS", &cfg.HTTP.Address)
	envList("HTTP_ALLOWED_ORIGINS", &cfg.HTTP.AllowedOrigins)
	envBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	envInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	envInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)
	envBool("HTTP_RETRY_ENABLED", &cfg.HTTP.Retry.Enabled)
	envInt("HTTP_RETRY_MAX_ATTEMPTS", &cfg.HTTP.Retry.MaxAttempts)
	envDuration("HTTP_RETRY_BASE_BACKOFF", &cfg.HTTP.Retry.BaseBackoff)

	envString("JWT_SECRET", &cfg.Auth.Secret)
	envDuration("JWT_TTL", &cfg.Auth.TokenTTL)
	envDuration("JWT_REFRESH_TTL", &cfg.Auth.RefreshTokenTTL)
	envString("GOOGLE_CLIENT_ID", &cfg.Auth.Google.ClientID)
	envString("GOOGLE_CLIENT_SECRET", &cfg.Auth.Google.ClientSecret)
	envString("GOOGLE_REDIRECT_URL", &cfg.Auth.Google.RedirectURL)
	envString("GOOGLE_TOKEN_ENCRYPTION_KEY", &cfg.Auth.Google.TokenEncryptionKey)
	envString("GOOGLE_POST_LOGIN_REDIRECT_URL", &cfg.Auth.Google.PostLoginRedirectURL)
	envString("ADMIN_EMAIL", &cfg.Auth.Admin.Email)
	envString("ADMIN_PASSWORD", &cfg.Auth.Admin.Password)

	envString("DATABASE_URL", &cfg.Postgres.DSN)
	envString("POSTGRES_DSN", &cfg.Postgres.DSN)
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}

	envBool("VALKEY_ENABLED", &cfg.Valkey.Enabled)
	envString("VALKEY_ADDR", &cfg.Valkey.Addr)
	envString("VALKEY_PREFIX", &cfg.Valkey.Prefix)

	envString("ENV_DEFAULT_CITY", &cfg.Environment.DefaultCity)
	envDuration("ENV_LIVE_CACHE_TTL", &cfg.Environment.LiveCacheTTL)
	envInt("ENV_FORECAST_HOURS", &cfg.Environment.ForecastHours)
	envInt("ENV_HISTORY_DAYS", &cfg.Environment.HistoryDays)

	envBool("NASA_ENABLED", &cfg.NASA.Enabled)
	envString("NASA_BASE_URL", &cfg.NASA.BaseURL)
	envDuration("NASA_TIMEOUT", &cfg.NASA.Timeout)

	envString("R2_ENDPOINT", &cfg.Storage.R2.Endpoint)
	envString("R2_ACCESS_KEY", &cfg.Storage.R2.AccessKey)
	envString("R2_SECRET_KEY", &cfg.Storage.R2.SecretKey)
	envString("R2_BUCKET", &cfg.Storage.R2.Bucket)
	envString("R2_REGION", &cfg.Storage.R2.Region)

	envBool("KAFKA_ENABLED", &cfg.Kafka.Enabled)
	envList("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	envString("KAFKA_ALERT_TOPIC", &cfg.Kafka.Topic)

	envString("REPORTS_QUEUE_KEY", &cfg.Reports.QueueKey)
	envDuration("REPORTS_POLL_WAIT", &cfg.Reports.PollWait)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func envList(key string, dst *[]string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/auth/google",
					"/api/v1/reports",
					"/api/v1/eco-actions/complete",
				},
			},
		},
		Auth: AuthConfig{
			Secret:          "",
			TokenTTL:        30 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			Admin: AdminConfig{
				Email: "admin@aerosense.local",
			},
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Valkey: ValkeyConfig{
			Prefix: "aerosense",
		},
		Environment: EnvironmentConfig{
			DefaultCity:    "coimbatore",
			LiveCacheTTL:   15 * time.Minute,
			ForecastHours:  24,
			HistoryDays:    30,
			MaxForecastHrs: 72,
			MaxHistoryDays: 365,
		},
		NASA: NASAConfig{
			Enabled: true,
			BaseURL: "https://power.larc.nasa.gov/api/temporal/hourly/point",
			Timeout: 8 * time.Second,
		},
		Storage: StorageConfig{
			R2: R2Config{Region: "auto"},
		},
		Kafka: KafkaConfig{
			Topic: "aerosense.alerts",
		},
		Reports: ReportsConfig{
			QueueKey: "aerosense:reports:jobs",
			PollWait: 5 * time.Second,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTtl must be positive")
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth.refreshTokenTtl must be positive")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if strings.TrimSpace(c.Environment.DefaultCity) == "" {
		return errors.New("environment.defaultCity cannot be empty")
	}
	if c.Environment.LiveCacheTTL < 0 {
		return errors.New("environment.liveCacheTtl cannot be negative")
	}
	if c.Environment.ForecastHours <= 0 || c.Environment.ForecastHours > c.Environment.MaxForecastHrs {
		return errors.New("environment.forecastHours must be between 1 and maxForecastHours")
	}
	if c.Environment.HistoryDays <= 0 || c.Environment.HistoryDays > c.Environment.MaxHistoryDays {
		return errors.New("environment.historyDays must be between 1 and maxHistoryDays")
	}
	if c.NASA.Enabled && strings.TrimSpace(c.NASA.BaseURL) == "" {
		return errors.New("nasa.baseUrl cannot be empty when nasa is enabled")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("kafka.brokers cannot be empty when kafka is enabled")
		}
		if strings.TrimSpace(c.Kafka.Topic) == "" {
			return errors.New("kafka.topic cannot be empty when kafka is enabled")
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
