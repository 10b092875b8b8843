package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromFileWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
auth:
  secret: from-file
environment:
  defaultCity: london
  forecastHours: 12
kafka:
  enabled: true
  brokers: ["kafka:9092"]
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "45m")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("VALKEY_ENABLED", "true")
	t.Setenv("VALKEY_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "from-file", cfg.Auth.Secret)
	require.Equal(t, 45*time.Minute, cfg.Auth.TokenTTL)
	require.Equal(t, "london", cfg.Environment.DefaultCity)
	require.Equal(t, 12, cfg.Environment.ForecastHours)
	require.Equal(t, 30, cfg.Environment.HistoryDays)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.True(t, cfg.Valkey.Enabled)
	require.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "aerosense.alerts", cfg.Kafka.Topic)
}

func TestLoadRequiresSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  address: \":8081\"\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.ErrorContains(t, err, "auth.secret")
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Auth.Secret = "s3cret"
		return cfg
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"empty secret":        func(c *Config) { c.Auth.Secret = " " },
		"valkey without addr": func(c *Config) { c.Valkey.Enabled = true },
		"forecast too long":   func(c *Config) { c.Environment.ForecastHours = 100 },
		"history zero":        func(c *Config) { c.Environment.HistoryDays = 0 },
		"kafka no brokers":    func(c *Config) { c.Kafka.Enabled = true },
		"rate limit burst":    func(c *Config) { c.HTTP.RateLimit.Burst = 0 },
		"retry backoff":       func(c *Config) { c.HTTP.Retry.BaseBackoff = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
