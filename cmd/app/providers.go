package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/aerosense/internal/domain/auth"
	"github.com/yanqian/aerosense/internal/domain/ecoaction"
	"github.com/yanqian/aerosense/internal/domain/environment"
	"github.com/yanqian/aerosense/internal/domain/healthrisk"
	"github.com/yanqian/aerosense/internal/domain/preferences"
	"github.com/yanqian/aerosense/internal/domain/report"
	"github.com/yanqian/aerosense/internal/domain/simulation"
	"github.com/yanqian/aerosense/internal/infra/alerts"
	"github.com/yanqian/aerosense/internal/infra/config"
	"github.com/yanqian/aerosense/internal/infra/ecorepo"
	"github.com/yanqian/aerosense/internal/infra/ecostore"
	"github.com/yanqian/aerosense/internal/infra/envcache"
	"github.com/yanqian/aerosense/internal/infra/nasapower"
	"github.com/yanqian/aerosense/internal/infra/prefrepo"
	"github.com/yanqian/aerosense/internal/infra/queue"
	"github.com/yanqian/aerosense/internal/infra/reportrepo"
	"github.com/yanqian/aerosense/internal/infra/simrepo"
	"github.com/yanqian/aerosense/internal/infra/storage"
	"github.com/yanqian/aerosense/internal/infra/userrepo"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		Google: auth.GoogleConfig{
			ClientID:             cfg.Auth.Google.ClientID,
			ClientSecret:         cfg.Auth.Google.ClientSecret,
			RedirectURL:          cfg.Auth.Google.RedirectURL,
			TokenEncryptionKey:   cfg.Auth.Google.TokenEncryptionKey,
			PostLoginRedirectURL: cfg.Auth.Google.PostLoginRedirectURL,
		},
		DefaultAdmin: auth.AdminSeed{
			Email:    cfg.Auth.Admin.Email,
			Password: cfg.Auth.Admin.Password,
		},
	}
}

func provideEnvironmentConfig(cfg *config.Config) environment.Config {
	return environment.Config{
		DefaultCity:    cfg.Environment.DefaultCity,
		LiveCacheTTL:   cfg.Environment.LiveCacheTTL,
		ForecastHours:  cfg.Environment.ForecastHours,
		HistoryDays:    cfg.Environment.HistoryDays,
		MaxForecastHrs: cfg.Environment.MaxForecastHrs,
		MaxHistoryDays: cfg.Environment.MaxHistoryDays,
	}
}

// providePostgresPool returns nil when Postgres is not configured or unreachable;
// repositories then fall back to memory.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, func() {}
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil, func() {}
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil, func() {}
	}
	logger.Info("postgres repositories enabled")
	return pool, pool.Close
}

// provideValkeyClient returns nil when Valkey is disabled or unreachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	if !cfg.Valkey.Enabled {
		return nil, func() {}
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory", "error", err)
		return nil, func() {}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory", "error", err)
		client.Close()
		return nil, func() {}
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client, client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}, nil
}

func provideUserRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideUserDirectory(repo auth.Repository) ecoaction.UserDirectory {
	return repo
}

func provideSimulationRepository(pool *pgxpool.Pool) simulation.Repository {
	if pool == nil {
		return simrepo.NewMemoryRepository()
	}
	return simrepo.NewPostgresRepository(pool)
}

type preferenceStore interface {
	preferences.SettingsRepository
	preferences.FavoriteRepository
}

func providePreferenceStore(pool *pgxpool.Pool) preferenceStore {
	if pool == nil {
		return prefrepo.NewMemoryRepository()
	}
	return prefrepo.NewPostgresRepository(pool)
}

func provideSettingsRepository(store preferenceStore) preferences.SettingsRepository {
	return store
}

func provideFavoriteRepository(store preferenceStore) preferences.FavoriteRepository {
	return store
}

func provideEcoRepository(pool *pgxpool.Pool) ecoaction.Repository {
	if pool == nil {
		return ecorepo.NewMemoryRepository()
	}
	return ecorepo.NewPostgresRepository(pool)
}

func provideReportRepository(pool *pgxpool.Pool) report.Repository {
	if pool == nil {
		return reportrepo.NewMemoryRepository()
	}
	return reportrepo.NewPostgresRepository(pool)
}

func provideLiveClient(cfg *config.Config, logger *slog.Logger) environment.LiveClient {
	if !cfg.NASA.Enabled {
		logger.Info("nasa power disabled, live conditions use fallback values")
		return nil
	}
	return nasapower.NewClient(cfg.NASA.BaseURL, cfg.NASA.Timeout)
}

func provideLiveCache(cfg *config.Config, client valkey.Client) environment.LiveCache {
	if client == nil {
		return envcache.NewMemoryCache()
	}
	return envcache.NewValkeyCache(client, cfg.Valkey.Prefix)
}

func provideLeaderboard(cfg *config.Config, client valkey.Client) ecoaction.Leaderboard {
	if client == nil {
		return ecostore.NewMemoryLeaderboard()
	}
	return ecostore.NewValkeyLeaderboard(client, cfg.Valkey.Prefix)
}

func provideAlertPublisher(cfg *config.Config, logger *slog.Logger) (healthrisk.AlertPublisher, func()) {
	if !cfg.Kafka.Enabled {
		return alerts.NewLogPublisher(logger), func() {}
	}
	publisher := alerts.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	logger.Info("kafka alert publisher enabled", "topic", cfg.Kafka.Topic)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("kafka writer close failed", "error", err)
		}
	}
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) report.ObjectStorage {
	r2 := cfg.Storage.R2
	if strings.TrimSpace(r2.Endpoint) == "" || strings.TrimSpace(r2.Bucket) == "" {
		logger.Info("r2 storage not configured, using memory storage")
		return storage.NewMemoryStorage()
	}
	store, err := storage.NewR2Storage(storage.R2Options{
		Endpoint:  r2.Endpoint,
		AccessKey: r2.AccessKey,
		SecretKey: r2.SecretKey,
		Bucket:    r2.Bucket,
		Region:    r2.Region,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize r2 storage, using memory storage", "error", err)
		return storage.NewMemoryStorage()
	}
	return store
}

func provideJobQueue(cfg *config.Config, client valkey.Client, logger *slog.Logger) (queue.HandlerQueue, func()) {
	if client == nil {
		return queue.NewImmediateQueue(nil), func() {}
	}
	q := queue.NewValkeyQueue(client, cfg.Reports.QueueKey, cfg.Reports.PollWait, logger)
	return q, q.Close
}

func provideReportQueue(q queue.HandlerQueue) report.JobQueue {
	return q
}

func provideAnnualSource(env environment.Service) report.AnnualSource {
	return env
}
