package environment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

// Service exposes city level environmental data.
type Service interface {
	Locations(ctx context.Context) []Location
	Resolve(ctx context.Context, city string) (Location, error)
	Current(ctx context.Context, city string) (Snapshot, error)
	Forecast(ctx context.Context, city string, hours int) ([]Reading, error)
	History(ctx context.Context, city string, days int) ([]Reading, error)
	Annual(ctx context.Context, city string) ([]AnnualPoint, error)
	Hubs(ctx context.Context, city string) ([]Hub, error)
	CarbonTrend(ctx context.Context) []CarbonPoint
	Live(ctx context.Context, lat, lon float64) (LiveConditions, error)
}

// LiveClient fetches live weather for a coordinate.
type LiveClient interface {
	FetchConditions(ctx context.Context, lat, lon float64) (LiveConditions, error)
}

// LiveCache stores recent live lookups.
type LiveCache interface {
	Get(ctx context.Context, key string) (LiveConditions, bool, error)
	Set(ctx context.Context, key string, value LiveConditions, ttl time.Duration) error
}

type service struct {
	cfg       Config
	live      LiveClient
	cache     LiveCache
	generator *Generator
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the environment domain.
func NewService(cfg Config, live LiveClient, cache LiveCache, logger *slog.Logger) Service {
	cfg = applyDefaults(cfg)
	return &service{
		cfg:       cfg,
		live:      live,
		cache:     cache,
		generator: NewGenerator(cfg.Now),
		logger:    logger.With("component", "environment.service"),
		now:       cfg.Now,
	}
}

func applyDefaults(cfg Config) Config {
	if strings.TrimSpace(cfg.DefaultCity) == "" {
		cfg.DefaultCity = DefaultCitySlug
	}
	if cfg.ForecastHours <= 0 {
		cfg.ForecastHours = 24
	}
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = 30
	}
	if cfg.MaxForecastHrs <= 0 {
		cfg.MaxForecastHrs = 72
	}
	if cfg.MaxHistoryDays <= 0 {
		cfg.MaxHistoryDays = 365
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return cfg
}

// FallbackConditions are served when the live feed is unreachable.
func FallbackConditions(now time.Time) LiveConditions {
	return LiveConditions{
		Temperature:     28,
		Humidity:        60,
		SolarIrradiance: 500,
		UVIndex:         5,
		AQI:             75,
		Fallback:        true,
		FetchedAt:       now.UTC(),
	}
}

func (s *service) Locations(context.Context) []Location {
	return Locations()
}

func (s *service) Resolve(_ context.Context, city string) (Location, error) {
	key := strings.TrimSpace(city)
	if key == "" {
		key = s.cfg.DefaultCity
	}
	loc, ok := FindLocation(key)
	if !ok {
		return Location{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown city %q", city), nil)
	}
	return loc, nil
}

func (s *service) Current(ctx context.Context, city string) (Snapshot, error) {
	loc, err := s.Resolve(ctx, city)
	if err != nil {
		return Snapshot{}, err
	}
	current := s.generator.History(loc.AQIBase, 0)[0]
	live, err := s.Live(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return Snapshot{}, err
	}
	if !live.Fallback {
		current.Temp = math.Round(live.Temperature*10) / 10
		current.Humidity = math.Round(live.Humidity)
		current.UVIndex = math.Round(live.UVIndex*10) / 10
	}
	category := Category(current.AQI)
	return Snapshot{
		Location: loc,
		Current:  current,
		Category: category,
		Color:    CategoryColor(category),
		Live:     live,
	}, nil
}

func (s *service) Forecast(ctx context.Context, city string, hours int) ([]Reading, error) {
	loc, err := s.Resolve(ctx, city)
	if err != nil {
		return nil, err
	}
	if hours == 0 {
		hours = s.cfg.ForecastHours
	}
	if hours < 1 || hours > s.cfg.MaxForecastHrs {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("hours must be between 1 and %d", s.cfg.MaxForecastHrs), nil)
	}
	return s.generator.Forecast(loc.AQIBase, hours), nil
}

func (s *service) History(ctx context.Context, city string, days int) ([]Reading, error) {
	loc, err := s.Resolve(ctx, city)
	if err != nil {
		return nil, err
	}
	if days == 0 {
		days = s.cfg.HistoryDays
	}
	if days < 1 || days > s.cfg.MaxHistoryDays {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("days must be between 1 and %d", s.cfg.MaxHistoryDays), nil)
	}
	return s.generator.History(loc.AQIBase, days), nil
}

func (s *service) Annual(ctx context.Context, city string) ([]AnnualPoint, error) {
	loc, err := s.Resolve(ctx, city)
	if err != nil {
		return nil, err
	}
	return s.generator.Annual(loc.AQIBase), nil
}

func (s *service) Hubs(ctx context.Context, city string) ([]Hub, error) {
	loc, err := s.Resolve(ctx, city)
	if err != nil {
		return nil, err
	}
	return GlobalHubs(loc.City), nil
}

func (s *service) CarbonTrend(context.Context) []CarbonPoint {
	return s.generator.CarbonTrend()
}

func (s *service) Live(ctx context.Context, lat, lon float64) (LiveConditions, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return LiveConditions{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude must be within [-90,90] and longitude within [-180,180]", nil)
	}
	key := liveCacheKey(lat, lon)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("live cache lookup failed", "key", key, "error", err)
		} else if ok {
			return cached, nil
		}
	}
	if s.live == nil {
		return FallbackConditions(s.now()), nil
	}
	conditions, err := s.live.FetchConditions(ctx, lat, lon)
	if err != nil {
		s.logger.Warn("live conditions unavailable, serving fallback", "lat", lat, "lon", lon, "error", err)
		return FallbackConditions(s.now()), nil
	}
	if conditions.FetchedAt.IsZero() {
		conditions.FetchedAt = s.now().UTC()
	}
	if s.cache != nil && s.cfg.LiveCacheTTL > 0 {
		if err := s.cache.Set(ctx, key, conditions, s.cfg.LiveCacheTTL); err != nil {
			s.logger.Warn("live cache store failed", "key", key, "error", err)
		}
	}
	return conditions, nil
}

func liveCacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f:%.2f", lat, lon)
}
