package healthrisk

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

// Service exposes personalized health-risk assessments.
type Service interface {
	Assess(ctx context.Context, req AssessRequest) (Report, error)
	Score(ctx context.Context, req ScoreRequest) RiskAssessment
	Windows(ctx context.Context, req WindowsRequest) []SafeWindow
}

// AlertPublisher fans out high-risk assessments.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert Alert) error
}

type service struct {
	env       environment.Service
	publisher AlertPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the health-risk domain.
func NewService(env environment.Service, publisher AlertPublisher, logger *slog.Logger) Service {
	return &service{
		env:       env,
		publisher: publisher,
		logger:    logger.With("component", "healthrisk.service"),
		now:       time.Now,
	}
}

func (s *service) Assess(ctx context.Context, req AssessRequest) (Report, error) {
	snapshot, err := s.env.Current(ctx, req.City)
	if err != nil {
		return Report{}, err
	}
	forecast, err := s.env.Forecast(ctx, snapshot.Location.Slug, req.Hours)
	if err != nil {
		return Report{}, err
	}

	current := NormalizeReading(snapshot.Current)
	risk := ComputeRisk(current.AQI, req.Profile)
	report := Report{
		Location:        snapshot.Location,
		Current:         current,
		Category:        snapshot.Category,
		Risk:            risk,
		Windows:         SegmentSafeWindows(forecast),
		Activities:      DeriveActivityGuides(risk),
		Recommendations: BuildRecommendations(current.AQI, current, risk),
		Tips:            environment.CategoryTips(current.AQI),
		Live:            snapshot.Live,
	}
	s.logger.Info("health risk assessed",
		"city", snapshot.Location.Slug,
		"aqi", current.AQI,
		"score", risk.Score,
		"level", risk.Level,
	)

	if risk.Level.Rank() >= LevelHigh.Rank() {
		s.publish(ctx, Alert{
			City:       snapshot.Location.City,
			AQI:        current.AQI,
			Score:      risk.Score,
			Level:      risk.Level,
			OccurredAt: s.now().UTC().Format(time.RFC3339),
		})
	}
	return report, nil
}

func (s *service) publish(ctx context.Context, alert Alert) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAlert(ctx, alert); err != nil {
		s.logger.Warn("risk alert publish failed", "city", alert.City, "level", alert.Level, "error", err)
	}
}

func (s *service) Score(_ context.Context, req ScoreRequest) RiskAssessment {
	return ComputeRisk(req.AQI, req.Profile)
}

func (s *service) Windows(_ context.Context, req WindowsRequest) []SafeWindow {
	return SegmentSafeWindows(req.Forecast)
}
