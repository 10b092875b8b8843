package healthrisk

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/aerosense/internal/domain/environment"
	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

func newRiskServiceUnderTest(env environment.Service, publisher AlertPublisher) *service {
	return &service{
		env:       env,
		publisher: publisher,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: func() time.Time {
			return time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
		},
	}
}

func TestServiceAssessHighRiskPublishesAlert(t *testing.T) {
	env := &stubEnvironment{
		current:  environment.Reading{Timestamp: "Mar 01", AQI: 160, Humidity: 40, UVIndex: 2},
		forecast: []environment.Reading{{Timestamp: "8 AM", AQI: 160}, {Timestamp: "9 AM", AQI: 90}},
	}
	pub := &stubPublisher{}
	svc := newRiskServiceUnderTest(env, pub)

	report, err := svc.Assess(context.Background(), AssessRequest{City: "delhi-test", Hours: 2, Profile: HealthProfile{HeartCondition: true}})
	require.NoError(t, err)
	require.Equal(t, LevelHigh, report.Risk.Level)
	require.Equal(t, environment.CategoryUnhealthy, report.Category)
	require.Len(t, report.Windows, 2)
	require.Len(t, report.Activities, 5)
	require.Equal(t, "Stay Indoors", report.Recommendations[0].Title)
	require.Len(t, report.Tips, 3)
	require.Equal(t, 2, env.forecastHours)
	require.Equal(t, "coimbatore", env.forecastCity)

	require.Len(t, pub.alerts, 1)
	require.Equal(t, Alert{City: "Coimbatore", AQI: 160, Score: report.Risk.Score, Level: LevelHigh, OccurredAt: "2025-03-01T08:30:00Z"}, pub.alerts[0])
}

func TestServiceAssessLowRiskSkipsAlert(t *testing.T) {
	env := &stubEnvironment{current: environment.Reading{AQI: 45}}
	pub := &stubPublisher{}
	svc := newRiskServiceUnderTest(env, pub)

	report, err := svc.Assess(context.Background(), AssessRequest{})
	require.NoError(t, err)
	require.Equal(t, LevelLow, report.Risk.Level)
	require.NotNil(t, report.Windows)
	require.Empty(t, report.Windows)
	require.Empty(t, pub.alerts)
}

func TestServiceAssessIgnoresPublishFailure(t *testing.T) {
	env := &stubEnvironment{current: environment.Reading{AQI: 280}}
	svc := newRiskServiceUnderTest(env, &stubPublisher{err: errors.New("broker down")})

	report, err := svc.Assess(context.Background(), AssessRequest{Profile: HealthProfile{Asthma: true}})
	require.NoError(t, err)
	require.Equal(t, LevelCritical, report.Risk.Level)
}

func TestServiceAssessPropagatesEnvironmentErrors(t *testing.T) {
	env := &stubEnvironment{err: apperrors.Wrap("invalid_input", "unknown city", nil)}
	svc := newRiskServiceUnderTest(env, nil)

	_, err := svc.Assess(context.Background(), AssessRequest{City: "atlantis"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestServiceScoreAndWindows(t *testing.T) {
	svc := newRiskServiceUnderTest(&stubEnvironment{}, nil)

	risk := svc.Score(context.Background(), ScoreRequest{AQI: 45})
	require.Equal(t, LevelLow, risk.Level)

	windows := svc.Windows(context.Background(), WindowsRequest{Forecast: []environment.Reading{{Timestamp: "1 AM", AQI: 20}, {Timestamp: "2 AM", AQI: 140}}})
	require.Equal(t, []SafeWindow{
		{StartTime: "1 AM", EndTime: "1 AM", AQI: 20, Quality: QualityOptimal},
		{StartTime: "2 AM", EndTime: "2 AM", AQI: 140, Quality: QualityRestricted},
	}, windows)
}

type stubEnvironment struct {
	current       environment.Reading
	forecast      []environment.Reading
	err           error
	forecastCity  string
	forecastHours int
}

var coimbatore = environment.Location{Slug: "coimbatore", City: "Coimbatore", Country: "India", Lat: 11.0168, Lon: 76.9558, AQIBase: 42}

func (s *stubEnvironment) Locations(context.Context) []environment.Location {
	return []environment.Location{coimbatore}
}

func (s *stubEnvironment) Resolve(context.Context, string) (environment.Location, error) {
	return coimbatore, s.err
}

func (s *stubEnvironment) Current(context.Context, string) (environment.Snapshot, error) {
	if s.err != nil {
		return environment.Snapshot{}, s.err
	}
	category := environment.Category(s.current.AQI)
	return environment.Snapshot{
		Location: coimbatore,
		Current:  s.current,
		Category: category,
		Color:    environment.CategoryColor(category),
	}, nil
}

func (s *stubEnvironment) Forecast(_ context.Context, city string, hours int) ([]environment.Reading, error) {
	s.forecastCity = city
	s.forecastHours = hours
	return s.forecast, s.err
}

func (s *stubEnvironment) History(context.Context, string, int) ([]environment.Reading, error) {
	return nil, s.err
}

func (s *stubEnvironment) Annual(context.Context, string) ([]environment.AnnualPoint, error) {
	return nil, s.err
}

func (s *stubEnvironment) Hubs(context.Context, string) ([]environment.Hub, error) {
	return nil, s.err
}

func (s *stubEnvironment) CarbonTrend(context.Context) []environment.CarbonPoint {
	return nil
}

func (s *stubEnvironment) Live(context.Context, float64, float64) (environment.LiveConditions, error) {
	return environment.FallbackConditions(time.Now()), s.err
}

type stubPublisher struct {
	alerts []Alert
	err    error
}

func (s *stubPublisher) PublishAlert(_ context.Context, alert Alert) error {
	if s.err != nil {
		return s.err
	}
	s.alerts = append(s.alerts, alert)
	return nil
}
