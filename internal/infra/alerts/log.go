package alerts

import (
	"context"
	"log/slog"

	"github.com/yanqian/aerosense/internal/domain/healthrisk"
)

// LogPublisher records alerts in the service log when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs the publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "alerts.log")}
}

func (p *LogPublisher) PublishAlert(_ context.Context, alert healthrisk.Alert) error {
	p.logger.Warn("high risk alert",
		"city", alert.City,
		"aqi", alert.AQI,
		"score", alert.Score,
		"level", alert.Level,
		"occurredAt", alert.OccurredAt,
	)
	return nil
}

var _ healthrisk.AlertPublisher = (*LogPublisher)(nil)
