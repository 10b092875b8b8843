package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/aerosense/internal/domain/healthrisk"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublisherKeysByCity(t *testing.T) {
	writer := &recordingWriter{}
	pub := &KafkaPublisher{writer: writer, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	alert := healthrisk.Alert{City: "Delhi", AQI: 220, Score: 81.4, Level: healthrisk.LevelCritical, OccurredAt: "2025-03-01T08:30:00Z"}

	require.NoError(t, pub.PublishAlert(context.Background(), alert))
	require.Len(t, writer.messages, 1)
	require.Equal(t, "Delhi", string(writer.messages[0].Key))

	var decoded healthrisk.Alert
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	require.Equal(t, alert, decoded)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	pub := &KafkaPublisher{writer: &recordingWriter{err: errors.New("no leader")}, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	err := pub.PublishAlert(context.Background(), healthrisk.Alert{City: "Delhi"})
	require.ErrorContains(t, err, "no leader")
}

func TestLogPublisherWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, pub.PublishAlert(context.Background(), healthrisk.Alert{City: "Delhi", AQI: 180, Level: healthrisk.LevelHigh}))
	require.Contains(t, buf.String(), `"city":"Delhi"`)
	require.Contains(t, buf.String(), `"component":"alerts.log"`)
}
