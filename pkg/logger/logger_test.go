package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithWriterEmitsServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")
	log.Info("ready", "component", "test")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "aerosense", entry["service"])
	require.Equal(t, "ready", entry["msg"])
	require.Equal(t, "test", entry["component"])
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, parseLevel("warning"))
	require.Equal(t, slog.LevelError, parseLevel(" error "))
	require.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestNewWithWriterFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")
	log.Info("dropped")
	require.Zero(t, buf.Len())
}
