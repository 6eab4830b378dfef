package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestJSONLogging(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	config := Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "test-service",
		Version:     "1.0.0",
		Environment: "test",
	}

	InitLoggerWithWriter(config, &buf)

	slog.Info("test message", "key", "value", "number", 42)

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	assert.Equal(t, "test-service", logEntry["service"])
	assert.Equal(t, "1.0.0", logEntry["version"])
	assert.Equal(t, "test", logEntry["environment"])
	assert.Equal(t, "test message", logEntry["msg"])
	assert.Equal(t, "INFO", logEntry["level"])
	assert.Equal(t, "value", logEntry["key"])
	assert.Equal(t, float64(42), logEntry["number"])
}

func TestLevelFiltering(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	InitLoggerWithWriter(Config{Level: "warn", Format: "json"}, &buf)

	slog.Info("dropped")
	assert.Empty(t, buf.String())

	slog.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "test-req-123")

	id, ok := RequestIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "test-req-123", id)

	_, ok = RequestIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestFromContextAttributes(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: "debug", Format: "json"}, &buf)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-1")
	FromContext(ctx).Info("tagged")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "req-1", logEntry["request_id"])
	assert.Equal(t, "user-1", logEntry["user_id"])
}

func TestNewConfig(t *testing.T) {
	dev := NewConfig("debug", "text", "", "", EnvironmentDev, false)
	assert.Equal(t, DefaultServiceName, dev.ServiceName)
	assert.Equal(t, DefaultVersion, dev.Version)
	assert.True(t, dev.AddSource, "dev always records source")

	prod := NewConfig("info", "JSON", "dropa", "1.2.0", "prod", false)
	assert.False(t, prod.AddSource)
	assert.True(t, prod.IsJSON())
}

func TestSecretsAreRedacted(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: "info", Format: "json"}, &buf)

	slog.Info("connecting", "db_password", "hunter2", "API_KEY", "k-123", "db_host", "localhost")

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "k-123")
	assert.Contains(t, out, RedactedValue)
	assert.Contains(t, out, "localhost")
}

func TestLogLevelParsing(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, Config{Level: tt.level}.LogLevel())
		})
	}
}
