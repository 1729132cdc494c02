// Package logger_test contains tests for the logger package
package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug level", "debug", slog.LevelDebug, true},
		{"info level", "info", slog.LevelInfo, true},
		{"warn level", "warn", slog.LevelWarn, true},
		{"error level", "error", slog.LevelError, true},
		{"case insensitive - DEBUG", "DEBUG", slog.LevelDebug, true},
		{"case insensitive - Info", "Info", slog.LevelInfo, true},
		{"unknown falls back to info", "verbose", slog.LevelInfo, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := logger.ParseLevel(tc.input)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestSetupWithWriter(t *testing.T) {
	restoreDefault(t)

	var buf bytes.Buffer
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "warn", Port: 8080}, &buf)
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("filtered out")
	l.Warn("kept", "component", "test")
	slog.Error("default logger replaced")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "kept", entries[0]["msg"])
	assert.Equal(t, "test", entries[0]["component"])
	assert.Equal(t, "default logger replaced", entries[1]["msg"])
}

func TestSetupInvalidLevelWarns(t *testing.T) {
	restoreDefault(t)

	var buf bytes.Buffer
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "invalid_level", Port: 8080}, &buf)
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Debug("debug test message")
	l.Info("info test message")

	out := buf.String()
	assert.Contains(t, out, "invalid log level configured")
	assert.Contains(t, out, "invalid_level")
	assert.NotContains(t, out, "debug test message")
	assert.Contains(t, out, "info test message")
}

func TestContextLogger(t *testing.T) {
	restoreDefault(t)

	t.Run("missing logger", func(t *testing.T) {
		assert.Nil(t, logger.FromContext(context.Background()))
		assert.NotNil(t, logger.FromContextOrDefault(context.Background()))
	})

	t.Run("stored logger carries request id", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(slog.NewJSONHandler(&buf, nil))

		ctx := logger.WithLogger(context.Background(), l)
		ctx = logger.WithRequestID(ctx, "req-42")

		assert.Same(t, l, logger.FromContext(ctx))
		assert.Equal(t, "req-42", logger.RequestID(ctx))

		logger.FromContextOrDefault(ctx).Info("hello")

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "req-42", entries[0]["request_id"])
	})
}
