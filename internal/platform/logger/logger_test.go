package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := logger.ParseLevel(tt.input)
		assert.Equal(t, tt.want, got, "level %q", tt.input)
		assert.Equal(t, tt.wantErr, err != nil, "level %q", tt.input)
	}
}

func TestSetup(t *testing.T) {
	// Not parallel: Setup replaces the slog default.
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	l, err := logger.Setup(logger.LoggerConfig{Level: "warn", Output: &buf})
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("hidden")
	slog.Warn("visible", "lesson_id", "abc")

	out := strings.TrimSpace(buf.String())
	require.NotEmpty(t, out)
	assert.NotContains(t, out, "hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.Split(out, "\n")[0]), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "abc", entry["lesson_id"])
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	l, buf := logger.GetTestLogger(t)
	fallback := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, logger.FromContext(context.Background()))

	ctx := logger.WithLogger(context.Background(), l)
	assert.Same(t, l, logger.FromContextOrDefault(ctx, fallback))

	ctx = logger.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", logger.RequestIDFromContext(ctx))

	logger.FromContext(ctx).Info("handled")
	entries, err := buf.EntriesWithMessage("handled")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0]["request_id"])
}

func TestCIHandlerAddsMetadata(t *testing.T) {
	t.Setenv("GITHUB_RUN_ID", "run-7")

	buf := &logger.TestLogBuffer{}
	l := slog.New(logger.NewCIHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l.With("component", "test").Debug("ci message")

	logger.AssertLogContains(t, buf, `"ci_run_id":"run-7"`)
	logger.AssertLogContains(t, buf, `"component":"test"`)
}
