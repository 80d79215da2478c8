package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", want: slog.LevelDebug},
		{name: "INFO", want: slog.LevelInfo},
		{name: "warn", want: slog.LevelWarn},
		{name: "Error", want: slog.LevelError},
		{name: "fatal", want: slog.LevelInfo, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := logger.ParseLevel(tc.name)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewWritesJSONAtConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New(&buf, config.ServerConfig{LogLevel: "warn", Environment: "test"})
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept", slog.String("task_id", "abc"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1, "Only the warn record should be written")

	var record map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "abc", record["task_id"])
	assert.Equal(t, "test", record["env"])
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	l, err := logger.New(&bytes.Buffer{}, config.ServerConfig{LogLevel: "loud"})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestSetupSetsDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	l, err := logger.Setup(config.ServerConfig{LogLevel: "debug"})
	require.NoError(t, err)
	assert.Same(t, l, slog.Default())
}

func TestContextLogger(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	scoped := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ctx := context.Background()
	_, ok := logger.FromContext(ctx)
	assert.False(t, ok)
	assert.Same(t, fallback, logger.FromContextOrDefault(ctx, fallback))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(ctx, nil))

	ctx = logger.WithLogger(ctx, scoped)
	got, ok := logger.FromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, scoped, got)
	assert.Same(t, scoped, logger.FromContextOrDefault(ctx, fallback))
}
