package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/flood-risk-viewer/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&config.Config{LogLevel: "info", LogFormat: "json"}, &buf)

	logger.Debug("hidden")
	logger.Info("map mounted", "level", 2.5)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"map mounted"`)
	assert.Contains(t, out, `"level":2.5`)
}

func TestNewLogger_TextDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&config.Config{LogLevel: "DEBUG", LogFormat: "text"}, &buf)

	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	logger.Debug("stale render dropped")
	assert.Contains(t, buf.String(), "msg=\"stale render dropped\"")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
