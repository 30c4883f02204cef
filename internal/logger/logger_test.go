package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("production writes json", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Writer: &buf, Environment: "production", Level: slog.LevelInfo})

		log.Info("dataset loaded", "records", 42)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "dataset loaded", entry["msg"])
		assert.EqualValues(t, 42, entry["records"])
	})

	t.Run("development writes text", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Writer: &buf, Environment: "development", Level: slog.LevelInfo})

		log.Info("dataset loaded", "records", 42)

		out := buf.String()
		assert.Contains(t, out, "INF")
		assert.Contains(t, out, "dataset loaded")
		assert.Contains(t, out, "records=42")
	})

	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Writer: &buf, Format: FormatText, Level: slog.LevelWarn})

		log.Info("hidden")
		log.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("attributes and groups carry over", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Writer: &buf, Format: FormatText})

		log.WithField("path", "pairings.csv").WithGroup("reload").Info("done", "ok", true)

		assert.Contains(t, buf.String(), "path=pairings.csv")
		assert.NotContains(t, buf.String(), "reload.path")
		assert.Contains(t, buf.String(), "reload.ok=true")
	})

	t.Run("with error", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Writer: &buf, Format: FormatJSON})

		log.WithError(errors.New("boom")).Error("reload failed")

		assert.Contains(t, buf.String(), `"error":"boom"`)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
