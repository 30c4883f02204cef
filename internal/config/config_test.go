package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noEnvFile points the loader at a file that does not exist.
func noEnvFile(t *testing.T) string {
	return "-env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig([]string{noEnvFile(t)})

		require.NoError(t, err)
		assert.Equal(t, "development", cfg.App.Environment)
		assert.Equal(t, "info", cfg.Logger.Level)
		assert.True(t, filepath.IsAbs(cfg.Dataset.Path))
		assert.Equal(t, "flavor_bible_full_w_levels.csv", filepath.Base(cfg.Dataset.Path))
		assert.True(t, cfg.Dataset.Watch)
		assert.Equal(t, 500*time.Millisecond, cfg.Dataset.ReloadDebounce)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
		assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
		assert.False(t, cfg.Server.TrustProxy)
		assert.InDelta(t, 20.0, cfg.RateLimit.RPS, 0.001)
		assert.Equal(t, 40, cfg.RateLimit.Burst)
		assert.Equal(t, 25, cfg.Graph.MaxSelection)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("DATASET_WATCH", "no")
		t.Setenv("CORS_ALLOWED_ORIGIN", "http://a.test, http://b.test")

		cfg, err := LoadConfig([]string{noEnvFile(t)})

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.False(t, cfg.Dataset.Watch)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")

		cfg, err := LoadConfig([]string{noEnvFile(t), "-port", "7070", "-max-selection", "3"})

		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Server.Port)
		assert.Equal(t, 3, cfg.Graph.MaxSelection)
	})

	t.Run("proxy headers are trusted only when enabled", func(t *testing.T) {
		cfg, err := LoadConfig([]string{noEnvFile(t), "-trust-proxy", "true"})

		require.NoError(t, err)
		assert.True(t, cfg.Server.TrustProxy)
	})

	t.Run("env file fills unset variables", func(t *testing.T) {
		dir := t.TempDir()
		envPath := filepath.Join(dir, ".env")
		content := "# comment\nLOG_LEVEL=\"debug\"\nDATASET_PATH=" + filepath.Join(dir, "p.csv") + "\n"
		require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))
		t.Cleanup(func() {
			os.Unsetenv("LOG_LEVEL")
			os.Unsetenv("DATASET_PATH")
		})

		cfg, err := LoadConfig([]string{"-env-file", envPath})

		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, filepath.Join(dir, "p.csv"), cfg.Dataset.Path)
	})

	t.Run("invalid duration", func(t *testing.T) {
		_, err := LoadConfig([]string{noEnvFile(t), "-read-timeout", "soon"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid read timeout")
	})

	t.Run("invalid environment", func(t *testing.T) {
		_, err := LoadConfig([]string{noEnvFile(t), "-env", "qa"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid environment")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := LoadConfig([]string{noEnvFile(t), "-nope"})

		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:       AppConfig{Environment: "production"},
			Logger:    LoggerConfig{Level: "warn"},
			Dataset:   DatasetConfig{Path: "/data/pairings.csv"},
			Server:    ServerConfig{Port: "8080"},
			RateLimit: RateLimitConfig{RPS: 1, Burst: 1},
			Graph:     GraphConfig{MaxSelection: 1},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logger.Level = "loud"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty dataset path", func(t *testing.T) {
		cfg := valid()
		cfg.Dataset.Path = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-numeric port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = "http"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive limits", func(t *testing.T) {
		cfg := valid()
		cfg.RateLimit.Burst = 0
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Graph.MaxSelection = 0
		assert.Error(t, cfg.Validate())
	})
}
