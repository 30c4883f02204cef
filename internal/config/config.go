// Package config loads application configuration from command-line flags,
// environment variables and an optional .env file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Dataset   DatasetConfig
	Server    ServerConfig
	RateLimit RateLimitConfig
	Graph     GraphConfig
}

type AppConfig struct {
	Environment string
}

type LoggerConfig struct {
	Level string
}

// DatasetConfig points at the pairing table and the page template.
type DatasetConfig struct {
	Path           string
	TemplatePath   string        // Optional, the embedded template is used when empty
	Watch          bool          // Reload the dataset when the file changes (default: true)
	ReloadDebounce time.Duration // Quiet period before a reload (default: 500ms)
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	TrustProxy     bool // Take the client IP from X-Forwarded-For / X-Real-IP (default: false)
}

// RateLimitConfig bounds graph requests per client IP.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type GraphConfig struct {
	// MaxSelection caps how many ingredients one request may select.
	MaxSelection int
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("flavorgraph", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	datasetPath := fs.String("dataset", "", "Path to the pairing CSV")
	templatePath := fs.String("template", "", "Path to the HTML page template")
	watch := fs.String("watch", "", "Reload the dataset when it changes (default: true)")
	debounce := fs.String("reload-debounce", "", "Quiet period before reloading (default: 500ms)")
	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	trustProxy := fs.String("trust-proxy", "", "Trust X-Forwarded-For and X-Real-IP from a fronting proxy (default: false)")
	origins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")
	rps := fs.String("rate-limit-rps", "", "Graph requests per second per client (default: 20)")
	burst := fs.String("rate-limit-burst", "", "Burst size per client (default: 40)")
	maxSelection := fs.String("max-selection", "", "Maximum selected ingredients per request (default: 25)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// A missing .env file is fine.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Dataset: DatasetConfig{
			Path:         getConfigValue(*datasetPath, "DATASET_PATH", "flavor_bible_full_w_levels.csv"),
			TemplatePath: getConfigValue(*templatePath, "TEMPLATE_PATH", ""),
			Watch:        getBoolConfigValue(*watch, "DATASET_WATCH", true),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*port, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*origins, "CORS_ALLOWED_ORIGIN", "*")),
			TrustProxy:     getBoolConfigValue(*trustProxy, "TRUST_PROXY", false),
		},
		Graph: GraphConfig{
			MaxSelection: getIntConfigValue(*maxSelection, "MAX_SELECTION", 25),
		},
		RateLimit: RateLimitConfig{
			Burst: getIntConfigValue(*burst, "RATE_LIMIT_BURST", 40),
		},
	}

	var err error
	if cfg.RateLimit.RPS, err = parseFloat(getConfigValue(*rps, "RATE_LIMIT_RPS", "20")); err != nil {
		return nil, fmt.Errorf("invalid rate limit: %w", err)
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"reload debounce", getConfigValue(*debounce, "DATASET_RELOAD_DEBOUNCE", "500ms"), &cfg.Dataset.ReloadDebounce},
		{"read timeout", getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"), &cfg.Server.ReadTimeout},
		{"write timeout", getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"), &cfg.Server.WriteTimeout},
		{"idle timeout", getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"), &cfg.Server.IdleTimeout},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
		*d.dst = parsed
	}

	if cfg.Dataset.Path, err = expandPath(cfg.Dataset.Path); err != nil {
		return nil, fmt.Errorf("invalid dataset path: %w", err)
	}
	if cfg.Dataset.TemplatePath != "" {
		if cfg.Dataset.TemplatePath, err = expandPath(cfg.Dataset.TemplatePath); err != nil {
			return nil, fmt.Errorf("invalid template path: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Dataset.Path == "" {
		return errors.New("dataset path is required")
	}
	if c.Dataset.ReloadDebounce < 0 {
		return errors.New("reload debounce cannot be negative")
	}

	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port: %s", c.Server.Port)
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate limit rps and burst must be positive")
	}

	if c.Graph.MaxSelection <= 0 {
		return errors.New("max selection must be positive")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1", "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue falls back to the default when the value does not parse.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads KEY=value lines from a .env file. Variables that are
// already set in the environment win.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
