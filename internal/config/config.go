package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	LogLevel        slog.Level
	PaletteFile     string
	RenderCell      int
	ScriptMaxSteps  uint64
	ShutdownTimeout time.Duration
}

// Load builds the configuration from defaults, then the CUE file named by
// WEAVE_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	f := fileConfig{
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		PaletteFile:     "palette.json",
		RenderCell:      16,
		ScriptMaxSteps:  1_000_000,
		ShutdownTimeout: "10s",
	}

	if path := os.Getenv("WEAVE_CONFIG"); path != "" {
		if err := loadFile(path, &f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	f.HTTPAddr = envOr("HTTP_ADDR", f.HTTPAddr)
	f.LogLevel = envOr("LOG_LEVEL", f.LogLevel)
	f.PaletteFile = envOr("PALETTE_FILE", f.PaletteFile)
	f.ShutdownTimeout = envOr("SHUTDOWN_TIMEOUT", f.ShutdownTimeout)

	c := Config{
		HTTPAddr:       f.HTTPAddr,
		PaletteFile:    f.PaletteFile,
		RenderCell:     f.RenderCell,
		ScriptMaxSteps: f.ScriptMaxSteps,
	}

	if v := os.Getenv("RENDER_CELL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid RENDER_CELL %q", v)
		}
		c.RenderCell = n
	}

	if v := os.Getenv("SCRIPT_MAX_STEPS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SCRIPT_MAX_STEPS %q: %w", v, err)
		}
		c.ScriptMaxSteps = n
	}

	d, err := time.ParseDuration(f.ShutdownTimeout)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", f.ShutdownTimeout, err)
	}
	c.ShutdownTimeout = d

	level, err := parseLogLevel(f.LogLevel)
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
