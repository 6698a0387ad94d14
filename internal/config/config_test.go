package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"WEAVE_CONFIG", "HTTP_ADDR", "LOG_LEVEL", "PALETTE_FILE", "RENDER_CELL", "SCRIPT_MAX_STEPS", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weave.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HTTPAddr != ":8080" || c.LogLevel != slog.LevelInfo || c.PaletteFile != "palette.json" {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if c.RenderCell != 16 || c.ScriptMaxSteps != 1_000_000 || c.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected defaults: %+v", c)
	}
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("RENDER_CELL", "8")
	t.Setenv("SCRIPT_MAX_STEPS", "0")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HTTPAddr != ":9000" || c.LogLevel != slog.LevelDebug || c.RenderCell != 8 || c.ShutdownTimeout != 3*time.Second {
		t.Errorf("unexpected config: %+v", c)
	}
	if c.ScriptMaxSteps != 0 {
		t.Errorf("expected unlimited script steps, got %d", c.ScriptMaxSteps)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	for key, val := range map[string]string{
		"LOG_LEVEL":        "loud",
		"RENDER_CELL":      "-1",
		"SCRIPT_MAX_STEPS": "many",
		"SHUTDOWN_TIMEOUT": "soon",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, val)
			}
		})
	}
}

func TestLoad_CueFileThenEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEAVE_CONFIG", writeFile(t, `
http_addr:    ":7070"
palette_file: "/var/lib/weave/palette.json"
render_cell:  24
`))
	t.Setenv("HTTP_ADDR", ":7171")

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HTTPAddr != ":7171" {
		t.Errorf("env should win over file, got %q", c.HTTPAddr)
	}
	if c.PaletteFile != "/var/lib/weave/palette.json" || c.RenderCell != 24 {
		t.Errorf("file values not applied: %+v", c)
	}
	if c.LogLevel != slog.LevelInfo {
		t.Errorf("unset file fields should keep defaults, got %v", c.LogLevel)
	}
}

func TestLoad_CueFileRejectsUnknownField(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEAVE_CONFIG", writeFile(t, `colour: "red"`))
	if _, err := Load(); err == nil {
		t.Fatal("expected schema error, got nil")
	}
}

func TestLoad_CueFileRejectsBadLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEAVE_CONFIG", writeFile(t, `log_level: "chatty"`))
	if _, err := Load(); err == nil {
		t.Fatal("expected schema error, got nil")
	}
}

func TestLoad_CueFileZeroStepsMeansUnlimited(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEAVE_CONFIG", writeFile(t, `script_max_steps: 0`))
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ScriptMaxSteps != 0 {
		t.Errorf("expected 0 (unlimited), got %d", c.ScriptMaxSteps)
	}
}
