package config

import (
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

const schema = `
http_addr?:        string
log_level?:        "debug" | "info" | "warn" | "error"
palette_file?:     string
render_cell?:      int & >0
script_max_steps?: int & >=0
shutdown_timeout?: string
`

// fileConfig mirrors the CUE schema.
type fileConfig struct {
	HTTPAddr        string `json:"http_addr"`
	LogLevel        string `json:"log_level"`
	PaletteFile     string `json:"palette_file"`
	RenderCell      int    `json:"render_cell"`
	ScriptMaxSteps  uint64 `json:"script_max_steps"`
	ShutdownTimeout string `json:"shutdown_timeout"`
}

// fileValues is what a config file sets; nil fields are absent.
type fileValues struct {
	HTTPAddr        *string `json:"http_addr"`
	LogLevel        *string `json:"log_level"`
	PaletteFile     *string `json:"palette_file"`
	RenderCell      *int    `json:"render_cell"`
	ScriptMaxSteps  *uint64 `json:"script_max_steps"`
	ShutdownTimeout *string `json:"shutdown_timeout"`
}

// loadFile validates the file against the schema and overlays the fields it
// sets onto target.
func loadFile(path string, target *fileConfig) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ctx := cuecontext.New()
	s := ctx.CompileString("close({" + schema + "})")
	if err := s.Err(); err != nil {
		return err
	}

	value := ctx.CompileBytes(content, cue.Filename(path))
	if err := value.Err(); err != nil {
		return err
	}

	unified := s.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	var f fileValues
	if err := unified.Decode(&f); err != nil {
		return err
	}
	target.overlay(f)
	return nil
}

func (c *fileConfig) overlay(f fileValues) {
	if f.HTTPAddr != nil {
		c.HTTPAddr = *f.HTTPAddr
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.PaletteFile != nil {
		c.PaletteFile = *f.PaletteFile
	}
	if f.RenderCell != nil {
		c.RenderCell = *f.RenderCell
	}
	if f.ScriptMaxSteps != nil {
		c.ScriptMaxSteps = *f.ScriptMaxSteps
	}
	if f.ShutdownTimeout != nil {
		c.ShutdownTimeout = *f.ShutdownTimeout
	}
}
