// Package render writes patterns as text, JSON or PNG.
//
// Formats are registered by name; Renderer dispatches on the name the
// caller asks for.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
	"github.com/Magnamura/card-weaving-generator/internal/ports"
)

// Format names.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatPNG  = "png"
)

// DefaultCell is the PNG swatch size in pixels.
const DefaultCell = 16

type format struct {
	contentType string
	write       func(r *Renderer, w io.Writer, p domain.Pattern) error
}

var formats = map[string]format{
	FormatText: {"text/plain; charset=utf-8", writeText},
	FormatJSON: {"application/json", writeJSON},
	FormatPNG:  {"image/png", writePNG},
}

// Formats lists the registered format names.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ ports.Renderer = (*Renderer)(nil)

// Renderer writes patterns. The zero value is not usable; call New.
type Renderer struct {
	cell   int
	logger *slog.Logger
}

func New(cell int, logger *slog.Logger) *Renderer {
	if cell <= 0 {
		cell = DefaultCell
	}
	return &Renderer{cell: cell, logger: logger}
}

func (r *Renderer) Render(w io.Writer, name string, p domain.Pattern) error {
	f, ok := formats[name]
	if !ok {
		return fmt.Errorf("%w %q", domain.ErrUnknownFormat, name)
	}
	return f.write(r, w, p)
}

func (r *Renderer) ContentType(name string) (string, error) {
	f, ok := formats[name]
	if !ok {
		return "", fmt.Errorf("%w %q", domain.ErrUnknownFormat, name)
	}
	return f.contentType, nil
}
