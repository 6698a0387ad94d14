// Package palette holds the user's color palette. Persistence goes through a
// ports.KeyValue so the container itself stays storage-agnostic.
package palette

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
	"github.com/Magnamura/card-weaving-generator/internal/ports"
)

// StorageKey is the key the palette is saved under.
const StorageKey = "custom-weaving-colors"

var defaultColors = []domain.Color{
	"#D92121", // red
	"#3366E6", // blue
	"#248F24", // green
	"#FAC400", // yellow
	"#FFFFFF",
	"#000000",
	"#8E44AD", // purple
	"#E67E22", // orange
}

var _ ports.Palette = (*Palette)(nil)

// Defaults returns a copy of the built-in colors.
func Defaults() []domain.Color {
	return append([]domain.Color(nil), defaultColors...)
}

// Palette is an ordered set of colors saved on every change.
type Palette struct {
	// saveMu orders saves so the last change is the one persisted.
	saveMu sync.Mutex
	mu     sync.RWMutex
	colors []domain.Color
	kv     ports.KeyValue
	logger *slog.Logger
}

// New loads saved colors from kv and merges them after the defaults.
// A failed load is logged and leaves the defaults in place.
func New(ctx context.Context, kv ports.KeyValue, logger *slog.Logger) *Palette {
	p := &Palette{kv: kv, logger: logger, colors: Defaults()}

	saved, err := p.load(ctx)
	if err != nil {
		logger.WarnContext(ctx, "could not load palette", "error", err)
		return p
	}
	p.colors = dedupe(append(p.colors, saved...))
	return p
}

// Colors returns a copy of the palette in insertion order.
func (p *Palette) Colors() []domain.Color {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.Color(nil), p.colors...)
}

// Add appends c, upper-cased, unless it is empty or already present.
// The in-memory palette keeps the color even if saving fails.
func (p *Palette) Add(ctx context.Context, c domain.Color) error {
	c = domain.Color(strings.ToUpper(strings.TrimSpace(string(c))))
	if c == "" {
		return nil
	}

	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	for _, existing := range p.colors {
		if existing == c {
			p.mu.Unlock()
			return nil
		}
	}
	p.colors = append(p.colors, c)
	snapshot := append([]domain.Color(nil), p.colors...)
	p.mu.Unlock()

	return p.save(ctx, snapshot)
}

// ResetToDefaults drops every custom color.
func (p *Palette) ResetToDefaults(ctx context.Context) error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	p.colors = Defaults()
	p.mu.Unlock()

	return p.save(ctx, Defaults())
}

func (p *Palette) load(ctx context.Context) ([]domain.Color, error) {
	raw, err := p.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var saved []domain.Color
	if err := json.Unmarshal(raw, &saved); err != nil {
		return nil, fmt.Errorf("decode palette: %w", err)
	}
	return saved, nil
}

func (p *Palette) save(ctx context.Context, colors []domain.Color) error {
	raw, err := json.Marshal(colors)
	if err != nil {
		return fmt.Errorf("encode palette: %w", err)
	}
	if err := p.kv.Set(ctx, StorageKey, raw); err != nil {
		p.logger.ErrorContext(ctx, "could not save palette", "error", err)
		return fmt.Errorf("save palette: %w", err)
	}
	return nil
}

func dedupe(colors []domain.Color) []domain.Color {
	seen := make(map[domain.Color]struct{}, len(colors))
	out := colors[:0]
	for _, c := range colors {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
