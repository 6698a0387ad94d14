package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
	"github.com/Magnamura/card-weaving-generator/internal/ports"
)

// GenerateRequest is the application-level input (no HTTP types).
type GenerateRequest struct {
	Threading domain.Threading
	Turning   domain.TurningSequence
	// Strict rejects out-of-contract input instead of weaving it anyway.
	Strict bool
}

// GenerateResponse is the application-level output.
type GenerateResponse struct {
	Pattern   domain.Pattern
	Rows      int
	Cards     int
	LatencyMS int64
}

// WeavingService wires the pattern engine to drafts, palette, rendering and
// turning scripts.
type WeavingService struct {
	drafts   ports.DraftStore
	palette  ports.Palette
	renderer ports.Renderer
	scripter ports.TurningScripter
}

func NewWeavingService(ds ports.DraftStore, pal ports.Palette, r ports.Renderer, sc ports.TurningScripter) *WeavingService {
	return &WeavingService{
		drafts:   ds,
		palette:  pal,
		renderer: r,
		scripter: sc,
	}
}

func (s *WeavingService) Generate(_ context.Context, req GenerateRequest) (GenerateResponse, error) {
	if req.Strict {
		if err := domain.Validate(req.Threading, req.Turning); err != nil {
			return GenerateResponse{}, fmt.Errorf("validate: %w", err)
		}
	}

	start := time.Now()
	pattern := domain.GeneratePattern(req.Threading, req.Turning)

	return GenerateResponse{
		Pattern:   pattern,
		Rows:      pattern.Rows(),
		Cards:     pattern.Cards(),
		LatencyMS: time.Since(start).Milliseconds(),
	}, nil
}

// GenerateDraft weaves a stored draft.
func (s *WeavingService) GenerateDraft(ctx context.Context, id string) (ports.Draft, GenerateResponse, error) {
	d, err := s.drafts.GetDraft(ctx, id)
	if err != nil {
		return ports.Draft{}, GenerateResponse{}, fmt.Errorf("get draft: %w", err)
	}
	resp, err := s.Generate(ctx, GenerateRequest{Threading: d.Threading, Turning: d.Turning})
	if err != nil {
		return ports.Draft{}, GenerateResponse{}, err
	}
	return d, resp, nil
}

func (s *WeavingService) Draft(ctx context.Context, id string) (ports.Draft, error) {
	d, err := s.drafts.GetDraft(ctx, id)
	if err != nil {
		return ports.Draft{}, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

func (s *WeavingService) Drafts(ctx context.Context) ([]ports.Draft, error) {
	list, err := s.drafts.ListDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return list, nil
}

func (s *WeavingService) Render(w io.Writer, format string, p domain.Pattern) error {
	if err := s.renderer.Render(w, format, p); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return nil
}

func (s *WeavingService) ContentType(format string) (string, error) {
	return s.renderer.ContentType(format)
}

// Script runs a turning script for the given grid size.
func (s *WeavingService) Script(ctx context.Context, src string, rows, cards int) (domain.TurningSequence, error) {
	seq, err := s.scripter.Generate(ctx, src, rows, cards)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return seq, nil
}

func (s *WeavingService) Palette() []domain.Color {
	return s.palette.Colors()
}

func (s *WeavingService) AddColor(ctx context.Context, c domain.Color) ([]domain.Color, error) {
	if err := s.palette.Add(ctx, c); err != nil {
		return nil, fmt.Errorf("add color: %w", err)
	}
	return s.palette.Colors(), nil
}

func (s *WeavingService) ResetPalette(ctx context.Context) ([]domain.Color, error) {
	if err := s.palette.ResetToDefaults(ctx); err != nil {
		return nil, fmt.Errorf("reset palette: %w", err)
	}
	return s.palette.Colors(), nil
}
