package http

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Magnamura/card-weaving-generator/internal/app"
	"github.com/Magnamura/card-weaving-generator/internal/domain"
	"github.com/Magnamura/card-weaving-generator/internal/ports"
)

// PatternRequest is the JSON body of POST /v1/patterns and of every
// message on the live channel.
type PatternRequest struct {
	Threading []CardDTO `json:"threading"`
	Turning   []TurnRow `json:"turning"`
	Strict    bool      `json:"strict,omitempty"`
}

type CardDTO struct {
	Colors    []string `json:"colors"`
	Direction string   `json:"direction"`
}

// TurnRow is read from "FFBI" or ["F","F","B","I"] and written as the former.
type TurnRow []domain.Turn

func (r *TurnRow) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		row, err := domain.ParseTurnRow(s)
		if err != nil {
			return err
		}
		*r = row
		return nil
	}

	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("turning row must be a string or a list of strings")
	}
	row := make(TurnRow, len(items))
	for i, item := range items {
		turn, err := domain.ParseTurn(item)
		if err != nil {
			return err
		}
		row[i] = turn
	}
	*r = row
	return nil
}

func (r TurnRow) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	for _, t := range r {
		b.WriteString(string(t))
	}
	return json.Marshal(b.String())
}

// ToApp converts the request into engine inputs.
func (r PatternRequest) ToApp() (app.GenerateRequest, error) {
	threading := make(domain.Threading, len(r.Threading))
	for i, c := range r.Threading {
		if len(c.Colors) != domain.Holes {
			return app.GenerateRequest{}, &domain.ValidationError{
				Row: -1, Card: i,
				Err: fmt.Errorf("%w: want %d colors, got %d", domain.ErrInvalidColor, domain.Holes, len(c.Colors)),
			}
		}
		dir, err := domain.ParseDirection(c.Direction)
		if err != nil {
			return app.GenerateRequest{}, &domain.ValidationError{Row: -1, Card: i, Err: err}
		}
		threading[i].Direction = dir
		for h, color := range c.Colors {
			threading[i].Colors[h] = domain.Color(color)
		}
	}

	turning := make(domain.TurningSequence, len(r.Turning))
	for i, row := range r.Turning {
		turning[i] = []domain.Turn(row)
	}

	return app.GenerateRequest{Threading: threading, Turning: turning, Strict: r.Strict}, nil
}

// PatternResponse is the JSON shape returned for a generated pattern.
type PatternResponse struct {
	Rows    int              `json:"rows"`
	Cards   int              `json:"cards"`
	Pattern [][]domain.Color `json:"pattern"`
	Meta    MetaResp         `json:"meta"`
}

type MetaResp struct {
	RequestID string `json:"request_id,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

func ToPatternResponse(r app.GenerateResponse, requestID string) PatternResponse {
	rows := [][]domain.Color(r.Pattern)
	if rows == nil {
		rows = [][]domain.Color{}
	}
	return PatternResponse{
		Rows:    r.Rows,
		Cards:   r.Cards,
		Pattern: rows,
		Meta:    MetaResp{RequestID: requestID, LatencyMS: r.LatencyMS},
	}
}

type DraftSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cards int    `json:"cards"`
	Rows  int    `json:"rows"`
}

type DraftResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Threading []CardDTO `json:"threading"`
	Turning   []TurnRow `json:"turning"`
}

func toDraftResponse(d ports.Draft) DraftResponse {
	out := DraftResponse{
		ID:        d.ID,
		Name:      d.Name,
		Threading: make([]CardDTO, len(d.Threading)),
		Turning:   make([]TurnRow, len(d.Turning)),
	}
	for i, c := range d.Threading {
		colors := make([]string, len(c.Colors))
		for h, color := range c.Colors {
			colors[h] = string(color)
		}
		out.Threading[i] = CardDTO{Colors: colors, Direction: string(c.Direction)}
	}
	for i, row := range d.Turning {
		out.Turning[i] = TurnRow(row)
	}
	return out
}

type ScriptRequest struct {
	Source string `json:"source"`
	Rows   int    `json:"rows"`
	Cards  int    `json:"cards"`
}

type ScriptResponse struct {
	Turning []TurnRow `json:"turning"`
}

type ColorRequest struct {
	Color string `json:"color"`
}

type PaletteResponse struct {
	Colors []domain.Color `json:"colors"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
