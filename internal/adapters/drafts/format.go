package drafts

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
	"github.com/Magnamura/card-weaving-generator/internal/ports"
)

// File formats accepted by Decode and Encode.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// draftFile is the on-disk shape of a draft. JSON is read through the YAML
// decoder, so one set of tags covers both.
type draftFile struct {
	ID        string     `yaml:"id,omitempty" json:"id,omitempty"`
	Name      string     `yaml:"name,omitempty" json:"name,omitempty"`
	Threading []cardFile `yaml:"threading" json:"threading"`
	Turning   []turnRow  `yaml:"turning" json:"turning"`
}

type cardFile struct {
	Colors    []string `yaml:"colors,flow" json:"colors"`
	Direction string   `yaml:"direction" json:"direction"`
}

// turnRow is written compactly as "FFBI" but also read from a list.
type turnRow []domain.Turn

func (r *turnRow) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		row, err := domain.ParseTurnRow(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = row
		return nil
	case yaml.SequenceNode:
		row := make(turnRow, 0, len(node.Content))
		for _, item := range node.Content {
			turn, err := domain.ParseTurn(item.Value)
			if err != nil {
				return fmt.Errorf("line %d: %w", item.Line, err)
			}
			row = append(row, turn)
		}
		*r = row
		return nil
	default:
		return fmt.Errorf("line %d: turning row must be a string or a list", node.Line)
	}
}

func (r turnRow) String() string {
	var b strings.Builder
	for _, t := range r {
		b.WriteString(string(t))
	}
	return b.String()
}

func (r turnRow) MarshalYAML() (any, error) { return r.String(), nil }

func (r turnRow) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

// Decode reads a YAML or JSON draft. A draft without an id gets a random one.
func Decode(r io.Reader) (ports.Draft, error) {
	var f draftFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return ports.Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	d, err := f.toDraft()
	if err != nil {
		return ports.Draft{}, err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return d, nil
}

// Encode writes d in the given format.
func Encode(w io.Writer, d ports.Draft, format string) error {
	f := fromDraft(d)
	switch format {
	case FormatYAML, "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encode draft: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	default:
		return fmt.Errorf("%w %q", domain.ErrUnknownFormat, format)
	}
}

func (f draftFile) toDraft() (ports.Draft, error) {
	threading := make(domain.Threading, len(f.Threading))
	for i, c := range f.Threading {
		if len(c.Colors) != domain.Holes {
			return ports.Draft{}, &domain.ValidationError{
				Row: -1, Card: i,
				Err: fmt.Errorf("%w: want %d colors, got %d", domain.ErrInvalidColor, domain.Holes, len(c.Colors)),
			}
		}
		dir, err := domain.ParseDirection(c.Direction)
		if err != nil {
			return ports.Draft{}, &domain.ValidationError{Row: -1, Card: i, Err: err}
		}
		threading[i].Direction = dir
		for h, color := range c.Colors {
			threading[i].Colors[h] = domain.Color(color)
		}
	}

	turning := make(domain.TurningSequence, len(f.Turning))
	for i, row := range f.Turning {
		turning[i] = []domain.Turn(row)
	}

	return ports.Draft{ID: f.ID, Name: f.Name, Threading: threading, Turning: turning}, nil
}

func fromDraft(d ports.Draft) draftFile {
	f := draftFile{
		ID:        d.ID,
		Name:      d.Name,
		Threading: make([]cardFile, len(d.Threading)),
		Turning:   make([]turnRow, len(d.Turning)),
	}
	for i, c := range d.Threading {
		colors := make([]string, len(c.Colors))
		for h, color := range c.Colors {
			colors[h] = string(color)
		}
		f.Threading[i] = cardFile{Colors: colors, Direction: string(c.Direction)}
	}
	for i, row := range d.Turning {
		f.Turning[i] = turnRow(row)
	}
	return f
}
