package render

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
)

func writePNG(r *Renderer, w io.Writer, p domain.Pattern) error {
	for i, row := range p {
		for j, c := range row {
			if !isHex(string(c)) {
				return fmt.Errorf("%w %q at row %d card %d", domain.ErrInvalidColor, c, i, j)
			}
		}
	}

	width, height := max(p.Cards(), 1)*r.cell, max(p.Rows(), 1)*r.cell
	dc := gg.NewContext(width, height)

	cell := float64(r.cell)
	for i, row := range p {
		for j, c := range row {
			dc.SetHexColor(string(c))
			dc.DrawRectangle(float64(j)*cell, float64(i)*cell, cell, cell)
			if err := dc.Fill(); err != nil {
				return fmt.Errorf("fill row %d card %d: %w", i, j, err)
			}
		}
	}

	r.logger.Debug("rendered png", "width", width, "height", height)
	return dc.EncodePNG(w)
}

// isHex accepts #RGB, #RGBA, #RRGGBB and #RRGGBBAA, with or without '#'.
func isHex(s string) bool {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
