package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
)

const symbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Legend assigns one symbol per distinct color in first-seen order, row by
// row. Colors past the symbol set share '?'.
func Legend(p domain.Pattern) (map[domain.Color]byte, []domain.Color) {
	legend := map[domain.Color]byte{}
	var order []domain.Color
	for _, row := range p {
		for _, c := range row {
			if _, ok := legend[c]; ok {
				continue
			}
			sym := byte('?')
			if len(order) < len(symbols) {
				sym = symbols[len(order)]
			}
			legend[c] = sym
			order = append(order, c)
		}
	}
	return legend, order
}

func writeText(_ *Renderer, w io.Writer, p domain.Pattern) error {
	bw := bufio.NewWriter(w)
	legend, order := Legend(p)

	line := make([]byte, 0, p.Cards())
	for _, row := range p {
		line = line[:0]
		for _, c := range row {
			line = append(line, legend[c])
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	if len(order) > 0 {
		_, _ = bw.WriteString("\n")
	}
	for _, c := range order {
		_, _ = fmt.Fprintf(bw, "%c %s\n", legend[c], c)
	}
	return bw.Flush()
}

type jsonPattern struct {
	Rows    int              `json:"rows"`
	Cards   int              `json:"cards"`
	Pattern [][]domain.Color `json:"pattern"`
}

func writeJSON(_ *Renderer, w io.Writer, p domain.Pattern) error {
	rows := [][]domain.Color(p)
	if rows == nil {
		rows = [][]domain.Color{}
	}
	return json.NewEncoder(w).Encode(jsonPattern{Rows: p.Rows(), Cards: p.Cards(), Pattern: rows})
}
