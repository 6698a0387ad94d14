package domain

import (
	"fmt"
	"strings"
)

// Validate reports the first out-of-contract value in the inputs.
// GeneratePattern never calls it; strict callers do.
func Validate(threading Threading, turning TurningSequence) error {
	for i, card := range threading {
		if card.Direction != DirectionS && card.Direction != DirectionZ {
			return &ValidationError{Row: -1, Card: i, Err: fmt.Errorf("%w %q", ErrInvalidDirection, card.Direction)}
		}
		for _, c := range card.Colors {
			if c == "" {
				return &ValidationError{Row: -1, Card: i, Err: ErrEmptyColor}
			}
		}
	}
	for t, turns := range turning {
		for i, turn := range turns {
			switch turn {
			case Forward, Backward, Idle:
			default:
				return &ValidationError{Row: t, Card: i, Err: fmt.Errorf("%w %q", ErrInvalidTurn, turn)}
			}
		}
	}
	return nil
}

// ParseDirection accepts "S" or "Z" in either case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "S":
		return DirectionS, nil
	case "Z":
		return DirectionZ, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidDirection, s)
	}
}

// ParseTurn accepts single letters or the full words, in either case.
// An empty string is Idle.
func ParseTurn(s string) (Turn, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "forward":
		return Forward, nil
	case "b", "backward", "back":
		return Backward, nil
	case "i", "idle", "":
		return Idle, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidTurn, s)
	}
}

// ParseTurnRow parses a compact row such as "FFBI". Spaces are ignored.
func ParseTurnRow(s string) ([]Turn, error) {
	row := make([]Turn, 0, len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' {
			continue
		}
		turn, err := ParseTurn(string(r))
		if err != nil {
			return nil, err
		}
		row = append(row, turn)
	}
	return row, nil
}
