package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDirection = errors.New("invalid threading direction")
	ErrInvalidTurn      = errors.New("invalid turn")
	ErrEmptyColor       = errors.New("empty color")
	ErrInvalidColor     = errors.New("invalid color")
	ErrDraftNotFound    = errors.New("draft not found")
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrScript           = errors.New("turning script failed")
)

// ValidationError locates an out-of-contract value in a threading or
// turning sequence. Row is -1 for threading errors.
type ValidationError struct {
	Row  int
	Card int
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("card %d: %v", e.Card, e.Err)
	}
	return fmt.Sprintf("row %d card %d: %v", e.Row, e.Card, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
