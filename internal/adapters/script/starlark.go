// Package script generates turning sequences from Starlark programs.
//
// A script defines turn(row, card) and returns "F", "B", "I" or None:
//
//	def turn(row, card):
//	    return "F" if (row // 4) % 2 == 0 else "B"
package script

import (
	"context"
	"errors"
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
	"github.com/Magnamura/card-weaving-generator/internal/ports"
)

// MaxCells bounds rows*cards for one script run.
const MaxCells = 1 << 20

var _ ports.TurningScripter = (*Starlark)(nil)

// Starlark runs turning scripts with a step budget.
type Starlark struct {
	maxSteps uint64
}

func NewStarlark(maxSteps uint64) *Starlark {
	return &Starlark{maxSteps: maxSteps}
}

func (s *Starlark) Generate(ctx context.Context, src string, rows, cards int) (domain.TurningSequence, error) {
	if rows < 0 || cards < 0 {
		return nil, fmt.Errorf("%w: rows and cards must not be negative", domain.ErrScript)
	}
	if rows > MaxCells || cards > MaxCells || (cards > 0 && rows > MaxCells/cards) {
		return nil, fmt.Errorf("%w: %d x %d exceeds %d cells", domain.ErrScript, rows, cards, MaxCells)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrScript, err)
	}

	thread := &starlark.Thread{Name: "turning"}
	if s.maxSteps > 0 {
		thread.SetMaxExecutionSteps(s.maxSteps)
	}
	stop := context.AfterFunc(ctx, func() { thread.Cancel(ctx.Err().Error()) })
	defer stop()

	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, "turning.star", src, nil)
	if err != nil {
		return nil, wrap(err)
	}
	fn, ok := globals["turn"].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("%w: script must define turn(row, card)", domain.ErrScript)
	}

	seq := make(domain.TurningSequence, rows)
	for r := range rows {
		row := make([]domain.Turn, cards)
		for c := range cards {
			v, err := starlark.Call(thread, fn, starlark.Tuple{starlark.MakeInt(r), starlark.MakeInt(c)}, nil)
			if err != nil {
				return nil, wrap(err)
			}
			turn, err := toTurn(v)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d card %d: %w", domain.ErrScript, r, c, err)
			}
			row[c] = turn
		}
		seq[r] = row
	}
	return seq, nil
}

func toTurn(v starlark.Value) (domain.Turn, error) {
	if v == starlark.None {
		return domain.Idle, nil
	}
	s, ok := starlark.AsString(v)
	if !ok {
		return "", fmt.Errorf("turn must return a string, got %s", v.Type())
	}
	return domain.ParseTurn(s)
}

func wrap(err error) error {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return fmt.Errorf("%w: %s", domain.ErrScript, evalErr.Backtrace())
	}
	return fmt.Errorf("%w: %w", domain.ErrScript, err)
}
