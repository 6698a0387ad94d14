package ports

import (
	"context"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
)

// TurningScripter builds a turning sequence from a user script.
type TurningScripter interface {
	Generate(ctx context.Context, src string, rows, cards int) (domain.TurningSequence, error)
}
