package ports

import (
	"context"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
)

// Draft is a named threading and turning sequence.
type Draft struct {
	ID        string
	Name      string
	Threading domain.Threading
	Turning   domain.TurningSequence
}

// DraftStore provides access to saved weaving drafts.
type DraftStore interface {
	GetDraft(ctx context.Context, id string) (Draft, error)
	ListDrafts(ctx context.Context) ([]Draft, error)
}
