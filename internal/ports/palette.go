package ports

import (
	"context"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
)

// KeyValue persists opaque values by key. Get returns nil, nil for a
// missing key.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Palette is the user's ordered set of colors.
type Palette interface {
	Colors() []domain.Color
	Add(ctx context.Context, c domain.Color) error
	ResetToDefaults(ctx context.Context) error
}
