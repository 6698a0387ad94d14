package ports

import (
	"io"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
)

// Renderer writes a pattern in one output format.
type Renderer interface {
	Render(w io.Writer, format string, p domain.Pattern) error
	ContentType(format string) (string, error)
}
