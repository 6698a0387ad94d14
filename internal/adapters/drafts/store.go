package drafts

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
	"github.com/Magnamura/card-weaving-generator/internal/ports"
)

//go:embed data/*.yaml
var draftFS embed.FS

var _ ports.DraftStore = (*EmbeddedStore)(nil)

// EmbeddedStore serves the sample drafts compiled into the binary.
type EmbeddedStore struct {
	once   sync.Once
	drafts map[string]ports.Draft
	order  []string
	err    error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (s *EmbeddedStore) init() {
	names, err := fs.Glob(draftFS, "data/*.yaml")
	if err != nil {
		s.err = fmt.Errorf("list embedded drafts: %w", err)
		return
	}
	sort.Strings(names)

	s.drafts = make(map[string]ports.Draft, len(names))
	for _, name := range names {
		raw, err := draftFS.ReadFile(name)
		if err != nil {
			s.err = fmt.Errorf("read embedded draft %s: %w", name, err)
			return
		}
		d, err := Decode(bytes.NewReader(raw))
		if err != nil {
			s.err = fmt.Errorf("parse embedded draft %s: %w", name, err)
			return
		}
		// The file name is the id.
		d.ID = strings.TrimSuffix(path.Base(name), ".yaml")
		s.drafts[d.ID] = d
		s.order = append(s.order, d.ID)
	}
}

func (s *EmbeddedStore) GetDraft(_ context.Context, id string) (ports.Draft, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return ports.Draft{}, s.err
	}
	d, ok := s.drafts[id]
	if !ok {
		return ports.Draft{}, domain.ErrDraftNotFound
	}
	return d, nil
}

func (s *EmbeddedStore) ListDrafts(_ context.Context) ([]ports.Draft, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]ports.Draft, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.drafts[id])
	}
	return out, nil
}
