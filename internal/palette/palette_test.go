package palette_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Magnamura/card-weaving-generator/internal/domain"
	"github.com/Magnamura/card-weaving-generator/internal/palette"
)

type fakeKV struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string][]byte{}} }

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeKV) Set(_ context.Context, key string, value []byte) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

// gatedKV blocks its first Set until release is closed.
type gatedKV struct {
	mu      sync.Mutex
	data    []byte
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (g *gatedKV) Get(context.Context, string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data, nil
}

func (g *gatedKV) Set(_ context.Context, _ string, value []byte) error {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.entered)
		<-g.release
	}
	g.mu.Lock()
	g.data = value
	g.mu.Unlock()
	return nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func saved(t *testing.T, kv *fakeKV) []domain.Color {
	t.Helper()
	var out []domain.Color
	if err := json.Unmarshal(kv.data[palette.StorageKey], &out); err != nil {
		t.Fatalf("decode saved palette: %v", err)
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	p := palette.New(context.Background(), newFakeKV(), discard())
	got := p.Colors()
	if len(got) != 8 || got[0] != "#D92121" || got[7] != "#E67E22" {
		t.Fatalf("unexpected defaults: %v", got)
	}
}

func TestNew_MergesSavedAfterDefaults(t *testing.T) {
	kv := newFakeKV()
	kv.data[palette.StorageKey] = []byte(`["#123456","#D92121","#ABCDEF"]`)

	got := palette.New(context.Background(), kv, discard()).Colors()
	if len(got) != 10 {
		t.Fatalf("expected 10 colors, got %d: %v", len(got), got)
	}
	if got[8] != "#123456" || got[9] != "#ABCDEF" {
		t.Errorf("unexpected tail: %v", got[8:])
	}
}

func TestNew_LoadFailureKeepsDefaults(t *testing.T) {
	kv := newFakeKV()
	kv.data[palette.StorageKey] = []byte(`not json`)
	if got := palette.New(context.Background(), kv, discard()).Colors(); len(got) != 8 {
		t.Fatalf("expected defaults, got %v", got)
	}

	kv = newFakeKV()
	kv.getErr = errors.New("disk gone")
	if got := palette.New(context.Background(), kv, discard()).Colors(); len(got) != 8 {
		t.Fatalf("expected defaults, got %v", got)
	}
}

func TestAdd_UppercasesAndDedupes(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	p := palette.New(ctx, kv, discard())

	if err := p.Add(ctx, "#abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Add(ctx, "#ABC123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Add(ctx, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := p.Colors()
	if len(got) != 9 || got[8] != "#ABC123" {
		t.Fatalf("unexpected palette: %v", got)
	}
	if kv.sets != 1 {
		t.Errorf("expected 1 save, got %d", kv.sets)
	}
	if s := saved(t, kv); len(s) != 9 {
		t.Errorf("expected 9 saved colors, got %v", s)
	}
}

func TestAdd_SaveFailureKeepsColor(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.setErr = errors.New("read-only")
	p := palette.New(ctx, kv, discard())

	if err := p.Add(ctx, "#010203"); err == nil {
		t.Fatal("expected save error, got nil")
	}
	got := p.Colors()
	if got[len(got)-1] != "#010203" {
		t.Fatalf("expected color kept in memory, got %v", got)
	}
}

func TestResetToDefaults(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	p := palette.New(ctx, kv, discard())
	_ = p.Add(ctx, "#111111")

	if err := p.ResetToDefaults(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.Colors(); len(got) != 8 {
		t.Fatalf("expected defaults, got %v", got)
	}
	if s := saved(t, kv); len(s) != 8 {
		t.Errorf("expected defaults saved, got %v", s)
	}
}

func TestColors_ReturnsCopy(t *testing.T) {
	p := palette.New(context.Background(), newFakeKV(), discard())
	got := p.Colors()
	got[0] = "#000001"
	if p.Colors()[0] != "#D92121" {
		t.Fatal("Colors exposed internal storage")
	}
	if palette.Defaults()[0] != "#D92121" {
		t.Fatal("Defaults mutated")
	}
}

func TestAdd_ConcurrentSavesKeepLastChange(t *testing.T) {
	kv := &gatedKV{entered: make(chan struct{}), release: make(chan struct{})}
	p := palette.New(context.Background(), kv, discard())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = p.Add(context.Background(), "#111111")
	}()
	<-kv.entered
	go func() {
		defer wg.Done()
		_ = p.Add(context.Background(), "#222222")
	}()
	time.Sleep(20 * time.Millisecond)
	close(kv.release)
	wg.Wait()

	var persisted []domain.Color
	if err := json.Unmarshal(kv.data, &persisted); err != nil {
		t.Fatalf("decode saved palette: %v", err)
	}
	mem := p.Colors()
	if len(persisted) != len(mem) || len(mem) != 10 {
		t.Fatalf("persisted %v, in memory %v", persisted, mem)
	}
	for i := range mem {
		if persisted[i] != mem[i] {
			t.Fatalf("persisted %v, in memory %v", persisted, mem)
		}
	}
}
