package kv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Magnamura/card-weaving-generator/internal/adapters/kv"
	"github.com/Magnamura/card-weaving-generator/internal/ports"
)

func exercise(t *testing.T, store ports.KeyValue) {
	t.Helper()
	ctx := context.Background()

	v, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil for missing key, got %q", v)
	}

	if err := store.Set(ctx, "colors", []byte(`["#FFFFFF"]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "other", []byte(`1`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, err = store.Get(ctx, "colors")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(v) != `["#FFFFFF"]` {
		t.Errorf("unexpected value: %s", v)
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, kv.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "palette.json")
	exercise(t, kv.NewFileStore(path))

	// A fresh store over the same file sees earlier writes.
	v, err := kv.NewFileStore(path).Get(context.Background(), "other")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(v) != "1" {
		t.Errorf("unexpected value: %s", v)
	}
}

func TestFileStore_RejectsInvalidJSON(t *testing.T) {
	store := kv.NewFileStore(filepath.Join(t.TempDir(), "kv.json"))
	if err := store.Set(context.Background(), "k", []byte("nope")); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := kv.NewFileStore(path).Get(context.Background(), "k"); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}
