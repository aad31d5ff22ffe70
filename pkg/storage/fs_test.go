package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFSStoreCreateAndOpen(t *testing.T) {
	store, err := NewFSStore(filepath.Join(t.TempDir(), "nested", "results"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if err := store.Create(ctx, "a.json", []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("create: %v", err)
	}

	rc, err := store.Open(ctx, "a.json")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Fatalf("data = %s", data)
	}
}

func TestFSStoreNeverOverwrites(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if err := store.Create(ctx, "a.json", []byte("first")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, "a.json", []byte("second")); !errors.Is(err, ErrExists) {
		t.Fatalf("err = %v, want ErrExists", err)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), "a.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "first" {
		t.Fatalf("file overwritten: %s", data)
	}
}

func TestFSStoreOpenMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Open(context.Background(), "missing.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFSStoreRejectsUnsafeNames(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../x.json", "a/b.json", `a\b.json`, ".hidden"} {
		if err := store.Create(ctx, name, []byte("x")); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Create(%q): err = %v, want ErrInvalidName", name, err)
		}
		if _, err := store.Open(ctx, name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Open(%q): err = %v, want ErrInvalidName", name, err)
		}
	}
}
