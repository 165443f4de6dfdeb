package artifact

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFSStore_WriteOnce(t *testing.T) {
	store := NewFSStore(t.TempDir())
	id := Identity{Slug: "product", Kind: KindModel}

	ok, err := store.Exists(id)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Fatal("artifact should not exist yet")
	}

	if err := store.Write(id, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	err = store.Write(id, []byte(`{"a":2}`))
	if !errors.Is(err, ErrExists) {
		t.Fatalf("second Write = %v, want ErrExists", err)
	}

	data, err := store.Read(id)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("Read = %q, want original payload untouched", data)
	}
}

func TestFSStore_OverwriteAggregates(t *testing.T) {
	store := NewFSStore(t.TempDir())
	id := Identity{Slug: "site", Kind: KindMenu}

	if err := store.Overwrite(id, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	if err := store.Overwrite(id, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("second Overwrite: %v", err)
	}
	data, err := store.Read(id)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != `{"v":2}` {
		t.Errorf("Read = %q, want latest payload", data)
	}
}

func TestFSStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := NewFSStore(dir)
	id := Identity{Slug: "admin-users", Kind: KindUI}
	if err := store.Write(id, []byte("{}")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := filepath.Join(dir, "ui", "admin-users.json")
	if store.path(id) != want {
		t.Errorf("path = %q, want %q", store.path(id), want)
	}
}

func TestFSStore_ReadMissing(t *testing.T) {
	store := NewFSStore(t.TempDir())
	_, err := store.Read(Identity{Slug: "ghost", Kind: KindModel})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read missing = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	id := Identity{Slug: "product", Kind: KindOpCreate}

	if err := store.Write(id, []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.Write(id, []byte("y")); !errors.Is(err, ErrExists) {
		t.Fatalf("second Write = %v, want ErrExists", err)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
	if err := store.Overwrite(id, []byte("z")); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	data, err := store.Read(id)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "z" {
		t.Errorf("Read = %q, want z", data)
	}
}
