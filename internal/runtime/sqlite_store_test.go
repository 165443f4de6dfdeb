package runtime

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(context.Background(), db)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	return store
}

func TestSQLiteStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	rec := Record{
		ID:        "r1",
		CreatedAt: now,
		UpdatedAt: now,
		Data:      map[string]any{"name": "Widget", "price": 9.5},
	}
	if err := store.Insert(ctx, "products", rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Insert(ctx, "products", rec); err == nil {
		t.Fatal("duplicate insert succeeded")
	}

	got, err := store.Get(ctx, "products", "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Data["name"] != "Widget" {
		t.Errorf("name = %v", got.Data["name"])
	}
	if _, err := store.Get(ctx, "products", "missing"); err != ErrNotFound {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}
	// Same id under another entity is a different record.
	if _, err := store.Get(ctx, "brands", "r1"); err != ErrNotFound {
		t.Errorf("cross-entity get: err = %v, want ErrNotFound", err)
	}

	updated, err := store.Update(ctx, "products", "r1", map[string]any{"name": "Gadget"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Data["name"] != "Gadget" {
		t.Errorf("updated name = %v", updated.Data["name"])
	}
	if _, err := store.Update(ctx, "products", "missing", nil); err != ErrNotFound {
		t.Errorf("update missing: err = %v", err)
	}

	if err := store.Delete(ctx, "products", "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "products", "r1"); err != ErrNotFound {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestSQLiteStoreListSearch(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	names := []string{"Red Hammer", "Blue Hammer", "Green Saw"}
	for i, name := range names {
		err := store.Insert(ctx, "products", Record{
			ID:        names[i],
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base,
			Data:      map[string]any{"name": name, "kind": "tool"},
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	// The term appears only in a field the search does not cover.
	err := store.Insert(ctx, "products", Record{
		ID:        "decoy",
		CreatedAt: base.Add(time.Hour),
		UpdatedAt: base,
		Data:      map[string]any{"name": "Plain Chisel", "kind": "hammer"},
	})
	if err != nil {
		t.Fatalf("insert decoy: %v", err)
	}

	recs, total, err := store.List(ctx, "products", Query{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 4 || len(recs) != 4 {
		t.Fatalf("total = %d, len = %d", total, len(recs))
	}
	if recs[0].ID != "decoy" {
		t.Errorf("newest first: got %q", recs[0].ID)
	}

	recs, total, err = store.List(ctx, "products", Query{
		Page: 1, Limit: 10,
		Search:       "hammer",
		SearchFields: []string{"name"},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 {
		t.Errorf("search total = %d, want 2", total)
	}
	for _, r := range recs {
		if r.ID == "decoy" {
			t.Error("search matched a non-searchable field")
		}
		if r.Data["kind"] != "tool" {
			t.Errorf("record data lost: %v", r.Data)
		}
	}

	_, total, err = store.List(ctx, "products", Query{
		Page: 1, Limit: 10,
		Filter: map[string]string{"name": "Green Saw"},
	})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if total != 1 {
		t.Errorf("filter total = %d, want 1", total)
	}

	rec, err := store.FindByField(ctx, "products", "name", "Blue Hammer")
	if err != nil {
		t.Fatalf("FindByField: %v", err)
	}
	if rec.ID != "Blue Hammer" {
		t.Errorf("FindByField id = %q", rec.ID)
	}
	if _, err := store.FindByField(ctx, "products", "name", "nope"); err != ErrNotFound {
		t.Errorf("FindByField missing: err = %v", err)
	}
}
