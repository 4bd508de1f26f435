//go:build sqlite

package report

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "arena.db")

	store, err := newSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	run := sampleRun("sq-1", time.Now().UTC())
	if err := store.Save(run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, err := store.Load("sq-1")
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if loaded.ID != run.ID || len(loaded.Matches) != len(run.Matches) {
		t.Fatalf("unexpected run loaded: %+v", loaded)
	}

	if _, err := store.Load("absent"); err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "arena.db")

	store, err := newSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	run := sampleRun("sq-2", time.Now().UTC())
	if err := store.Save(run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	run.Matches = run.Matches[:1]
	if err := store.Save(run); err != nil {
		t.Fatalf("resave run: %v", err)
	}

	loaded, err := store.Load("sq-2")
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if len(loaded.Matches) != 1 {
		t.Fatalf("len(Matches) = %d, want 1 after overwrite", len(loaded.Matches))
	}
}

func TestSQLiteStore_ListOrdersByRecency(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "arena.db")

	store, err := newSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		if err := store.Save(sampleRun(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	runs, err := store.List(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Fatalf("unexpected listing: %+v", runs)
	}
}

func TestSQLiteStore_ListEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "arena.db")

	store, err := newSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	runs, err := store.List(0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("List = %v, want empty non-nil slice", runs)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "arena.db")

	store, err := newSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	if err := store.Save(sampleRun("durable", time.Now().UTC())); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := newSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})

	loaded, err := reopened.Load("durable")
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if loaded.ID != "durable" {
		t.Fatalf("loaded.ID = %q, want durable", loaded.ID)
	}
}
