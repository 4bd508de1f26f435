package report

import (
	"encoding/json"
	"testing"
	"time"
)

func sampleRun(id string, startedAt time.Time) *RunResult {
	return &RunResult{
		ID:        id,
		Kind:      Batch,
		StartedAt: startedAt,
		Evaluator: "./eval",
		Opponent:  "random",
		Matches: []Match{
			{Variant: "random", Opponent: "random", Summary: "SCORE=0.5", Status: "ok"},
			{Variant: "alphabeta", Opponent: "random", Summary: "SCORE=0.9", Status: "warn", Detail: "evaluator exited with status 2", ExitCode: 2},
			{Variant: "agent", Opponent: "random", Status: "short", Detail: "output has 1 line, want at least 3"},
		},
	}
}

func TestDiskStore_SaveLoad(t *testing.T) {
	s := NewDiskStore(t.TempDir())
	run := sampleRun("run-1", time.Now().UTC())

	if err := s.Save(run); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := s.Load("run-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != "run-1" || loaded.Kind != Batch {
		t.Errorf("loaded = %+v, want id run-1 kind batch", loaded)
	}
	if len(loaded.Matches) != 3 {
		t.Fatalf("len(Matches) = %d, want 3", len(loaded.Matches))
	}
	if loaded.Matches[1].Detail != "evaluator exited with status 2" {
		t.Errorf("Matches[1].Detail = %q, want exit detail", loaded.Matches[1].Detail)
	}
}

func TestDiskStore_LoadMissing(t *testing.T) {
	s := NewDiskStore(t.TempDir())
	if _, err := s.Load("nope"); err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestDiskStore_ListOrdersByRecency(t *testing.T) {
	s := NewDiskStore(t.TempDir())
	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		if err := s.Save(sampleRun(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	runs, err := s.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	if runs[0].ID != "new" || runs[2].ID != "old" {
		t.Errorf("order = [%s %s %s], want [new mid old]", runs[0].ID, runs[1].ID, runs[2].ID)
	}

	limited, err := s.List(2)
	if err != nil {
		t.Fatalf("List(2): %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "new" {
		t.Errorf("List(2) = %d runs starting %s, want 2 starting new", len(limited), limited[0].ID)
	}
}

func TestDiskStore_ListEmpty(t *testing.T) {
	runs, err := NewDiskStore(t.TempDir()).List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("len(runs) = %d, want 0", len(runs))
	}
	data, err := json.Marshal(runs)
	if err != nil {
		t.Fatalf("marshalling listing: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("empty listing encodes as %s, want []", data)
	}
}

func TestMemoryStore_SaveLoadList(t *testing.T) {
	s := NewMemoryStore()
	base := time.Now().UTC()
	if err := s.Save(sampleRun("a", base)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(sampleRun("b", base.Add(time.Minute))); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := s.Load("a"); err != nil {
		t.Errorf("Load(a): %v", err)
	}
	if _, err := s.Load("missing"); err == nil {
		t.Error("expected error for missing run")
	}

	runs, err := s.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "b" {
		t.Errorf("List = %v, want [b a]", runs)
	}
}

func TestLRUStore_DelegatesAndCaches(t *testing.T) {
	back := NewMemoryStore()
	s := NewLRUStore(2, back)
	run := sampleRun("cached", time.Now().UTC())

	if err := s.Save(run); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Present in the backing store, not just the cache.
	if _, err := back.Load("cached"); err != nil {
		t.Errorf("backing Load: %v", err)
	}

	// A fresh LRU over the same backing store loads through.
	cold := NewLRUStore(2, back)
	loaded, err := cold.Load("cached")
	if err != nil {
		t.Fatalf("cold Load: %v", err)
	}
	if loaded.ID != "cached" {
		t.Errorf("loaded.ID = %q, want cached", loaded.ID)
	}
}

func TestLRUStore_EvictionKeepsBacking(t *testing.T) {
	back := NewMemoryStore()
	s := NewLRUStore(1, back)
	base := time.Now().UTC()

	if err := s.Save(sampleRun("first", base)); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(sampleRun("second", base.Add(time.Second))); err != nil {
		t.Fatal(err)
	}

	// "first" was evicted from the cache but survives in the backing store.
	if _, err := s.Load("first"); err != nil {
		t.Errorf("Load(first) after eviction: %v", err)
	}

	runs, err := s.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("len(List) = %d, want 2", len(runs))
	}
}

func TestNewStore_Backends(t *testing.T) {
	if _, err := NewStore("memory", ""); err != nil {
		t.Errorf("NewStore(memory): %v", err)
	}
	if _, err := NewStore("", t.TempDir()); err != nil {
		t.Errorf("NewStore(default): %v", err)
	}
	if _, err := NewStore("disk", t.TempDir()); err != nil {
		t.Errorf("NewStore(disk): %v", err)
	}
	if _, err := NewStore("cassandra", ""); err == nil {
		t.Error("expected error for unsupported backend")
	}
}

func TestTally(t *testing.T) {
	run := sampleRun("t", time.Now())
	ok, warn, short := run.Tally()
	if ok != 1 || warn != 1 || short != 1 {
		t.Errorf("Tally = (%d, %d, %d), want (1, 1, 1)", ok, warn, short)
	}
}

func TestByVariant(t *testing.T) {
	run := sampleRun("t", time.Now())
	matches := ByVariant(run, "alphabeta")
	if len(matches) != 1 || matches[0].ExitCode != 2 {
		t.Errorf("ByVariant(alphabeta) = %+v, want one match with exit 2", matches)
	}
	if got := ByVariant(run, "nonesuch"); got != nil {
		t.Errorf("ByVariant(nonesuch) = %v, want nil", got)
	}
}
