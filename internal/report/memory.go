package report

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps run records in process memory. Useful for tests and
// throwaway runs where history need not survive the process.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*RunResult
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*RunResult)}
}

// Save stores a run record keyed by its ID.
func (s *MemoryStore) Save(result *RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[result.ID] = result
	return nil
}

// Load returns the run record with the given ID.
func (s *MemoryStore) Load(runID string) (*RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	return run, nil
}

// List returns stored runs sorted by start time, most recent first.
func (s *MemoryStore) List(limit int) ([]*RunResult, error) {
	s.mu.RLock()
	runs := make([]*RunResult, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	s.mu.RUnlock()

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
