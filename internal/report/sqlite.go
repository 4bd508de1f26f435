//go:build sqlite

package report

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists run records in a single-file SQLite database.
// Records are stored as JSON payloads keyed by run ID, with the start
// time denormalised for ordering.
type SQLiteStore struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

func newSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store requires a path")
	}
	return &SQLiteStore{path: path}, nil
}

// Save upserts a run record keyed by its ID.
func (s *SQLiteStore) Save(result *RunResult) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshalling run %s: %w", result.ID, err)
	}

	_, err = db.Exec(`
		INSERT INTO runs (id, kind, started_at, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			started_at = excluded.started_at,
			payload = excluded.payload
	`, result.ID, string(result.Kind), result.StartedAt.UnixNano(), payload)
	return err
}

// Load reads the run record with the given ID.
func (s *SQLiteStore) Load(runID string) (*RunResult, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = db.QueryRow(`SELECT payload FROM runs WHERE id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, err
	}
	return decodeRun(runID, payload)
}

// List returns stored runs ordered by start time, most recent first.
func (s *SQLiteStore) List(limit int) ([]*RunResult, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}
	rows, err := db.Query(`SELECT id, payload FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*RunResult{}
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		run, err := decodeRun(id, payload)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) ensureDB() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			payload BLOB NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialising %s: %w", s.path, err)
	}

	s.db = db
	return db, nil
}

func decodeRun(runID string, payload []byte) (*RunResult, error) {
	var run RunResult
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("unmarshalling run %s: %w", runID, err)
	}
	return &run, nil
}
