// Package report provides structured persistence and retrieval of
// evaluator run records. Records are stored as typed structs and can be
// listed by recency or filtered by variant.
package report

import "time"

// Kind identifies the type of a run.
type Kind string

const (
	// Batch is a sweep of the evaluator across the variant list.
	Batch Kind = "batch"
	// Duel is a single matchup between two variants.
	Duel Kind = "duel"
	// Tournament is a round-robin across every ordered variant pairing.
	Tournament Kind = "tournament"
)

// Store persists and retrieves run records.
type Store interface {
	Save(result *RunResult) error
	Load(runID string) (*RunResult, error)
	// List returns stored runs, most recent first.
	// A non-positive limit returns all runs. An empty history yields an
	// empty, non-nil slice, so listings encode as [] rather than null.
	List(limit int) ([]*RunResult, error)
}

// RunResult holds the structured record of one run.
type RunResult struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	StartedAt time.Time `json:"started_at"`
	Evaluator string    `json:"evaluator"`
	Opponent  string    `json:"opponent,omitempty"` // run-level black side; tournaments vary it per match
	Matches   []Match   `json:"matches,omitempty"`
}

// Match holds the outcome of a single evaluator invocation.
type Match struct {
	Variant   string  `json:"variant"`  // white side
	Opponent  string  `json:"opponent"` // black side
	Summary   string  `json:"summary"`  // extracted summary line; empty marker when short
	Status    string  `json:"status"`   // ok, warn, short, error
	Detail    string  `json:"detail,omitempty"`
	ExitCode  int     `json:"exit_code"`
	Elapsed   float64 `json:"elapsed,omitempty"` // seconds
	Truncated bool    `json:"truncated,omitempty"`
	Output    string  `json:"output,omitempty"` // full captured stdout, up to the byte cap
}

// Tally counts the run's matches by status.
func (r *RunResult) Tally() (ok, warn, short int) {
	for _, m := range r.Matches {
		switch m.Status {
		case "ok":
			ok++
		case "warn":
			warn++
		case "short":
			short++
		}
	}
	return ok, warn, short
}

// ByVariant returns the matches where the given variant played white.
func ByVariant(result *RunResult, variant string) []Match {
	var out []Match
	for _, m := range result.Matches {
		if m.Variant == variant {
			out = append(out, m)
		}
	}
	return out
}
