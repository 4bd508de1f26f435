package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/deixis/arena/internal/report"
	"github.com/google/uuid"
)

// DuelOptions configures a single matchup. White is required; Black
// defaults to the configured opponent.
type DuelOptions struct {
	White     string
	Black     string
	Evaluator string
}

// Duel plays one white-versus-black matchup with the same two-line
// report and the same extraction policy as a batch run.
func (e *Engine) Duel(ctx context.Context, out io.Writer, opts DuelOptions) (*report.RunResult, error) {
	if opts.White == "" {
		return nil, errors.New("duel requires a white variant")
	}
	evaluator, err := e.resolveEvaluator(opts.Evaluator)
	if err != nil {
		return nil, err
	}
	black := opts.Black
	if black == "" {
		black = e.Config.Opponent()
	}

	rr := &report.RunResult{
		ID:        uuid.New().String(),
		Kind:      report.Duel,
		StartedAt: time.Now().UTC(),
		Evaluator: evaluator,
		Opponent:  black,
	}

	fmt.Fprintf(out, "Analyzing %s vs %s\n", opts.White, black)

	m, err := e.playMatch(ctx, evaluator, opts.White, black)
	if err != nil {
		rr.Matches = append(rr.Matches, errorMatch(opts.White, black, err))
		return rr, err
	}

	fmt.Fprintf(out, "%s\n", m.Summary)
	rr.Matches = append(rr.Matches, *m)
	return rr, nil
}
