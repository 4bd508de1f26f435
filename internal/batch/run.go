package batch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/deixis/arena/internal/report"
	"github.com/google/uuid"
)

// RunOptions configures a batch run. Zero-valued fields fall back to
// the loaded configuration.
type RunOptions struct {
	Variants  []string
	Evaluator string
	Opponent  string
}

// Run plays each variant against the opponent, strictly in list order,
// writing the report to out as it goes: for every variant a label line
// "Analyzing <variant>" followed by the extracted summary line. A
// completed run writes exactly two lines per variant and nothing else.
//
// The returned record reflects the matches played so far even when an
// error aborts the run partway.
func (e *Engine) Run(ctx context.Context, out io.Writer, opts RunOptions) (*report.RunResult, error) {
	evaluator, err := e.resolveEvaluator(opts.Evaluator)
	if err != nil {
		return nil, err
	}
	variants := e.resolveVariants(opts.Variants)
	opponent := opts.Opponent
	if opponent == "" {
		opponent = e.Config.Opponent()
	}

	rr := &report.RunResult{
		ID:        uuid.New().String(),
		Kind:      report.Batch,
		StartedAt: time.Now().UTC(),
		Evaluator: evaluator,
		Opponent:  opponent,
	}

	for _, variant := range variants {
		if err := ctx.Err(); err != nil {
			return rr, err
		}

		fmt.Fprintf(out, "Analyzing %s\n", variant)

		m, err := e.playMatch(ctx, evaluator, variant, opponent)
		if err != nil {
			rr.Matches = append(rr.Matches, errorMatch(variant, opponent, err))
			return rr, err
		}

		// For short output the summary is empty and this emits the
		// bare marker line, keeping two lines per variant.
		fmt.Fprintf(out, "%s\n", m.Summary)
		rr.Matches = append(rr.Matches, *m)
	}

	return rr, nil
}
