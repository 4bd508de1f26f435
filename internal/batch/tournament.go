package batch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/deixis/arena/internal/report"
	"github.com/google/uuid"
)

// TournamentOptions configures a round-robin run over a variant list.
type TournamentOptions struct {
	Variants  []string
	Evaluator string
}

// Tournament plays every ordered pairing of the variant list, mirror
// matches included, white in list order on the outside and black on
// the inside. Degraded matches are recorded and the tournament keeps
// going; only a launch failure aborts.
func (e *Engine) Tournament(ctx context.Context, out io.Writer, opts TournamentOptions) (*report.RunResult, error) {
	evaluator, err := e.resolveEvaluator(opts.Evaluator)
	if err != nil {
		return nil, err
	}
	variants := e.resolveVariants(opts.Variants)

	rr := &report.RunResult{
		ID:        uuid.New().String(),
		Kind:      report.Tournament,
		StartedAt: time.Now().UTC(),
		Evaluator: evaluator,
	}

	for _, white := range variants {
		for _, black := range variants {
			if err := ctx.Err(); err != nil {
				return rr, err
			}

			fmt.Fprintf(out, "Analyzing %s vs %s\n", white, black)

			m, err := e.playMatch(ctx, evaluator, white, black)
			if err != nil {
				rr.Matches = append(rr.Matches, errorMatch(white, black, err))
				return rr, err
			}

			fmt.Fprintf(out, "%s\n", m.Summary)
			rr.Matches = append(rr.Matches, *m)
		}
	}

	return rr, nil
}
