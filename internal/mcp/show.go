package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deixis/arena/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type showParams struct {
	RunID   string `json:"run_id" jsonschema:"The run ID from arena_run, arena_duel, arena_tournament, or arena_history."`
	Variant string `json:"variant,omitempty" jsonschema:"Show only matches where this variant played white."`
}

func (h *handler) showHandler(ctx context.Context, req *mcp.CallToolRequest, params showParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}

	rr, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}

	matches := rr.Matches
	if params.Variant != "" {
		matches = report.ByVariant(rr, params.Variant)
		if len(matches) == 0 {
			return textResult(fmt.Sprintf("No matches for %s in run %s (%s).", params.Variant, params.RunID, rr.Kind))
		}
	}

	return textResult(formatShow(rr, matches))
}

func formatShow(rr *report.RunResult, matches []report.Match) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s (%s)\n", rr.ID, rr.Kind)
	fmt.Fprintf(&b, "Started: %s\n", rr.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Evaluator: %s\n", rr.Evaluator)
	if rr.Opponent != "" {
		fmt.Fprintf(&b, "Opponent: %s\n", rr.Opponent)
	}
	fmt.Fprintln(&b)

	for i, m := range matches {
		if i > 0 {
			fmt.Fprintln(&b)
		}
		fmt.Fprintf(&b, "%s vs %s: %s", m.Variant, m.Opponent, m.Status)
		if m.Detail != "" {
			fmt.Fprintf(&b, " (%s)", m.Detail)
		}
		fmt.Fprintln(&b)

		if m.Summary != "" {
			fmt.Fprintf(&b, "  Summary: %s\n", m.Summary)
		}
		if m.Elapsed > 0 {
			fmt.Fprintf(&b, "  Elapsed: %.2fs\n", m.Elapsed)
		}
		if m.ExitCode != 0 {
			fmt.Fprintf(&b, "  Exit: %d\n", m.ExitCode)
		}
		if m.Output != "" {
			fmt.Fprintln(&b, "  Output:")
			output := strings.TrimRight(m.Output, "\n")
			for _, line := range strings.Split(output, "\n") {
				fmt.Fprintf(&b, "    %s\n", line)
			}
			if m.Truncated {
				fmt.Fprintln(&b, "    ... (truncated)")
			}
		}
	}

	return b.String()
}
