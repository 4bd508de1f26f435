package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/arena/internal/batch"
	"github.com/deixis/arena/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type runParams struct {
	Variants  []string `json:"variants,omitempty" jsonschema:"Variants to analyze, in order. Defaults to the configured variant list."`
	Evaluator string   `json:"evaluator,omitempty" jsonschema:"Evaluator program to invoke. Defaults to the configured evaluator."`
	Opponent  string   `json:"opponent,omitempty" jsonschema:"Black-side opponent for every match. Defaults to the configured opponent."`
}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, params runParams) (*mcp.CallToolResult, any, error) {
	var out strings.Builder
	rr, err := h.engine.Run(ctx, &out, batch.RunOptions{
		Variants:  params.Variants,
		Evaluator: params.Evaluator,
		Opponent:  params.Opponent,
	})
	if rr != nil {
		// Best-effort: keep whatever was played, even on abort.
		_ = h.store.Save(rr)
	}
	if err != nil {
		return errorResult(formatAborted("run", rr, out.String(), err))
	}

	return textResult(formatRun(rr, out.String()))
}

// formatRun renders a completed run: status header, the raw two-lines-
// per-match report, then a tally and degraded-match details.
func formatRun(rr *report.RunResult, reportText string) string {
	var b strings.Builder

	ok, warn, short := rr.Tally()
	if warn == 0 && short == 0 {
		fmt.Fprintln(&b, "Status: OK")
	} else {
		fmt.Fprintln(&b, "Status: DEGRADED")
	}
	fmt.Fprintf(&b, "Run: %s\n", rr.ID)
	fmt.Fprintln(&b)

	b.WriteString(reportText)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Matches: %d ok", ok)
	if warn > 0 {
		fmt.Fprintf(&b, ", %d warn", warn)
	}
	if short > 0 {
		fmt.Fprintf(&b, ", %d short", short)
	}
	fmt.Fprintln(&b)

	if warn > 0 || short > 0 {
		fmt.Fprintln(&b)
		for _, m := range rr.Matches {
			if m.Status == "ok" {
				continue
			}
			fmt.Fprintf(&b, "  %s vs %s: %s (%s)\n", m.Variant, m.Opponent, m.Status, m.Detail)
		}
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Inspect with arena_show(run_id=%q).\n", rr.ID)
	}

	return b.String()
}

// formatAborted renders an aborted operation: the error, then whatever
// partial report was emitted before the abort.
func formatAborted(op string, rr *report.RunResult, reportText string, err error) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s failed: %v\n", op, err)
	if reportText != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Partial report:")
		b.WriteString(reportText)
	}
	if rr != nil {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Run: %s\n", rr.ID)
	}

	return b.String()
}
