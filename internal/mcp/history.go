package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type historyParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of runs to list. Defaults to the configured history limit."`
}

func (h *handler) historyHandler(ctx context.Context, req *mcp.CallToolRequest, params historyParams) (*mcp.CallToolResult, any, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = h.engine.Config.HistoryLimit()
	}

	runs, err := h.store.List(limit)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to list runs: %v", err))
	}
	if len(runs) == 0 {
		return textResult("No stored runs.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Runs (%d):\n", len(runs))
	for _, rr := range runs {
		_, warn, short := rr.Tally()
		status := "ok"
		if warn > 0 || short > 0 {
			status = "degraded"
		}
		fmt.Fprintf(&b, "  %s  %-10s  %2d matches  %-8s  %s\n",
			rr.ID, rr.Kind, len(rr.Matches), status, humanize.Time(rr.StartedAt))
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Drill into a run with arena_show(run_id=...).")

	return textResult(b.String())
}
