package mcp

import (
	"context"
	"strings"

	"github.com/deixis/arena/internal/batch"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type duelParams struct {
	White     string `json:"white" jsonschema:"White-side variant to analyze."`
	Black     string `json:"black,omitempty" jsonschema:"Black-side opponent. Defaults to the configured opponent."`
	Evaluator string `json:"evaluator,omitempty" jsonschema:"Evaluator program to invoke. Defaults to the configured evaluator."`
}

func (h *handler) duelHandler(ctx context.Context, req *mcp.CallToolRequest, params duelParams) (*mcp.CallToolResult, any, error) {
	if params.White == "" {
		return errorResult("white is required")
	}

	var out strings.Builder
	rr, err := h.engine.Duel(ctx, &out, batch.DuelOptions{
		White:     params.White,
		Black:     params.Black,
		Evaluator: params.Evaluator,
	})
	if rr != nil {
		_ = h.store.Save(rr)
	}
	if err != nil {
		return errorResult(formatAborted("duel", rr, out.String(), err))
	}

	return textResult(formatRun(rr, out.String()))
}
