package mcp

import (
	"context"
	"strings"

	"github.com/deixis/arena/internal/batch"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type tournamentParams struct {
	Variants  []string `json:"variants,omitempty" jsonschema:"Variants to pair up, in order. Defaults to the configured variant list."`
	Evaluator string   `json:"evaluator,omitempty" jsonschema:"Evaluator program to invoke. Defaults to the configured evaluator."`
}

func (h *handler) tournamentHandler(ctx context.Context, req *mcp.CallToolRequest, params tournamentParams) (*mcp.CallToolResult, any, error) {
	var out strings.Builder
	rr, err := h.engine.Tournament(ctx, &out, batch.TournamentOptions{
		Variants:  params.Variants,
		Evaluator: params.Evaluator,
	})
	if rr != nil {
		_ = h.store.Save(rr)
	}
	if err != nil {
		return errorResult(formatAborted("tournament", rr, out.String(), err))
	}

	return textResult(formatRun(rr, out.String()))
}
