// Package mcp provides the arena MCP server, registering all tools
// and publishing model instructions.
package mcp

import (
	"context"
	_ "embed"
	"net/url"
	"time"

	"github.com/deixis/arena"
	"github.com/deixis/arena/internal/batch"
	"github.com/deixis/arena/internal/config"
	"github.com/deixis/arena/internal/report"
	"github.com/deixis/arena/internal/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	engine *batch.Engine
	runner *runner.Runner // retained for updateWorkspaceFromRoots
	store  report.Store
}

// NewServer creates an MCP server with all arena tools registered.
func NewServer(cfg *config.Config, r *runner.Runner, store report.Store, workspace string) *mcp.Server {
	h := &handler{
		engine: &batch.Engine{
			Config:    cfg,
			Runner:    r,
			Workspace: workspace,
		},
		runner: r,
		store:  store,
	}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
		InitializedHandler: func(ctx context.Context, req *mcp.InitializedRequest) {
			h.updateWorkspaceFromRoots(ctx, req.Session)
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "arena", Version: arena.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "arena_run",
		Description: `Run the evaluator once per variant, in order, and report one summary line per variant.

Each variant plays white against the configured opponent. The run is recorded;
degraded matches (nonzero exit, short output) are flagged but do not abort.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "arena_duel",
		Description: `Play a single white-versus-black matchup and report its summary line.

Use this to probe one pairing directly. The black side defaults to the configured opponent.`,
	}, h.duelHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "arena_tournament",
		Description: `Play every ordered pairing of the variant list, mirror matches included.

Degraded matches are recorded per pairing and the tournament keeps going.
Results are stored for drill-down via arena_show.`,
	}, h.tournamentHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "arena_history",
		Description: "List stored runs, most recent first.",
	}, h.historyHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "arena_show",
		Description: `Drill into a stored run by ID.

Shows per-match statuses and the full captured evaluator output.
Optionally filter to a single variant.`,
	}, h.showHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "arena_status",
		Description: "Summarise the arena workspace: config root, evaluator, variants, opponent, and store.",
	}, h.statusHandler)

	return s
}

// updateWorkspaceFromRoots queries the client for MCP roots and updates the
// handler's engine, runner, and config if a valid root is returned.
// This is called during session initialization, before any tool calls.
func (h *handler) updateWorkspaceFromRoots(ctx context.Context, session *mcp.ServerSession) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	roots, err := session.ListRoots(ctx, &mcp.ListRootsParams{})
	if err != nil {
		return
	}
	if len(roots.Roots) == 0 {
		return
	}

	u, err := url.Parse(roots.Roots[0].URI)
	if err != nil || u.Scheme != "file" {
		return
	}

	loaded, err := config.Load(u.Path)
	if err != nil {
		return
	}

	// The store moves with the config root. Build it first: if the
	// declared root's backend cannot be opened, keep every boot-time
	// dependency rather than splitting state across two roots.
	back, err := report.OpenStore(loaded.Config.StoreBackend(), loaded.Config.StorePath(), loaded.Root)
	if err != nil {
		return
	}

	// Update runner.
	h.runner.Workspace = loaded.Root
	h.runner.Timeout = loaded.Config.Timeout()
	h.runner.MaxOutput = loaded.Config.MaxOutputBytes()

	// Update engine.
	h.engine.Config = loaded.Config
	h.engine.Workspace = loaded.Root

	// Update store. Runs recorded under the boot root stay there; new
	// runs land under the root the client declared.
	_ = report.CloseIfSupported(h.store)
	h.store = report.NewLRUStore(5, back)
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
