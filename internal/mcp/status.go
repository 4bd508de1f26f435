package mcp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type statusParams struct{}

func (h *handler) statusHandler(ctx context.Context, req *mcp.CallToolRequest, _ statusParams) (*mcp.CallToolResult, any, error) {
	cfg := h.engine.Config

	var b strings.Builder
	fmt.Fprintf(&b, "Workspace: %s\n", h.engine.Workspace)

	if cfg.Evaluator == "" {
		fmt.Fprintln(&b, "Evaluator: (not configured)")
	} else {
		fmt.Fprintf(&b, "Evaluator: %s%s\n", cfg.Evaluator, evaluatorState(h.engine.Workspace, cfg.Evaluator))
	}

	fmt.Fprintf(&b, "Variants: %s\n", strings.Join(cfg.Variants(), ", "))
	fmt.Fprintf(&b, "Opponent: %s\n", cfg.Opponent())
	fmt.Fprintf(&b, "Summary line: %d\n", cfg.SummaryLine())
	fmt.Fprintf(&b, "Timeout: %s\n", cfg.Timeout())

	fmt.Fprintf(&b, "Store: %s", cfg.StoreBackend())
	if runs, err := h.store.List(0); err == nil {
		fmt.Fprintf(&b, " (%d stored runs)", len(runs))
	}
	fmt.Fprintln(&b)

	return textResult(b.String())
}

// evaluatorState reports whether the configured evaluator currently
// resolves to a runnable program. Empty means it does.
func evaluatorState(workspace, evaluator string) string {
	path := evaluator
	if !filepath.IsAbs(path) {
		if !strings.Contains(path, "/") {
			if _, err := exec.LookPath(path); err != nil {
				return " (not found in PATH)"
			}
			return ""
		}
		path = filepath.Join(workspace, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return " (missing)"
	}
	if info.IsDir() || info.Mode()&0o111 == 0 {
		return " (not executable)"
	}
	return ""
}
