// Package batch provides the core execution engine for arena's run,
// duel and tournament pipelines. It is consumed by both the MCP server
// and the CLI commands.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deixis/arena/internal/config"
	"github.com/deixis/arena/internal/report"
	"github.com/deixis/arena/internal/runner"
)

// CommandRunner executes commands within a workspace.
// Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, cwd string) (*runner.Result, error)
}

// Engine holds shared dependencies for all match operations.
type Engine struct {
	Config    *config.Config
	Runner    CommandRunner
	Workspace string // config root — evaluator paths resolve against here

	// Warnf receives degraded-match warnings (nonzero exits, short
	// output). Nil means warnings are dropped; the engine never logs
	// on its own.
	Warnf func(format string, args ...any)
}

func (e *Engine) warnf(format string, args ...any) {
	if e.Warnf != nil {
		e.Warnf(format, args...)
	}
}

// ErrLaunch is returned when the evaluator process cannot be started.
// The run aborts at the match in flight; its label has been emitted,
// its content line has not.
type ErrLaunch struct {
	Variant   string
	Evaluator string
	Err       error
}

func (e ErrLaunch) Error() string {
	return fmt.Sprintf("launching %s for %s: %v", e.Evaluator, e.Variant, e.Err)
}

func (e ErrLaunch) Unwrap() error { return e.Err }

// resolveEvaluator returns the evaluator for a run, preferring the
// per-invocation override over the configured default.
func (e *Engine) resolveEvaluator(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if e.Config.Evaluator != "" {
		return e.Config.Evaluator, nil
	}
	return "", errors.New("no evaluator configured: set evaluator in .arena or pass one explicitly")
}

// resolveVariants returns the variant list for a run, preferring the
// per-invocation override over the configured default.
func (e *Engine) resolveVariants(override []string) []string {
	if len(override) > 0 {
		return override
	}
	return e.Config.Variants()
}

// playMatch runs one evaluator invocation and distils it into a Match.
// A non-nil error means the process could not be launched; every other
// outcome, nonzero exits and unusable output included, is recorded in
// the match status instead of failing the run.
func (e *Engine) playMatch(ctx context.Context, evaluator, variant, opponent string) (*report.Match, error) {
	argv := []string{evaluator, "-w", variant, "-b", opponent}
	argv = append(argv, e.Config.Eval.Args...)

	res, err := e.Runner.Run(ctx, argv, "")
	if err != nil {
		return nil, ErrLaunch{Variant: variant, Evaluator: evaluator, Err: err}
	}

	m := &report.Match{
		Variant:   variant,
		Opponent:  opponent,
		Status:    "ok",
		ExitCode:  res.ExitCode,
		Elapsed:   res.Duration.Seconds(),
		Truncated: res.Truncated,
		Output:    string(res.Stdout),
	}

	if res.ExitCode != 0 {
		m.Status = "warn"
		m.Detail = fmt.Sprintf("evaluator exited with status %d", res.ExitCode)
		e.warnf("%s vs %s: evaluator exited with status %d", variant, opponent, res.ExitCode)
	}

	line, err := SelectLine(string(res.Stdout), e.Config.SummaryLine())
	if err == nil {
		m.Summary = line
	} else {
		var short ErrShortOutput
		if !errors.As(err, &short) {
			return nil, err
		}
		m.Status = "short"
		m.Detail = appendDetail(m.Detail, err.Error())
		e.warnf("%s vs %s: %v", variant, opponent, err)
	}

	if m.Status != "ok" {
		if excerpt := stderrExcerpt(res.Stderr); excerpt != "" {
			m.Detail = appendDetail(m.Detail, "stderr: "+excerpt)
		}
	}
	return m, nil
}

// errorMatch records a match that never produced a result, so that
// aborted runs still show where they stopped.
func errorMatch(variant, opponent string, err error) report.Match {
	return report.Match{
		Variant:  variant,
		Opponent: opponent,
		Status:   "error",
		Detail:   err.Error(),
	}
}

func appendDetail(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + "; " + extra
}

// stderrExcerpt returns the first non-empty stderr line, trimmed and
// length-capped, for embedding in match detail.
func stderrExcerpt(stderr []byte) string {
	const limit = 120
	for _, line := range strings.Split(string(stderr), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > limit {
			line = line[:limit] + "..."
		}
		return line
	}
	return ""
}
