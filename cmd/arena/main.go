// Command arena runs batch experiments against a black-box game evaluator.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/deixis/arena"
	"github.com/deixis/arena/internal/batch"
	"github.com/deixis/arena/internal/config"
	arenamcp "github.com/deixis/arena/internal/mcp"
	"github.com/deixis/arena/internal/report"
	"github.com/deixis/arena/internal/runner"
	"github.com/dustin/go-humanize"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("arena: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = runMain(args)
	case "duel":
		err = duelMain(args)
	case "tournament":
		err = tournamentMain(args)
	case "history":
		err = historyMain(args)
	case "show":
		err = showMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(arena.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "arena: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: arena <command> [flags] [args]

Commands:
  run         Analyze each variant against the opponent, one summary line per variant
  duel        Analyze a single white-versus-black matchup
  tournament  Analyze every ordered pairing of the variant list
  history     List stored runs
  show        Show a stored run in detail
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Use "arena <command> -h" for command-specific flags.`)
}

// --- run ---

func runMain(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	evaluatorFlag := fs.String("evaluator", "", "override configured evaluator")
	opponentFlag := fs.String("opponent", "", "override configured opponent")
	timeoutFlag := fs.Duration("timeout", 0, "override configured timeout (e.g. 5m)")
	jsonFlag := fs.Bool("json", false, "suppress the report, emit the run record as JSON")
	verboseFlag := fs.Bool("v", false, "log per-match statuses and the run ID")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := newEnv(*timeoutFlag)
	if err != nil {
		return err
	}
	defer env.close()

	rr, runErr := env.engine.Run(ctx, reportStream(*jsonFlag), batch.RunOptions{
		Variants:  fs.Args(),
		Evaluator: *evaluatorFlag,
		Opponent:  *opponentFlag,
	})
	return finishRun(env, rr, runErr, *jsonFlag, *verboseFlag)
}

// --- duel ---

func duelMain(args []string) error {
	fs := flag.NewFlagSet("duel", flag.ExitOnError)
	evaluatorFlag := fs.String("evaluator", "", "override configured evaluator")
	timeoutFlag := fs.Duration("timeout", 0, "override configured timeout (e.g. 5m)")
	jsonFlag := fs.Bool("json", false, "suppress the report, emit the run record as JSON")
	verboseFlag := fs.Bool("v", false, "log per-match statuses and the run ID")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: arena duel [flags] <white> [black]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := newEnv(*timeoutFlag)
	if err != nil {
		return err
	}
	defer env.close()

	rr, runErr := env.engine.Duel(ctx, reportStream(*jsonFlag), batch.DuelOptions{
		White:     fs.Arg(0),
		Black:     fs.Arg(1),
		Evaluator: *evaluatorFlag,
	})
	return finishRun(env, rr, runErr, *jsonFlag, *verboseFlag)
}

// --- tournament ---

func tournamentMain(args []string) error {
	fs := flag.NewFlagSet("tournament", flag.ExitOnError)
	evaluatorFlag := fs.String("evaluator", "", "override configured evaluator")
	timeoutFlag := fs.Duration("timeout", 0, "override configured timeout (e.g. 5m)")
	jsonFlag := fs.Bool("json", false, "suppress the report, emit the run record as JSON")
	verboseFlag := fs.Bool("v", false, "log per-match statuses and the run ID")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := newEnv(*timeoutFlag)
	if err != nil {
		return err
	}
	defer env.close()

	rr, runErr := env.engine.Tournament(ctx, reportStream(*jsonFlag), batch.TournamentOptions{
		Variants:  fs.Args(),
		Evaluator: *evaluatorFlag,
	})
	return finishRun(env, rr, runErr, *jsonFlag, *verboseFlag)
}

// --- history ---

func historyMain(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limitFlag := fs.Int("n", 0, "maximum runs to list (default from config)")
	jsonFlag := fs.Bool("json", false, "output as JSON")
	_ = fs.Parse(args)

	env, err := newEnv(0)
	if err != nil {
		return err
	}
	defer env.close()

	limit := *limitFlag
	if limit <= 0 {
		limit = env.cfg.HistoryLimit()
	}

	runs, err := env.store.List(limit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}
	for _, rr := range runs {
		_, warn, short := rr.Tally()
		status := "ok"
		if warn > 0 || short > 0 {
			status = "degraded"
		}
		fmt.Printf("%s  %-10s  %2d matches  %-8s  %s\n",
			rr.ID, rr.Kind, len(rr.Matches), status, humanize.Time(rr.StartedAt))
	}
	return nil
}

// --- show ---

func showMain(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output as JSON")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: arena show [flags] <run-id> [variant]")
		os.Exit(2)
	}

	env, err := newEnv(0)
	if err != nil {
		return err
	}
	defer env.close()

	rr, err := env.store.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	matches := rr.Matches
	if variant := fs.Arg(1); variant != "" {
		matches = report.ByVariant(rr, variant)
		if len(matches) == 0 {
			return fmt.Errorf("no matches for %s in run %s", variant, rr.ID)
		}
	}

	if *jsonFlag {
		filtered := *rr
		filtered.Matches = matches
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(&filtered)
	}

	fmt.Print(formatShowCLI(rr, matches))
	return nil
}

func formatShowCLI(rr *report.RunResult, matches []report.Match) string {
	var b []byte
	w := func(format string, args ...any) {
		b = fmt.Appendf(b, format, args...)
	}

	w("%s (%s)\n", rr.ID, rr.Kind)
	w("started %s\n", humanize.Time(rr.StartedAt))
	w("evaluator %s\n", rr.Evaluator)
	w("\n")

	for i, m := range matches {
		if i > 0 {
			w("\n")
		}
		w("%s vs %s: %s", m.Variant, m.Opponent, m.Status)
		if m.Detail != "" {
			w(" (%s)", m.Detail)
		}
		if m.Elapsed > 0 {
			w(" [%.2fs]", m.Elapsed)
		}
		w("\n")
		if m.Summary != "" {
			w("  summary: %s\n", m.Summary)
		}
		if m.Output != "" {
			for _, line := range strings.Split(strings.TrimRight(m.Output, "\n"), "\n") {
				w("    %s\n", line)
			}
			if m.Truncated {
				w("    ... (truncated)\n")
			}
		}
	}

	return string(b)
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(arenamcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return serve(ctx, *httpAddr)
}

func serve(ctx context.Context, httpAddr string) error {
	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config

	back, err := report.OpenStore(cfg.StoreBackend(), cfg.StorePath(), loaded.Root)
	if err != nil {
		return err
	}
	defer func() {
		_ = report.CloseIfSupported(back)
	}()
	store := report.NewLRUStore(5, back)

	r := &runner.Runner{
		Workspace: loaded.Root,
		Timeout:   cfg.Timeout(),
		MaxOutput: cfg.MaxOutputBytes(),
	}

	server := arenamcp.NewServer(cfg, r, store, loaded.Root)

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- shared ---

// env bundles the dependencies a command needs: loaded config, the
// engine wired to the config root, and the run store.
type env struct {
	cfg    *config.Config
	engine *batch.Engine
	store  report.Store
}

func newEnv(timeoutOverride time.Duration) (*env, error) {
	workspace, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config

	timeout := cfg.Timeout()
	if timeoutOverride > 0 {
		timeout = timeoutOverride
	}

	r := &runner.Runner{
		Workspace: loaded.Root,
		Timeout:   timeout,
		MaxOutput: cfg.MaxOutputBytes(),
	}

	store, err := report.OpenStore(cfg.StoreBackend(), cfg.StorePath(), loaded.Root)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg: cfg,
		engine: &batch.Engine{
			Config:    cfg,
			Runner:    r,
			Workspace: loaded.Root,
			Warnf:     log.Printf,
		},
		store: store,
	}, nil
}

func (e *env) close() {
	if err := report.CloseIfSupported(e.store); err != nil {
		log.Printf("closing store: %v", err)
	}
}

// reportStream returns where the progressive label/summary report goes.
// JSON mode keeps stdout clean for the encoded record.
func reportStream(asJSON bool) io.Writer {
	if asJSON {
		return io.Discard
	}
	return os.Stdout
}

// finishRun saves the record and emits the optional JSON and verbose
// forms. A degraded but complete run is still a success.
func finishRun(env *env, rr *report.RunResult, runErr error, asJSON, verbose bool) error {
	if rr != nil {
		if err := env.store.Save(rr); err != nil {
			log.Printf("saving run: %v", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rr); err != nil {
			return err
		}
	}

	if verbose {
		log.Printf("run %s", rr.ID)
		for _, m := range rr.Matches {
			if m.Detail != "" {
				log.Printf("  %s vs %s: %s (%s)", m.Variant, m.Opponent, m.Status, m.Detail)
			} else {
				log.Printf("  %s vs %s: %s", m.Variant, m.Opponent, m.Status)
			}
		}
	}
	return nil
}
