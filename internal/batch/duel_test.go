package batch

import (
	"context"
	"strings"
	"testing"

	"github.com/deixis/arena/internal/report"
	"github.com/deixis/arena/internal/runner"
)

func TestDuel_DefaultBlack(t *testing.T) {
	fr := &fakeRunner{}
	e := newTestEngine(fr)

	var out strings.Builder
	rr, err := e.Duel(context.Background(), &out, DuelOptions{White: "agent"})
	if err != nil {
		t.Fatalf("Duel: %v", err)
	}

	want := "Analyzing agent vs random\nSCORE=0.5\n"
	if out.String() != want {
		t.Errorf("report = %q, want %q", out.String(), want)
	}
	if rr.Kind != report.Duel {
		t.Errorf("Kind = %q, want duel", rr.Kind)
	}
	if len(rr.Matches) != 1 {
		t.Fatalf("len(Matches) = %d, want 1", len(rr.Matches))
	}
	if rr.Matches[0].Opponent != "random" {
		t.Errorf("Opponent = %q, want random", rr.Matches[0].Opponent)
	}
}

func TestDuel_ExplicitBlack(t *testing.T) {
	fr := &fakeRunner{
		Results: map[string]*runner.Result{
			"agent vs alphabeta": {ExitCode: 0, Stdout: []byte("x\ny\nSCORE=0.8\n")},
		},
	}
	e := newTestEngine(fr)

	var out strings.Builder
	rr, err := e.Duel(context.Background(), &out, DuelOptions{White: "agent", Black: "alphabeta"})
	if err != nil {
		t.Fatalf("Duel: %v", err)
	}

	if !strings.HasPrefix(out.String(), "Analyzing agent vs alphabeta\n") {
		t.Errorf("report = %q, want alphabeta pairing label", out.String())
	}
	if rr.Matches[0].Summary != "SCORE=0.8" {
		t.Errorf("Summary = %q, want SCORE=0.8", rr.Matches[0].Summary)
	}
}

func TestDuel_RequiresWhite(t *testing.T) {
	e := newTestEngine(&fakeRunner{})

	var out strings.Builder
	if _, err := e.Duel(context.Background(), &out, DuelOptions{}); err == nil {
		t.Fatal("expected error for missing white variant")
	}
}
