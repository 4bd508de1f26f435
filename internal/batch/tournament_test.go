package batch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deixis/arena/internal/report"
	"github.com/deixis/arena/internal/runner"
)

func TestTournament_AllOrderedPairings(t *testing.T) {
	fr := &fakeRunner{}
	e := newTestEngine(fr)

	var out strings.Builder
	rr, err := e.Tournament(context.Background(), &out, TournamentOptions{
		Variants: []string{"random", "alphabeta"},
	})
	if err != nil {
		t.Fatalf("Tournament: %v", err)
	}

	if rr.Kind != report.Tournament {
		t.Errorf("Kind = %q, want tournament", rr.Kind)
	}
	if len(rr.Matches) != 4 {
		t.Fatalf("len(Matches) = %d, want 4", len(rr.Matches))
	}

	wantPairs := []struct{ w, b string }{
		{"random", "random"},
		{"random", "alphabeta"},
		{"alphabeta", "random"},
		{"alphabeta", "alphabeta"},
	}
	for i, p := range wantPairs {
		if rr.Matches[i].Variant != p.w || rr.Matches[i].Opponent != p.b {
			t.Errorf("Matches[%d] = %s vs %s, want %s vs %s",
				i, rr.Matches[i].Variant, rr.Matches[i].Opponent, p.w, p.b)
		}
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Errorf("report has %d lines, want 8", len(lines))
	}
	if lines[0] != "Analyzing random vs random" {
		t.Errorf("lines[0] = %q, want mirror pairing label", lines[0])
	}
}

func TestTournament_KeepsGoingOnDegraded(t *testing.T) {
	fr := &fakeRunner{
		Results: map[string]*runner.Result{
			"random vs alphabeta": {ExitCode: 3, Stdout: []byte("crash\n")},
		},
	}
	e := newTestEngine(fr)

	var out strings.Builder
	rr, err := e.Tournament(context.Background(), &out, TournamentOptions{
		Variants: []string{"random", "alphabeta"},
	})
	if err != nil {
		t.Fatalf("Tournament: %v", err)
	}

	if len(rr.Matches) != 4 {
		t.Fatalf("len(Matches) = %d, want 4", len(rr.Matches))
	}
	if rr.Matches[1].Status != "short" {
		t.Errorf("Matches[1].Status = %q, want short", rr.Matches[1].Status)
	}
	ok, _, short := rr.Tally()
	if ok != 3 || short != 1 {
		t.Errorf("Tally = (%d ok, %d short), want (3, 1)", ok, short)
	}
}

func TestTournament_LaunchFailureAborts(t *testing.T) {
	fr := &fakeRunner{
		Err: map[string]error{
			"random vs alphabeta": errors.New("permission denied"),
		},
	}
	e := newTestEngine(fr)

	var out strings.Builder
	rr, err := e.Tournament(context.Background(), &out, TournamentOptions{
		Variants: []string{"random", "alphabeta"},
	})

	var launch ErrLaunch
	if !errors.As(err, &launch) {
		t.Fatalf("error = %v, want ErrLaunch", err)
	}
	if len(rr.Matches) != 2 {
		t.Fatalf("len(Matches) = %d, want 2", len(rr.Matches))
	}
	if rr.Matches[0].Status != "ok" || rr.Matches[1].Status != "error" {
		t.Errorf("statuses = [%s %s], want [ok error]",
			rr.Matches[0].Status, rr.Matches[1].Status)
	}
	want := "Analyzing random vs random\nSCORE=0.5\nAnalyzing random vs alphabeta\n"
	if out.String() != want {
		t.Errorf("report = %q, want %q", out.String(), want)
	}
}
