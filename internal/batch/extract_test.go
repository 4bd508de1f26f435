package batch

import (
	"errors"
	"testing"
)

func TestSelectLine(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		n    int
		want string
	}{
		{"third of three", "line1\nline2\nSCORE=0.5\n", 3, "SCORE=0.5"},
		{"no trailing newline", "line1\nline2\nSCORE=0.5", 3, "SCORE=0.5"},
		{"first line", "alpha\nbeta\n", 1, "alpha"},
		{"blank middle line", "a\n\nc\n", 2, ""},
		{"carriage return stripped", "a\r\nb\r\nSCORE=1\r\n", 3, "SCORE=1"},
		{"lone newline is one empty line", "\n", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectLine(tt.raw, tt.n)
			if err != nil {
				t.Fatalf("SelectLine(%q, %d): %v", tt.raw, tt.n, err)
			}
			if got != tt.want {
				t.Errorf("SelectLine(%q, %d) = %q, want %q", tt.raw, tt.n, got, tt.want)
			}
		})
	}
}

func TestSelectLine_ShortOutput(t *testing.T) {
	_, err := SelectLine("only line\n", 3)

	var short ErrShortOutput
	if !errors.As(err, &short) {
		t.Fatalf("error = %v, want ErrShortOutput", err)
	}
	if short.Lines != 1 || short.Want != 3 {
		t.Errorf("ErrShortOutput = {Lines: %d, Want: %d}, want {1, 3}", short.Lines, short.Want)
	}
}

func TestSelectLine_EmptyOutput(t *testing.T) {
	_, err := SelectLine("", 3)

	var short ErrShortOutput
	if !errors.As(err, &short) {
		t.Fatalf("error = %v, want ErrShortOutput", err)
	}
	if short.Lines != 0 {
		t.Errorf("Lines = %d, want 0", short.Lines)
	}
}

func TestSelectLine_InvalidLineNumber(t *testing.T) {
	if _, err := SelectLine("a\nb\n", 0); err == nil {
		t.Error("expected error for line 0")
	}
}
