package batch

import (
	"fmt"
	"strings"
)

// ErrShortOutput reports evaluator output with fewer lines than the
// requested summary line.
type ErrShortOutput struct {
	Lines int
	Want  int
}

func (e ErrShortOutput) Error() string {
	return fmt.Sprintf("output has %d lines, want at least %d", e.Lines, e.Want)
}

// SelectLine returns line n (1-indexed) of raw. A single trailing
// newline terminates the last line rather than opening an empty one,
// so "a\nb\nc\n" has three lines. Empty output has zero lines. The
// selected line is returned without a trailing carriage return.
func SelectLine(raw string, n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("summary line must be positive, got %d", n)
	}
	if raw == "" {
		return "", ErrShortOutput{Lines: 0, Want: n}
	}

	lines := strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
	if len(lines) < n {
		return "", ErrShortOutput{Lines: len(lines), Want: n}
	}
	return strings.TrimSuffix(lines[n-1], "\r"), nil
}
