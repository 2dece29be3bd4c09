package notation

import (
	"fmt"
	"strings"
)

// Location is a 1-based position in notation source.
type Location struct {
	Line   int
	Column int
	Length int // Length of the token that caused the error
}

// SyntaxError is a notation error with source location information
type SyntaxError struct {
	Inner    error
	Location *Location
	Source   string
}

func (e *SyntaxError) Unwrap() error {
	return e.Inner
}

func (e *SyntaxError) Error() string {
	if e.Location == nil {
		return e.Inner.Error()
	}
	return fmt.Sprintf("%d:%d: %s", e.Location.Line, e.Location.Column, e.Inner)
}

// FormatWithHighlighting returns the error with the offending source line
// and a caret underline, colored for a terminal.
func (e *SyntaxError) FormatWithHighlighting() string {
	if e.Location == nil || e.Source == "" {
		return e.Error()
	}

	lines := strings.Split(e.Source, "\n")
	if e.Location.Line < 1 || e.Location.Line > len(lines) {
		return e.Error()
	}

	// Colors for terminal output
	const (
		red   = "\033[31m"
		blue  = "\033[34m"
		bold  = "\033[1m"
		reset = "\033[0m"
		dim   = "\033[2m"
	)

	var result strings.Builder

	result.WriteString(fmt.Sprintf("%s%sError:%s %s\n", bold, red, reset, e.Inner))

	// Show context lines
	startLine := max(1, e.Location.Line-2)
	endLine := min(len(lines), e.Location.Line+2)

	for i := startLine; i <= endLine; i++ {
		lineStr := padLeft(fmt.Sprintf("%d", i), 3)
		if i == e.Location.Line {
			result.WriteString(fmt.Sprintf(" %s%s%s%s | %s%s\n",
				dim, blue, bold, lineStr, reset, lines[i-1]))

			// 1 space + 3 for line number + " | " + column position - 1
			padding := strings.Repeat(" ", 1+3+3+e.Location.Column-1)
			underline := strings.Repeat("^", max(1, e.Location.Length))
			result.WriteString(fmt.Sprintf("%s%s%s%s%s\n",
				dim, padding, red, underline, reset))
		} else {
			result.WriteString(fmt.Sprintf(" %s%s | %s%s\n",
				dim, lineStr, lines[i-1], reset))
		}
	}

	return result.String()
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
