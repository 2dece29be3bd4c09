package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/vito/binder/pkg/notation"
	"github.com/vito/binder/pkg/scenario"
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true) // green
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true) // red
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))            // red
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))            // cyan
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray
)

// renderStyled writes the plain scenario report with status lines, errors
// and failures colored.
func renderStyled(w io.Writer, results []scenario.Result) error {
	var plain bytes.Buffer
	if err := scenario.Render(&plain, results); err != nil {
		return err
	}

	var out strings.Builder
	for _, line := range strings.SplitAfter(plain.String(), "\n") {
		text := strings.TrimSuffix(line, "\n")
		nl := line[len(text):]
		trimmed := strings.TrimSpace(text)
		switch {
		case strings.HasPrefix(text, "PASS "):
			text = passStyle.Render("PASS") + text[4:]
		case strings.HasPrefix(text, "FAIL "):
			text = failStyle.Render("FAIL") + text[4:]
		case strings.HasPrefix(trimmed, "error: "), strings.HasPrefix(trimmed, "! "):
			text = errorStyle.Render(text)
		case strings.HasPrefix(trimmed, "> "):
			text = dimStyle.Render(text)
		}
		out.WriteString(text + nl)
	}
	_, err := io.WriteString(w, out.String())
	return err
}

// formatError highlights notation syntax errors in their source.
func formatError(err error) string {
	var syntaxErr *notation.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.FormatWithHighlighting()
	}
	return errorStyle.Render(fmt.Sprintf("Error: %s", err))
}
