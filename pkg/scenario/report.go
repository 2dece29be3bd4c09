package scenario

import (
	"fmt"
	"io"
	"strings"
)

// Render writes a plain-text report: a PASS or FAIL line per scenario
// followed by each step and its output, then a summary line.
func Render(w io.Writer, results []Result) error {
	var b strings.Builder
	for _, res := range results {
		status := "PASS"
		if !res.Passed() {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%s %s (%s, %s)\n", status, res.Scenario.Name, res.File, res.Mode)

		for _, step := range res.Steps {
			fmt.Fprintf(&b, "  > %s\n", step.Source)
			for _, line := range strings.Split(strings.TrimSuffix(step.Printed, "\n"), "\n") {
				if line != "" {
					fmt.Fprintf(&b, "    | %s\n", line)
				}
			}
			if step.Err != nil {
				fmt.Fprintf(&b, "    error: %s\n", step.Err)
			} else if step.Output != "" {
				fmt.Fprintf(&b, "    %s\n", step.Output)
			}
			if step.Failure != "" {
				fmt.Fprintf(&b, "    ! %s\n", step.Failure)
			}
		}
		if res.Skipped > 0 {
			fmt.Fprintf(&b, "  ! skipped %d remaining step(s)\n", res.Skipped)
		}
	}

	failed := Failed(results)
	fmt.Fprintf(&b, "\n%d passed, %d failed\n", len(results)-failed, failed)

	_, err := io.WriteString(w, b.String())
	return err
}
