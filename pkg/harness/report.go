package harness

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	reportTitle = color.New(color.Bold)
	passGlyph   = color.New(color.FgGreen).Sprint("✔")
	failGlyph   = color.New(color.FgRed).Sprint("✘")
	passText    = color.New(color.FgGreen)
	failText    = color.New(color.FgRed)
)

// WriteReport renders the consolidated human-facing report: a header
// with totals and the success rate, then a per-category breakdown of
// every check with its status glyph, duration for passed checks and
// error text for failed ones. The exit code, not this text, is the
// machine-readable signal.
func (h *Harness) WriteReport(w io.Writer) {
	passed, failed := h.Totals()
	total := passed + failed

	rate := 0.0
	if total > 0 {
		rate = float64(passed) / float64(total) * 100
	}

	fmt.Fprintln(w)
	reportTitle.Fprintln(w, "Deployment Verification Report")
	fmt.Fprintf(w, "run %s\n", h.runID)
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "Total:    %d\n", total)
	passText.Fprintf(w, "Passed:   %d\n", passed)
	if failed > 0 {
		failText.Fprintf(w, "Failed:   %d\n", failed)
	} else {
		fmt.Fprintf(w, "Failed:   %d\n", failed)
	}
	fmt.Fprintf(w, "Success:  %.1f%%\n", rate)

	order, categories := h.Results()
	for _, name := range order {
		c := categories[name]
		fmt.Fprintf(w, "\n%s (%d passed, %d failed)\n", strings.ToUpper(name), c.Passed, c.Failed)
		for _, check := range c.Checks {
			if check.Status == StatusPassed {
				fmt.Fprintf(w, "  %s %s (%dms)\n", passGlyph, check.Name, check.Duration.Milliseconds())
			} else {
				fmt.Fprintf(w, "  %s %s: %s\n", failGlyph, check.Name, check.Err)
			}
		}
	}

	fmt.Fprintln(w)
	if failed > 0 {
		failText.Fprintln(w, "verification failed")
	} else {
		passText.Fprintln(w, "all checks passed")
	}
}
