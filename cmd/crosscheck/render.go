package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dusk-indust/crosscheck/internal/review"
)

// renderReport prints a report in a terminal-friendly layout.
func renderReport(w io.Writer, r *review.Report) {
	fmt.Fprintf(w, "run %s (%s, %s)\n", r.RunID, r.Language, r.Elapsed.Round(10*time.Millisecond))

	switch {
	case r.Failed:
		fmt.Fprintln(w, "every role failed; no findings")
	case r.Cancelled:
		fmt.Fprintln(w, "run cancelled; partial results below")
	case r.Degraded:
		fmt.Fprintln(w, "run degraded; some roles failed")
	}

	for _, failure := range r.FailedRoles() {
		fmt.Fprintf(w, "  ✗ %s: %s (%s)\n", failure.Role, failure.Message, failure.Kind)
	}

	fmt.Fprintf(w, "\ncollaboration score: %.0f/100\n", r.CollaborationScore)

	if len(r.Findings) > 0 {
		fmt.Fprintf(w, "\nfindings (%d, by priority):\n", len(r.Findings))
		for i, f := range r.Findings {
			fmt.Fprintf(w, "%3d. [%s] %s %s - %s (impact %.1f, confidence %.2f)\n",
				i+1, f.Severity, f.Role, f.Location, f.Principle, f.ImpactScore, f.Confidence)
			if f.Rationale != "" {
				fmt.Fprintf(w, "     %s\n", f.Rationale)
			}
		}
	}

	if len(r.Resolutions) > 0 {
		fmt.Fprintf(w, "\nresolved conflicts (%d):\n", len(r.Resolutions))
		for _, res := range r.Resolutions {
			fmt.Fprintf(w, "  %s via %s: %s\n", res.ConflictID, res.Strategy, res.Rationale)
		}
	}

	if len(r.Unresolved) > 0 {
		fmt.Fprintf(w, "\nunresolved conflicts (%d, need human review):\n", len(r.Unresolved))
		for _, c := range r.Unresolved {
			fmt.Fprintf(w, "  %s [%s] %s\n", c.ID, c.Kind, c.Description)
		}
	}

	if len(r.Synergies) > 0 {
		fmt.Fprintf(w, "\nsynergies (%d):\n", len(r.Synergies))
		for _, s := range r.Synergies {
			fmt.Fprintf(w, "  %s (combined value %.1f)\n", s.Description, s.CombinedValue)
		}
	}

	if len(r.FocusAreas) > 0 {
		fmt.Fprintln(w, "\nfocus areas:")
		for _, area := range r.FocusAreas {
			fmt.Fprintf(w, "  - %s\n", area)
		}
	}
}
