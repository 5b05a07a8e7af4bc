// Package export renders a finished review report for consumption outside
// the process: machine-readable JSON and a Mermaid diagram of how findings
// relate.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dusk-indust/crosscheck/internal/review"
)

// ReportExport is the top-level JSON export structure.
type ReportExport struct {
	ExportedAt string        `json:"exportedAt"`
	Report     review.Report `json:"report"`
}

// ExportJSON serializes a report with an export timestamp.
func ExportJSON(report *review.Report) ([]byte, error) {
	export := ReportExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Report:     *report,
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// WriteJSON writes the JSON export to a file.
func WriteJSON(report *review.Report, path string) error {
	data, err := ExportJSON(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
