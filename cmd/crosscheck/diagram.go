package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/crosscheck/internal/export"
)

func runDiagram(args []string) error {
	fs := flag.NewFlagSet("diagram", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: crosscheck diagram <report.json>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	var exported export.ReportExport
	if err := json.Unmarshal(data, &exported); err != nil {
		return fmt.Errorf("parse report: %w", err)
	}

	fmt.Print(export.GenerateMermaid(&exported.Report))
	return nil
}
