package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/crosscheck/internal/config"
	"github.com/dusk-indust/crosscheck/internal/export"
	"github.com/dusk-indust/crosscheck/internal/feedback"
	"github.com/dusk-indust/crosscheck/internal/review"
)

func runFeedback(args []string) error {
	fs := flag.NewFlagSet("feedback", flag.ContinueOnError)
	reportPath := fs.String("report", "", "path to a JSON report export from 'crosscheck review -json'")
	conflictID := fs.String("conflict", "", "conflict ID the feedback refers to")
	outcomeFlag := fs.String("outcome", "", "accepted, edited, or rejected")
	note := fs.String("note", "", "optional free-form comment")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *reportPath == "" || *conflictID == "" || *outcomeFlag == "" {
		return fmt.Errorf("usage: crosscheck feedback -report <file> -conflict <id> -outcome <accepted|edited|rejected>")
	}

	outcome := feedback.Outcome(*outcomeFlag)
	if !outcome.Valid() {
		return fmt.Errorf("unknown outcome %q (want accepted, edited, or rejected)", *outcomeFlag)
	}

	data, err := os.ReadFile(*reportPath)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	var exported export.ReportExport
	if err := json.Unmarshal(data, &exported); err != nil {
		return fmt.Errorf("parse report: %w", err)
	}
	report := exported.Report

	var strategy string
	for _, res := range report.Resolutions {
		if res.ConflictID == *conflictID {
			strategy = res.Strategy
			break
		}
	}
	if strategy == "" {
		return fmt.Errorf("report %s has no resolution for conflict %s", report.RunID, *conflictID)
	}

	var kind review.ConflictKind
	for _, c := range report.Conflicts {
		if c.ID == *conflictID {
			kind = c.Kind
			break
		}
	}

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, closeStore, err := openFeedbackStore(cfg.FeedbackDB)
	if err != nil {
		return fmt.Errorf("open feedback store: %w", err)
	}
	defer closeStore()

	ctx := context.Background()
	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init feedback store: %w", err)
	}

	err = store.RecordFeedback(ctx, feedback.Entry{
		RunID:        report.RunID,
		ConflictID:   *conflictID,
		ConflictKind: kind,
		Strategy:     strategy,
		Outcome:      outcome,
		Note:         *note,
	})
	if err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}

	fmt.Printf("recorded %s for %s (strategy %s)\n", outcome, *conflictID, strategy)
	return nil
}
