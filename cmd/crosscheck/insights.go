package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/crosscheck/internal/config"
	"github.com/dusk-indust/crosscheck/internal/insights"
)

func runInsights(args []string) error {
	fs := flag.NewFlagSet("insights", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "emit the summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
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

	summary, err := insights.Analyze(ctx, store)
	if err != nil {
		return err
	}

	if *asJSON {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	}

	fmt.Printf("resolutions: %d, feedback entries: %d\n", summary.TotalUses, summary.TotalFeedback)

	if len(summary.Strategies) > 0 {
		fmt.Println("\nstrategy track record:")
		for _, s := range summary.Strategies {
			fmt.Printf("  %-34s %-26s score %.2f  uses %-3d feedback %-3d accepted %d\n",
				s.Kind, s.Strategy, s.Score, s.Uses, s.Feedbacks, s.Accepted)
		}
	}

	if len(summary.BestByKind) > 0 {
		fmt.Println("\nleading strategy per conflict kind:")
		for kind, strategy := range summary.BestByKind {
			fmt.Printf("  %-34s %s\n", kind, strategy)
		}
	}

	if len(summary.Suggestions) > 0 {
		fmt.Println("\nsuggestions:")
		for _, s := range summary.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
	return nil
}
