package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dusk-indust/crosscheck/internal/a2a"
	"github.com/dusk-indust/crosscheck/internal/config"
	"github.com/dusk-indust/crosscheck/internal/coordinator"
	"github.com/dusk-indust/crosscheck/internal/mcptools"
	"github.com/dusk-indust/crosscheck/internal/roles"
	"github.com/dusk-indust/crosscheck/internal/source"
)

func runServeMCP(args []string) error {
	fs := flag.NewFlagSet("serve-mcp", flag.ContinueOnError)
	addr := fs.String("addr", "127.0.0.1:8700", "listen address for the MCP HTTP server")
	basePort := fs.Int("base-port", 0, "first port for locally spawned agents")
	model := fs.String("model", "", "model backing the role agents")
	verbose := fs.Bool("verbose", false, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyReviewFlags(cfg, "", *basePort, 0, 0, *model, *verbose)

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	endpoints, cleanup, err := resolveEndpoints(ctx, cfg, roles.Names(), log)
	if err != nil {
		return err
	}
	defer cleanup()

	store, closeStore, err := openFeedbackStore(cfg.FeedbackDB)
	if err != nil {
		return fmt.Errorf("open feedback store: %w", err)
	}
	defer closeStore()
	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init feedback store: %w", err)
	}

	coord := coordinator.New(a2a.NewHTTPClient(), store,
		coordinator.WithOutliner(source.NewOutliner()),
		coordinator.WithLogger(log),
	)
	svc := mcptools.NewReviewService(coord, store, endpoints)

	fmt.Fprintf(os.Stderr, "serving review MCP tools on http://%s\n", *addr)
	start := time.Now()
	err = mcptools.RunMCPServer(ctx, svc, *addr)
	fmt.Fprintf(os.Stderr, "server stopped after %s\n", time.Since(start).Round(time.Second))
	return err
}
