package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dusk-indust/crosscheck/internal/a2a"
	"github.com/dusk-indust/crosscheck/internal/config"
	"github.com/dusk-indust/crosscheck/internal/coordinator"
	"github.com/dusk-indust/crosscheck/internal/export"
	"github.com/dusk-indust/crosscheck/internal/llm"
	"github.com/dusk-indust/crosscheck/internal/review"
	"github.com/dusk-indust/crosscheck/internal/roles"
	"github.com/dusk-indust/crosscheck/internal/source"
)

const defaultBasePort = 9400

// extToLang maps source file extensions to language tags.
var extToLang = map[string]string{
	".go":  "go",
	".py":  "python",
	".rs":  "rust",
	".ts":  "typescript",
	".tsx": "tsx",
}

func runReview(args []string) error {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	lang := fs.String("lang", "", "language tag (default: from file extension)")
	roleList := fs.String("roles", "", "comma-separated roles to run (default: all)")
	priority := fs.String("priority", "", "project priority: security, performance, maintainability, balanced")
	jsonOut := fs.String("json", "", "write the JSON report export to this path")
	basePort := fs.Int("base-port", 0, "first port for locally spawned agents")
	timeout := fs.Duration("timeout", 0, "per-role timeout")
	deadline := fs.Duration("deadline", 0, "whole-run deadline")
	model := fs.String("model", "", "model backing the role agents")
	verbose := fs.Bool("verbose", false, "enable verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: crosscheck review [flags] <file>")
	}
	path := fs.Arg(0)

	src, language, err := readSource(path, *lang)
	if err != nil {
		return err
	}

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyReviewFlags(cfg, *priority, *basePort, *timeout, *deadline, *model, *verbose)

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	requested, err := parseRoles(*roleList, cfg.Roles)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	endpoints, cleanup, err := resolveEndpoints(ctx, cfg, requested, log)
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

	progress := coordinator.NewProgressReporter()
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for ev := range progress.Subscribe() {
			fmt.Fprintln(os.Stderr, coordinator.FormatProgress(ev))
		}
	}()

	coord := coordinator.New(a2a.NewHTTPClient(), store,
		coordinator.WithOutliner(source.NewOutliner()),
		coordinator.WithLogger(log),
		coordinator.WithProgress(progress.Emit),
	)

	report, err := coord.Run(ctx, coordinator.Request{
		Source:      src,
		Language:    language,
		Roles:       requested,
		Endpoints:   endpoints,
		Context:     cfg.Context,
		RoleTimeout: cfg.RoleTimeout,
		Deadline:    cfg.Deadline,
	})
	progress.Close()
	<-drained
	if err != nil {
		return err
	}

	renderReport(os.Stdout, report)

	if *jsonOut != "" {
		if err := export.WriteJSON(report, *jsonOut); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "report written to %s\n", *jsonOut)
	}
	return nil
}

// readSource loads the file (or stdin for "-") and resolves its language tag.
func readSource(path, langFlag string) (string, string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", "", fmt.Errorf("read source: %w", err)
	}

	language := langFlag
	if language == "" {
		language = extToLang[filepath.Ext(path)]
	}
	if language == "" {
		return "", "", fmt.Errorf("cannot infer language for %s; pass -lang", path)
	}
	return string(data), language, nil
}

// applyReviewFlags overlays non-zero command-line flags onto the file config.
func applyReviewFlags(cfg *config.ProjectConfig, priority string, basePort int, timeout, deadline time.Duration, model string, verbose bool) {
	if priority != "" {
		cfg.Context.Priority = review.Priority(priority)
		cfg.Context = cfg.Context.Normalize()
	}
	if basePort > 0 {
		cfg.BasePort = basePort
	}
	if timeout > 0 {
		cfg.RoleTimeout = timeout
	}
	if deadline > 0 {
		cfg.Deadline = deadline
	}
	if model != "" {
		cfg.Model = model
	}
	if verbose {
		cfg.Verbose = true
	}
}

// parseRoles resolves the requested role set: the -roles flag wins, then the
// config file, then all roles.
func parseRoles(flagValue string, cfgRoles []string) ([]roles.Name, error) {
	names := cfgRoles
	if flagValue != "" {
		names = strings.Split(flagValue, ",")
	}

	var out []roles.Name
	for _, n := range names {
		name := roles.Name(strings.TrimSpace(n))
		if _, ok := roles.Lookup(name); !ok {
			return nil, fmt.Errorf("unknown role %q (known: %s)", name, knownRoles())
		}
		out = append(out, name)
	}
	return out, nil
}

func knownRoles() string {
	var names []string
	for _, n := range roles.Names() {
		names = append(names, string(n))
	}
	return strings.Join(names, ", ")
}

// resolveEndpoints returns an endpoint per requested role. Roles covered by
// configured external endpoints are used as-is; the rest are served by
// locally spawned agents backed by the configured model.
func resolveEndpoints(ctx context.Context, cfg *config.ProjectConfig, requested []roles.Name, log *zap.Logger) (map[roles.Name]string, func(), error) {
	if len(requested) == 0 {
		requested = roles.Names()
	}

	endpoints := make(map[roles.Name]string, len(requested))
	missing := false
	for _, name := range requested {
		if url, ok := cfg.Endpoints[string(name)]; ok {
			endpoints[name] = url
		} else {
			missing = true
		}
	}
	if !missing {
		return endpoints, func() {}, nil
	}

	client, err := llm.NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), cfg.Model)
	if err != nil {
		return nil, nil, err
	}

	basePort := cfg.BasePort
	if basePort <= 0 {
		basePort = defaultBasePort
	}

	registry := roles.NewRegistry(client, log)
	spawned, err := registry.SpawnAll(ctx, basePort)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("spawn local agents: %w", err)
	}

	for _, name := range requested {
		if _, ok := endpoints[name]; !ok {
			endpoints[name] = spawned[name]
		}
	}

	cleanup := func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = registry.StopAll(stopCtx)
		_ = client.Close()
	}
	return endpoints, cleanup, nil
}
