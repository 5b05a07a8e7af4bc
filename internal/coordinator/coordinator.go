package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dusk-indust/crosscheck/internal/a2a"
	"github.com/dusk-indust/crosscheck/internal/feedback"
	"github.com/dusk-indust/crosscheck/internal/review"
	"github.com/dusk-indust/crosscheck/internal/roles"
	"github.com/dusk-indust/crosscheck/internal/source"
)

// Request describes one review run.
type Request struct {
	// Source is the text under review.
	Source string

	// Language is the language tag forwarded to the roles and the outliner.
	Language string

	// Roles to dispatch, in order. Empty means all roles in declaration
	// order.
	Roles []roles.Name

	// Endpoints maps each role to its agent base URL. A role without an
	// endpoint is recorded as a transport failure.
	Endpoints map[roles.Name]string

	// Context guides context-driven resolution.
	Context review.ProjectContext

	// RoleTimeout bounds each role's remote call. Zero uses the default.
	RoleTimeout time.Duration

	// Deadline bounds the whole run. Zero means no run-level deadline.
	Deadline time.Duration
}

// Coordinator wires the dispatcher, detectors, resolution engine, and report
// assembler into one run loop.
type Coordinator struct {
	client   a2a.Client
	store    feedback.Store
	outliner *source.Outliner
	progress func(ProgressEvent)
	log      *zap.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithProgress registers a progress callback. It is invoked from dispatch
// goroutines and must be safe for concurrent use.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(c *Coordinator) { c.progress = fn }
}

// WithOutliner sets the source outliner used for synergy proximity checks.
func WithOutliner(o *source.Outliner) Option {
	return func(c *Coordinator) { c.outliner = o }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

// New creates a Coordinator over an A2A client and a feedback store.
func New(client a2a.Client, store feedback.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		client: client,
		store:  store,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one review end to end and always returns a report: degraded
// when some roles fail, failed-and-empty when all do, cancelled when the
// caller gives up mid-run. The error return covers only unusable requests.
func (c *Coordinator) Run(ctx context.Context, req Request) (*review.Report, error) {
	if req.Source == "" {
		return nil, fmt.Errorf("coordinator: empty source")
	}

	requested := req.Roles
	if len(requested) == 0 {
		requested = roles.Names()
	}

	runID := uuid.NewString()
	start := time.Now()
	log := c.log.With(zap.String("run", runID))

	log.Info("run started",
		zap.String("language", req.Language),
		zap.Int("roles", len(requested)),
		zap.Int("sourceBytes", len(req.Source)),
	)

	runCtx := ctx
	var cancel context.CancelFunc
	if req.Deadline > 0 {
		runCtx, cancel = context.WithTimeout(ctx, req.Deadline)
		defer cancel()
	}

	dispatcher := NewDispatcher(c.client, req.RoleTimeout, c.progress, log)
	outcomes := dispatcher.Run(runCtx, requested, req.Endpoints, roles.ReviewRequest{
		Source:   req.Source,
		Language: req.Language,
	})

	cancelled := errors.Is(ctx.Err(), context.Canceled)

	var merged []review.Finding
	for _, o := range outcomes {
		if o.OK() {
			merged = append(merged, o.Findings...)
		}
	}

	outline := c.outlineSource(runCtx, req, log)

	conflicts := DetectConflicts(merged)
	synergies := DetectSynergies(merged, conflicts, outline)

	byID := make(map[string]review.Finding, len(merged))
	for _, f := range merged {
		byID[f.ID] = f
	}

	resolver := NewResolver(req.Context)
	selector := NewSelector(c.store, log)

	var resolutions []review.Resolution
	for _, conflict := range conflicts {
		members := make([]review.Finding, 0, len(conflict.Members))
		for _, id := range conflict.Members {
			if f, ok := byID[id]; ok {
				members = append(members, f)
			}
		}

		strategy, err := selector.Select(ctx, conflict.Kind)
		if err != nil {
			log.Warn("no strategy for conflict", zap.String("kind", string(conflict.Kind)), zap.Error(err))
			continue
		}

		res := resolver.Resolve(conflict, members, strategy)
		if res == nil {
			log.Debug("strategy abstained",
				zap.String("conflict", conflict.ID),
				zap.String("strategy", strategy),
			)
			continue
		}
		resolutions = append(resolutions, *res)
	}

	report := AssembleReport(runID, req.Language, outcomes, conflicts, resolutions, synergies, cancelled, time.Since(start))

	log.Info("run complete",
		zap.Int("findings", len(report.Findings)),
		zap.Int("conflicts", len(report.Conflicts)),
		zap.Int("unresolved", len(report.Unresolved)),
		zap.Int("synergies", len(report.Synergies)),
		zap.Float64("collaborationScore", report.CollaborationScore),
		zap.Bool("degraded", report.Degraded),
		zap.Bool("failed", report.Failed),
		zap.Bool("cancelled", report.Cancelled),
	)
	return report, nil
}

// outlineSource builds a declaration outline when the language is supported.
// Outline failures degrade to range-only proximity checks.
func (c *Coordinator) outlineSource(ctx context.Context, req Request, log *zap.Logger) *source.Outline {
	if c.outliner == nil {
		return nil
	}
	lang, ok := source.FromTag(req.Language)
	if !ok || !c.outliner.Supports(lang) {
		return nil
	}
	outline, err := c.outliner.Outline(ctx, []byte(req.Source), lang)
	if err != nil {
		log.Debug("source outline unavailable", zap.Error(err))
		return nil
	}
	return outline
}
