package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/crosscheck/internal/a2a"
	"github.com/dusk-indust/crosscheck/internal/review"
	"github.com/dusk-indust/crosscheck/internal/roles"
)

// DefaultRoleTimeout bounds a single role's remote call.
const DefaultRoleTimeout = 2 * time.Minute

// Dispatcher fans one review request out to every requested role agent in
// parallel and collects each role's outcome. One role failing never cancels
// its siblings; the failure is recorded on that role's slot and the run
// proceeds with whatever subset succeeded.
type Dispatcher struct {
	client      a2a.Client
	roleTimeout time.Duration
	onProgress  func(ProgressEvent)
	log         *zap.Logger
}

// NewDispatcher creates a Dispatcher. onProgress may be nil; roleTimeout <= 0
// falls back to DefaultRoleTimeout.
func NewDispatcher(client a2a.Client, roleTimeout time.Duration, onProgress func(ProgressEvent), log *zap.Logger) *Dispatcher {
	if roleTimeout <= 0 {
		roleTimeout = DefaultRoleTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		client:      client,
		roleTimeout: roleTimeout,
		onProgress:  onProgress,
		log:         log,
	}
}

// Run dispatches the request to every role in requested order. The returned
// slice has one outcome per requested role, in request order regardless of
// completion order. Cancelling ctx settles the remaining slots as failures;
// Run itself never returns an error.
func (d *Dispatcher) Run(ctx context.Context, requested []roles.Name, endpoints map[roles.Name]string, req roles.ReviewRequest) []review.RoleOutcome {
	outcomes := make([]review.RoleOutcome, len(requested))

	var g errgroup.Group
	for i, role := range requested {
		d.emit(ProgressEvent{Role: string(role), Status: ProgressPending})

		g.Go(func() error {
			outcomes[i] = d.dispatchOne(ctx, role, endpoints[role], req)
			return nil
		})
	}
	g.Wait()

	return outcomes
}

// dispatchOne runs a single role call under the per-role timeout and settles
// it into an outcome.
func (d *Dispatcher) dispatchOne(ctx context.Context, role roles.Name, endpoint string, req roles.ReviewRequest) review.RoleOutcome {
	start := time.Now()

	fail := func(kind review.FailureKind, msg string) review.RoleOutcome {
		d.log.Warn("role dispatch failed",
			zap.String("role", string(role)),
			zap.String("kind", string(kind)),
			zap.String("reason", msg),
		)
		d.emit(ProgressEvent{Role: string(role), Status: ProgressFailed, Message: msg})
		return review.RoleOutcome{
			Role:    string(role),
			Failure: &review.RoleFailure{Role: string(role), Kind: kind, Message: msg},
			Elapsed: time.Since(start),
		}
	}

	if endpoint == "" {
		return fail(review.FailureTransport, "no endpoint configured")
	}

	d.emit(ProgressEvent{Role: string(role), Status: ProgressWorking})

	msg, err := roles.NewReviewMessage(a2a.NewTaskID(), req)
	if err != nil {
		return fail(review.FailureTransport, err.Error())
	}

	rctx, cancel := context.WithTimeout(ctx, d.roleTimeout)
	defer cancel()

	task, err := d.client.SendMessage(rctx, endpoint, a2a.SendMessageRequest{
		Message:       msg,
		Configuration: &a2a.SendMessageConfig{Blocking: true},
	})
	if err != nil {
		return fail(classifyFailure(err), err.Error())
	}

	if task.Status.State != a2a.TaskStateCompleted {
		reason := fmt.Sprintf("task settled in state %q", task.Status.State)
		if task.Status.Message != nil && len(task.Status.Message.Parts) > 0 {
			reason = task.Status.Message.Parts[0].Text
		}
		kind := review.FailureTransport
		if roles.IsSchemaFailure(reason) {
			kind = review.FailureSchema
		}
		return fail(kind, reason)
	}

	findings, err := roles.ExtractFindings(task)
	if err != nil {
		return fail(review.FailureSchema, err.Error())
	}

	d.log.Debug("role dispatch complete",
		zap.String("role", string(role)),
		zap.Int("findings", len(findings)),
		zap.Duration("elapsed", time.Since(start)),
	)
	d.emit(ProgressEvent{Role: string(role), Status: ProgressComplete, Findings: len(findings)})

	return review.RoleOutcome{
		Role:     string(role),
		Findings: findings,
		Elapsed:  time.Since(start),
	}
}

// classifyFailure maps a dispatch error onto the role failure taxonomy.
func classifyFailure(err error) review.FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return review.FailureTimeout
	}

	var rpcErr *a2a.RPCError
	if errors.As(err, &rpcErr) && roles.IsSchemaFailure(rpcErr.Message) {
		return review.FailureSchema
	}
	return review.FailureTransport
}

func (d *Dispatcher) emit(ev ProgressEvent) {
	if d.onProgress != nil {
		d.onProgress(ev)
	}
}
