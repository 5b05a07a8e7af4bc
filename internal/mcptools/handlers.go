package mcptools

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/crosscheck/internal/coordinator"
	"github.com/dusk-indust/crosscheck/internal/feedback"
	"github.com/dusk-indust/crosscheck/internal/insights"
	"github.com/dusk-indust/crosscheck/internal/review"
	"github.com/dusk-indust/crosscheck/internal/roles"
)

// maxRetainedReports bounds how many past runs record_feedback can refer to.
const maxRetainedReports = 32

// ReviewService holds the coordinator, the feedback store, and the role
// endpoints used by the MCP tool handlers. It retains recent reports so that
// record_feedback can resolve a conflict ID back to the strategy that
// settled it.
type ReviewService struct {
	coord     *coordinator.Coordinator
	store     feedback.Store
	endpoints map[roles.Name]string

	mu      sync.Mutex
	reports map[string]*review.Report
	order   []string
}

// NewReviewService creates a ReviewService over a coordinator, a feedback
// store, and the role agent endpoints.
func NewReviewService(coord *coordinator.Coordinator, store feedback.Store, endpoints map[roles.Name]string) *ReviewService {
	return &ReviewService{
		coord:     coord,
		store:     store,
		endpoints: endpoints,
		reports:   make(map[string]*review.Report),
	}
}

func (s *ReviewService) retain(report *review.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[report.RunID]; !ok {
		s.order = append(s.order, report.RunID)
	}
	s.reports[report.RunID] = report
	for len(s.order) > maxRetainedReports {
		delete(s.reports, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *ReviewService) report(runID string) (*review.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[runID]
	return r, ok
}

// ReviewCode runs a full multi-role review over the given source.
func (s *ReviewService) ReviewCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReviewCodeInput,
) (*mcp.CallToolResult, ReviewCodeOutput, error) {
	if input.Source == "" {
		return nil, ReviewCodeOutput{}, fmt.Errorf("source is required")
	}

	var requested []roles.Name
	for _, r := range input.Roles {
		name := roles.Name(r)
		if _, ok := roles.Lookup(name); !ok {
			return nil, ReviewCodeOutput{}, fmt.Errorf("unknown role: %s", r)
		}
		requested = append(requested, name)
	}

	pctx := review.DefaultProjectContext()
	if input.Priority != "" {
		pctx.Priority = review.Priority(input.Priority)
		if !pctx.Priority.Valid() {
			return nil, ReviewCodeOutput{}, fmt.Errorf("unknown priority: %s", input.Priority)
		}
	}

	report, err := s.coord.Run(ctx, coordinator.Request{
		Source:    input.Source,
		Language:  input.Language,
		Roles:     requested,
		Endpoints: s.endpoints,
		Context:   pctx,
	})
	if err != nil {
		return nil, ReviewCodeOutput{}, fmt.Errorf("review: %w", err)
	}

	s.retain(report)
	return nil, ReviewCodeOutput{Report: *report}, nil
}

// RecordFeedback stores the developer's reaction to one resolved conflict.
func (s *ReviewService) RecordFeedback(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecordFeedbackInput,
) (*mcp.CallToolResult, RecordFeedbackOutput, error) {
	outcome := feedback.Outcome(input.Outcome)
	if !outcome.Valid() {
		return nil, RecordFeedbackOutput{}, fmt.Errorf("unknown outcome: %q (want accepted, edited, or rejected)", input.Outcome)
	}

	report, ok := s.report(input.RunID)
	if !ok {
		return nil, RecordFeedbackOutput{}, fmt.Errorf("unknown run: %s", input.RunID)
	}

	var strategy string
	for _, res := range report.Resolutions {
		if res.ConflictID == input.ConflictID {
			strategy = res.Strategy
			break
		}
	}
	if strategy == "" {
		return nil, RecordFeedbackOutput{}, fmt.Errorf("run %s has no resolution for conflict %s", input.RunID, input.ConflictID)
	}

	var kind review.ConflictKind
	for _, c := range report.Conflicts {
		if c.ID == input.ConflictID {
			kind = c.Kind
			break
		}
	}

	err := s.store.RecordFeedback(ctx, feedback.Entry{
		RunID:        input.RunID,
		ConflictID:   input.ConflictID,
		ConflictKind: kind,
		Strategy:     strategy,
		Outcome:      outcome,
		Note:         input.Note,
	})
	if err != nil {
		return nil, RecordFeedbackOutput{}, fmt.Errorf("record feedback: %w", err)
	}

	return nil, RecordFeedbackOutput{Strategy: strategy, Kind: kind}, nil
}

// StrategyInsights summarizes the accumulated feedback record.
func (s *ReviewService) StrategyInsights(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StrategyInsightsInput,
) (*mcp.CallToolResult, StrategyInsightsOutput, error) {
	summary, err := insights.Analyze(ctx, s.store)
	if err != nil {
		return nil, StrategyInsightsOutput{}, fmt.Errorf("analyze feedback: %w", err)
	}
	return nil, StrategyInsightsOutput{Summary: *summary}, nil
}
