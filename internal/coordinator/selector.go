package coordinator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dusk-indust/crosscheck/internal/feedback"
	"github.com/dusk-indust/crosscheck/internal/review"
)

// Resolution strategy names.
const (
	StrategyPreferHigherSeverity = "prefer-higher-severity"
	StrategyPreferRolePriority   = "prefer-role-priority-order"
	StrategyContextDriven        = "context-driven"
	StrategyMergeWithCaveat      = "merge-with-caveat"
)

// defaultOrders fixes the candidate strategies per conflict kind, in the
// order used when no feedback history distinguishes them. merge-with-caveat
// is only ever a candidate for philosophical trade-offs; forcing a merge of
// literally incompatible edits would produce nonsense.
var defaultOrders = map[review.ConflictKind][]string{
	review.ConflictOverlapping: {
		StrategyPreferHigherSeverity,
		StrategyContextDriven,
		StrategyPreferRolePriority,
	},
	review.ConflictPhilosophical: {
		StrategyMergeWithCaveat,
		StrategyContextDriven,
		StrategyPreferRolePriority,
		StrategyPreferHigherSeverity,
	},
	review.ConflictPriority: {
		StrategyPreferHigherSeverity,
		StrategyPreferRolePriority,
		StrategyContextDriven,
	},
}

// Selector picks the resolution strategy for each conflict kind using the
// recency-weighted scores in the feedback store. Selection is deterministic:
// highest score wins, ties fall back to the fixed default order.
type Selector struct {
	store feedback.Store
	log   *zap.Logger
}

// NewSelector creates a Selector over the given store.
func NewSelector(store feedback.Store, log *zap.Logger) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{store: store, log: log}
}

// Candidates returns the candidate strategies for a conflict kind in default
// order.
func Candidates(kind review.ConflictKind) []string {
	order := defaultOrders[kind]
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Select returns the strategy to apply for the given conflict kind and
// records a provisional use against it. A store read failure falls back to
// the default order rather than failing the run.
func (s *Selector) Select(ctx context.Context, kind review.ConflictKind) (string, error) {
	order := defaultOrders[kind]
	if len(order) == 0 {
		return "", fmt.Errorf("coordinator: no strategies for conflict kind %q", kind)
	}

	scores := make(map[string]float64, len(order))
	for _, name := range order {
		scores[name] = feedback.InitialScore
	}

	stats, err := s.store.Stats(ctx, kind)
	if err != nil {
		s.log.Warn("strategy stats unavailable, using default order",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	} else {
		for _, st := range stats {
			if _, ok := scores[st.Strategy]; ok {
				scores[st.Strategy] = st.Score
			}
		}
	}

	best := order[0]
	for _, name := range order[1:] {
		if scores[name] > scores[best] {
			best = name
		}
	}

	if err := s.store.RecordUse(ctx, kind, best); err != nil {
		s.log.Warn("could not record strategy use",
			zap.String("kind", string(kind)),
			zap.String("strategy", best),
			zap.Error(err),
		)
	}

	s.log.Debug("strategy selected",
		zap.String("kind", string(kind)),
		zap.String("strategy", best),
		zap.Float64("score", scores[best]),
	)
	return best, nil
}
