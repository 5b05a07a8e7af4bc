// Package insights summarizes accumulated resolution feedback so developers
// can see which strategies are earning trust and which are wasting it.
package insights

import (
	"context"
	"fmt"
	"sort"

	"github.com/dusk-indust/crosscheck/internal/feedback"
	"github.com/dusk-indust/crosscheck/internal/review"
)

// Thresholds for the suggestion rules. A strategy needs minFeedback data
// points before its score is treated as signal rather than noise.
const (
	minFeedback    = 3
	strongScore    = 0.7
	weakScore      = 0.3
	lowUptakeRatio = 0.25
)

// StrategyInsight is one strategy's track record for one conflict kind.
type StrategyInsight struct {
	Kind           review.ConflictKind `json:"kind"`
	Strategy       string              `json:"strategy"`
	Uses           int                 `json:"uses"`
	Feedbacks      int                 `json:"feedbacks"`
	Accepted       int                 `json:"accepted"`
	Score          float64             `json:"score"`
	AcceptanceRate float64             `json:"acceptanceRate"` // accepted / feedbacks, 0 without feedback
}

// Summary is the full insight report over the feedback store.
type Summary struct {
	Strategies    []StrategyInsight              `json:"strategies"`
	BestByKind    map[review.ConflictKind]string `json:"bestByKind"`
	Suggestions   []string                       `json:"suggestions"`
	TotalUses     int                            `json:"totalUses"`
	TotalFeedback int                            `json:"totalFeedback"`
	Recent        []feedback.Entry               `json:"recent,omitempty"`
}

// Analyze builds a Summary from everything the store has recorded.
func Analyze(ctx context.Context, store feedback.Store) (*Summary, error) {
	stats, err := store.AllStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load strategy stats: %w", err)
	}

	summary := &Summary{BestByKind: make(map[review.ConflictKind]string)}
	bestScore := make(map[review.ConflictKind]float64)

	for _, st := range stats {
		ins := StrategyInsight{
			Kind:      st.Kind,
			Strategy:  st.Strategy,
			Uses:      st.Uses,
			Feedbacks: st.Feedbacks,
			Accepted:  st.Accepted,
			Score:     st.Score,
		}
		if st.Feedbacks > 0 {
			ins.AcceptanceRate = float64(st.Accepted) / float64(st.Feedbacks)
		}
		summary.Strategies = append(summary.Strategies, ins)
		summary.TotalUses += st.Uses
		summary.TotalFeedback += st.Feedbacks

		if prev, ok := bestScore[st.Kind]; !ok || st.Score > prev {
			bestScore[st.Kind] = st.Score
			summary.BestByKind[st.Kind] = st.Strategy
		}
	}

	summary.Suggestions = suggest(summary.Strategies, summary.TotalUses, summary.TotalFeedback)

	recent, err := store.Entries(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("load recent feedback: %w", err)
	}
	summary.Recent = recent

	return summary, nil
}

// suggest derives plain-language advice from the track record. Rules fire
// only with enough data behind them.
func suggest(strategies []StrategyInsight, totalUses, totalFeedback int) []string {
	var out []string

	if totalUses == 0 {
		return []string{"no resolutions recorded yet; run a review to start collecting data"}
	}
	if totalFeedback == 0 {
		out = append(out, fmt.Sprintf(
			"%d resolutions recorded but none have feedback; record outcomes to improve strategy selection", totalUses))
		return out
	}
	if float64(totalFeedback) < lowUptakeRatio*float64(totalUses) {
		out = append(out, fmt.Sprintf(
			"only %d of %d resolutions have feedback; more outcomes would sharpen strategy selection",
			totalFeedback, totalUses))
	}

	sorted := make([]StrategyInsight, len(strategies))
	copy(sorted, strategies)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].Strategy < sorted[j].Strategy
	})

	for _, s := range sorted {
		if s.Feedbacks < minFeedback {
			continue
		}
		switch {
		case s.Score >= strongScore:
			out = append(out, fmt.Sprintf(
				"%s is working well for %s conflicts (score %.2f over %d outcomes)",
				s.Strategy, s.Kind, s.Score, s.Feedbacks))
		case s.Score <= weakScore:
			out = append(out, fmt.Sprintf(
				"%s keeps getting rejected for %s conflicts (score %.2f over %d outcomes); its alternatives will be preferred",
				s.Strategy, s.Kind, s.Score, s.Feedbacks))
		}
	}

	return out
}
