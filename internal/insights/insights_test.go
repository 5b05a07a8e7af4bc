package insights

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/crosscheck/internal/feedback"
	"github.com/dusk-indust/crosscheck/internal/review"
)

func TestAnalyzeEmptyStore(t *testing.T) {
	sum, err := Analyze(context.Background(), feedback.NewMemStore())
	require.NoError(t, err)

	assert.Zero(t, sum.TotalUses)
	assert.Zero(t, sum.TotalFeedback)
	require.Len(t, sum.Suggestions, 1)
	assert.Contains(t, sum.Suggestions[0], "no resolutions recorded yet")
}

func TestAnalyzeUsesWithoutFeedback(t *testing.T) {
	store := feedback.NewMemStore()
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, store.RecordUse(ctx, review.ConflictOverlapping, "prefer-higher-severity"))
	}

	sum, err := Analyze(ctx, store)
	require.NoError(t, err)

	assert.Equal(t, 4, sum.TotalUses)
	assert.Zero(t, sum.TotalFeedback)
	require.NotEmpty(t, sum.Suggestions)
	assert.Contains(t, sum.Suggestions[0], "none have feedback")
}

func TestAnalyzeScoresAndBestByKind(t *testing.T) {
	store := feedback.NewMemStore()
	ctx := context.Background()

	record := func(strategy string, outcome feedback.Outcome, n int) {
		for i := 0; i < n; i++ {
			require.NoError(t, store.RecordUse(ctx, review.ConflictOverlapping, strategy))
			require.NoError(t, store.RecordFeedback(ctx, feedback.Entry{
				ConflictKind: review.ConflictOverlapping,
				Strategy:     strategy,
				Outcome:      outcome,
			}))
		}
	}
	record("context-driven", feedback.OutcomeAccepted, 5)
	record("prefer-higher-severity", feedback.OutcomeRejected, 5)

	sum, err := Analyze(ctx, store)
	require.NoError(t, err)

	assert.Equal(t, "context-driven", sum.BestByKind[review.ConflictOverlapping])

	byStrategy := make(map[string]StrategyInsight)
	for _, s := range sum.Strategies {
		byStrategy[s.Strategy] = s
	}
	assert.Equal(t, 1.0, byStrategy["context-driven"].AcceptanceRate)
	assert.Equal(t, 0.0, byStrategy["prefer-higher-severity"].AcceptanceRate)

	joined := strings.Join(sum.Suggestions, "\n")
	assert.Contains(t, joined, "context-driven is working well")
	assert.Contains(t, joined, "prefer-higher-severity keeps getting rejected")
}

func TestAnalyzeSmallSamplesStaySilent(t *testing.T) {
	store := feedback.NewMemStore()
	ctx := context.Background()

	// Two data points are below the signal threshold.
	for i := 0; i < 2; i++ {
		require.NoError(t, store.RecordUse(ctx, review.ConflictPriority, "prefer-role-priority"))
		require.NoError(t, store.RecordFeedback(ctx, feedback.Entry{
			ConflictKind: review.ConflictPriority,
			Strategy:     "prefer-role-priority",
			Outcome:      feedback.OutcomeRejected,
		}))
	}

	sum, err := Analyze(ctx, store)
	require.NoError(t, err)

	for _, s := range sum.Suggestions {
		assert.NotContains(t, s, "keeps getting rejected")
	}
}

func TestAnalyzeRecentEntries(t *testing.T) {
	store := feedback.NewMemStore()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		require.NoError(t, store.RecordFeedback(ctx, feedback.Entry{
			ConflictKind: review.ConflictPhilosophical,
			Strategy:     "merge-with-caveat",
			Outcome:      feedback.OutcomeEdited,
		}))
	}

	sum, err := Analyze(ctx, store)
	require.NoError(t, err)
	assert.Len(t, sum.Recent, 10, "recent entries are capped")
}
