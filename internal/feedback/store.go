// Package feedback persists developer reactions to resolved conflicts and
// the per-strategy effectiveness scores derived from them. The coordinator
// reads these scores back when it next has to pick a resolution strategy,
// which is how the system learns which strategies a team actually accepts.
package feedback

import (
	"context"
	"io"
	"time"

	"github.com/dusk-indust/crosscheck/internal/review"
)

// Outcome is a developer's reaction to a resolution.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	OutcomeEdited   Outcome = "edited"
)

// Valid reports whether the outcome is one of the three known reactions.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeAccepted, OutcomeRejected, OutcomeEdited:
		return true
	}
	return false
}

// Value maps an outcome onto the [0,1] reward scale used for score updates.
// An edit means the resolution pointed the right way but got details wrong.
func (o Outcome) Value() float64 {
	switch o {
	case OutcomeAccepted:
		return 1
	case OutcomeEdited:
		return 0.5
	default:
		return 0
	}
}

// Score update constants.
const (
	// ScoreAlpha weights recent feedback over history.
	ScoreAlpha = 0.3

	// InitialScore is the score a strategy starts with before any feedback.
	InitialScore = 0.5

	// ScoreFloor keeps every strategy selectable; a run of rejections must
	// not exclude a strategy forever.
	ScoreFloor = 0.05
)

// UpdateScore folds one outcome into a strategy score with recency weighting.
func UpdateScore(old float64, o Outcome) float64 {
	score := (1-ScoreAlpha)*old + ScoreAlpha*o.Value()
	if score < ScoreFloor {
		return ScoreFloor
	}
	if score > 1 {
		return 1
	}
	return score
}

// Entry is one recorded piece of feedback on a resolution.
type Entry struct {
	ID           string              `json:"id"`
	RunID        string              `json:"runId"`
	ConflictID   string              `json:"conflictId"`
	ConflictKind review.ConflictKind `json:"conflictKind"`
	Strategy     string              `json:"strategy"`
	Outcome      Outcome             `json:"outcome"`
	Note         string              `json:"note,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// StrategyStats is the accumulated record for one (conflict kind, strategy)
// pair.
type StrategyStats struct {
	Kind      review.ConflictKind `json:"kind"`
	Strategy  string              `json:"strategy"`
	Uses      int                 `json:"uses"`
	Feedbacks int                 `json:"feedbacks"`
	Accepted  int                 `json:"accepted"`
	Score     float64             `json:"score"`
}

// Store is the interface for the feedback backend.
// Implementations: KuzuStore (persistent), MemStore (testing and ephemeral runs).
type Store interface {
	io.Closer

	// InitSchema prepares the backend. Called once before any writes.
	InitSchema(ctx context.Context) error

	// RecordUse notes that a strategy was applied to a conflict of the given
	// kind. A use is provisional until feedback arrives; feedback updates the
	// score without counting another use.
	RecordUse(ctx context.Context, kind review.ConflictKind, strategy string) error

	// RecordFeedback stores an entry and folds its outcome into the strategy
	// score for the entry's conflict kind.
	RecordFeedback(ctx context.Context, entry Entry) error

	// Stats returns the stats for all strategies seen for the given kind.
	Stats(ctx context.Context, kind review.ConflictKind) ([]StrategyStats, error)

	// AllStats returns stats across all conflict kinds.
	AllStats(ctx context.Context) ([]StrategyStats, error)

	// Entries returns the most recent entries, newest first. limit <= 0
	// returns everything.
	Entries(ctx context.Context, limit int) ([]Entry, error)
}
