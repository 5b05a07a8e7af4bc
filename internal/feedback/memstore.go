package feedback

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dusk-indust/crosscheck/internal/review"
)

// Compile-time check that MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

type statsKey struct {
	kind     review.ConflictKind
	strategy string
}

// MemStore is an in-memory Store for tests and runs without a persistent
// feedback database.
type MemStore struct {
	mu      sync.Mutex
	stats   map[statsKey]*StrategyStats
	entries []Entry
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		stats: make(map[statsKey]*StrategyStats),
	}
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }

// InitSchema is a no-op for the in-memory store.
func (s *MemStore) InitSchema(_ context.Context) error { return nil }

// RecordUse increments the use count for a strategy under a conflict kind.
func (s *MemStore) RecordUse(_ context.Context, kind review.ConflictKind, strategy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statsFor(kind, strategy).Uses++
	return nil
}

// RecordFeedback stores the entry and updates the strategy score.
func (s *MemStore) RecordFeedback(_ context.Context, entry Entry) error {
	if !entry.Outcome.Valid() {
		return fmt.Errorf("feedback: unknown outcome %q", entry.Outcome)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.entries = append(s.entries, entry)

	st := s.statsFor(entry.ConflictKind, entry.Strategy)
	st.Feedbacks++
	if entry.Outcome == OutcomeAccepted {
		st.Accepted++
	}
	st.Score = UpdateScore(st.Score, entry.Outcome)
	return nil
}

// Stats returns stats for one conflict kind, sorted by strategy name.
func (s *MemStore) Stats(_ context.Context, kind review.ConflictKind) ([]StrategyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []StrategyStats
	for k, st := range s.stats {
		if k.kind == kind {
			out = append(out, *st)
		}
	}
	sortStats(out)
	return out, nil
}

// AllStats returns stats across all kinds, sorted by kind then strategy.
func (s *MemStore) AllStats(_ context.Context) ([]StrategyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StrategyStats, 0, len(s.stats))
	for _, st := range s.stats {
		out = append(out, *st)
	}
	sortStats(out)
	return out, nil
}

// Entries returns stored entries, newest first.
func (s *MemStore) Entries(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// statsFor returns the stats row for (kind, strategy), creating it at the
// initial score on first sight. Callers hold the lock.
func (s *MemStore) statsFor(kind review.ConflictKind, strategy string) *StrategyStats {
	key := statsKey{kind: kind, strategy: strategy}
	st, ok := s.stats[key]
	if !ok {
		st = &StrategyStats{
			Kind:     kind,
			Strategy: strategy,
			Score:    InitialScore,
		}
		s.stats[key] = st
	}
	return st
}

func sortStats(stats []StrategyStats) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Kind != stats[j].Kind {
			return stats[i].Kind < stats[j].Kind
		}
		return stats[i].Strategy < stats[j].Strategy
	})
}
