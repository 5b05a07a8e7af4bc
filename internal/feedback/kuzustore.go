//go:build cgo

package feedback

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	kuzu "github.com/kuzudb/go-kuzu"

	"github.com/dusk-indust/crosscheck/internal/review"
)

// KuzuStore implements Store on a KuzuDB database so strategy scores survive
// across runs. It requires CGO because the go-kuzu driver wraps KuzuDB's C
// library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection

	// mu serializes the read-modify-write on strategy rows; two
	// concurrent first-sight updates would otherwise both take the
	// insert path and collide on the primary key.
	mu sync.Mutex
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore at the given directory path. KuzuDB
// creates the leaf directory itself for new databases.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("feedback: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("feedback: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("feedback: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ddlStatements defines the Cypher DDL executed by InitSchema.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Strategy(
		id STRING,
		kind STRING,
		strategy STRING,
		uses INT64,
		feedbacks INT64,
		accepted INT64,
		score DOUBLE,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Feedback(
		id STRING,
		run_id STRING,
		conflict_id STRING,
		kind STRING,
		strategy STRING,
		outcome STRING,
		note STRING,
		created_at STRING,
		PRIMARY KEY(id)
	)`,
}

// InitSchema creates the node tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("feedback: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// RecordUse increments the use count for a strategy, creating the row at the
// initial score on first sight.
func (s *KuzuStore) RecordUse(ctx context.Context, kind review.ConflictKind, strategy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.getStrategy(kind, strategy)
	if err != nil {
		return err
	}
	if st == nil {
		return s.insertStrategy(StrategyStats{
			Kind:     kind,
			Strategy: strategy,
			Uses:     1,
			Score:    InitialScore,
		})
	}
	st.Uses++
	return s.updateStrategy(*st)
}

// RecordFeedback stores the entry and updates the strategy score.
func (s *KuzuStore) RecordFeedback(ctx context.Context, entry Entry) error {
	if !entry.Outcome.Valid() {
		return fmt.Errorf("feedback: unknown outcome %q", entry.Outcome)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.exec(
		`CREATE (f:Feedback {
			id: $id,
			run_id: $run,
			conflict_id: $conflict,
			kind: $kind,
			strategy: $strategy,
			outcome: $outcome,
			note: $note,
			created_at: $created
		})`,
		map[string]any{
			"id":       entry.ID,
			"run":      entry.RunID,
			"conflict": entry.ConflictID,
			"kind":     string(entry.ConflictKind),
			"strategy": entry.Strategy,
			"outcome":  string(entry.Outcome),
			"note":     entry.Note,
			"created":  entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	); err != nil {
		return err
	}

	st, err := s.getStrategy(entry.ConflictKind, entry.Strategy)
	if err != nil {
		return err
	}
	if st == nil {
		st = &StrategyStats{
			Kind:     entry.ConflictKind,
			Strategy: entry.Strategy,
			Score:    InitialScore,
		}
		if err := s.insertStrategy(*st); err != nil {
			return err
		}
	}
	st.Feedbacks++
	if entry.Outcome == OutcomeAccepted {
		st.Accepted++
	}
	st.Score = UpdateScore(st.Score, entry.Outcome)
	return s.updateStrategy(*st)
}

// Stats returns the stats rows for one conflict kind.
func (s *KuzuStore) Stats(_ context.Context, kind review.ConflictKind) ([]StrategyStats, error) {
	rows, err := s.query(
		`MATCH (s:Strategy {kind: $kind})
		 RETURN s.kind, s.strategy, s.uses, s.feedbacks, s.accepted, s.score`,
		map[string]any{"kind": string(kind)},
	)
	if err != nil {
		return nil, err
	}
	return rowsToStats(rows), nil
}

// AllStats returns stats rows across all conflict kinds.
func (s *KuzuStore) AllStats(_ context.Context) ([]StrategyStats, error) {
	rows, err := s.query(
		`MATCH (s:Strategy)
		 RETURN s.kind, s.strategy, s.uses, s.feedbacks, s.accepted, s.score`,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return rowsToStats(rows), nil
}

// Entries returns stored entries, newest first.
func (s *KuzuStore) Entries(_ context.Context, limit int) ([]Entry, error) {
	cypher := `MATCH (f:Feedback)
		RETURN f.id, f.run_id, f.conflict_id, f.kind, f.strategy, f.outcome, f.note, f.created_at
		ORDER BY f.created_at DESC`
	params := map[string]any{}
	if limit > 0 {
		cypher += " LIMIT $lim"
		params["lim"] = int64(limit)
	}
	rows, err := s.query(cypher, params)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		created, _ := time.Parse(time.RFC3339Nano, toString(r[7]))
		out = append(out, Entry{
			ID:           toString(r[0]),
			RunID:        toString(r[1]),
			ConflictID:   toString(r[2]),
			ConflictKind: review.ConflictKind(toString(r[3])),
			Strategy:     toString(r[4]),
			Outcome:      Outcome(toString(r[5])),
			Note:         toString(r[6]),
			CreatedAt:    created,
		})
	}
	return out, nil
}

// ---------- Internal helpers ----------

func (s *KuzuStore) getStrategy(kind review.ConflictKind, strategy string) (*StrategyStats, error) {
	rows, err := s.query(
		`MATCH (s:Strategy {id: $id})
		 RETURN s.kind, s.strategy, s.uses, s.feedbacks, s.accepted, s.score`,
		map[string]any{"id": strategyID(kind, strategy)},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	stats := rowsToStats(rows)
	return &stats[0], nil
}

func (s *KuzuStore) insertStrategy(st StrategyStats) error {
	return s.exec(
		`CREATE (s:Strategy {
			id: $id,
			kind: $kind,
			strategy: $strategy,
			uses: $uses,
			feedbacks: $feedbacks,
			accepted: $accepted,
			score: $score
		})`,
		strategyParams(st),
	)
}

func (s *KuzuStore) updateStrategy(st StrategyStats) error {
	// KuzuDB rejects bound parameters that the statement does not
	// reference, so drop the keys the SET clause never uses.
	params := strategyParams(st)
	delete(params, "kind")
	delete(params, "strategy")
	return s.exec(
		`MATCH (s:Strategy {id: $id})
		 SET s.uses = $uses, s.feedbacks = $feedbacks, s.accepted = $accepted, s.score = $score`,
		params,
	)
}

func strategyParams(st StrategyStats) map[string]any {
	return map[string]any{
		"id":        strategyID(st.Kind, st.Strategy),
		"kind":      string(st.Kind),
		"strategy":  st.Strategy,
		"uses":      int64(st.Uses),
		"feedbacks": int64(st.Feedbacks),
		"accepted":  int64(st.Accepted),
		"score":     st.Score,
	}
}

// strategyID produces a deterministic identifier: "kind|strategy".
func strategyID(kind review.ConflictKind, strategy string) string {
	return string(kind) + "|" + strategy
}

func rowsToStats(rows [][]any) []StrategyStats {
	out := make([]StrategyStats, 0, len(rows))
	for _, r := range rows {
		out = append(out, StrategyStats{
			Kind:      review.ConflictKind(toString(r[0])),
			Strategy:  toString(r[1]),
			Uses:      toInt(r[2]),
			Feedbacks: toInt(r[3]),
			Accepted:  toInt(r[4]),
			Score:     toFloat64(r[5]),
		})
	}
	sortStats(out)
	return out
}

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("feedback: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("feedback: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("feedback: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("feedback: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("feedback: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("feedback: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values; these coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
