// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/hantui/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session and result data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lesson TEXT NOT NULL,
			mode TEXT NOT NULL,
			items INTEGER NOT NULL,
			rounds INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			failed INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			item_key TEXT NOT NULL,
			score INTEGER NOT NULL,
			mode TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_results_session ON results(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_results_item_key ON results(item_key);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertResult stores one graded outcome. This is the result-sink boundary:
// the engine fires it once per grading event and does not retry.
func (s *Store) InsertResult(ctx context.Context, res model.Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (session_id, recorded_at, item_key, score, mode)
		 VALUES (?, ?, ?, ?, ?)`,
		res.SessionID,
		res.RecordedAt.Format(time.RFC3339Nano),
		res.ItemKey,
		res.Score,
		res.Mode,
	)
	return err
}

// InsertSession stores a completed session summary.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at, lesson, mode, items, rounds, passed, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Lesson,
		rec.Mode,
		rec.Items,
		rec.Rounds,
		rec.Passed,
		rec.Failed,
	)
	return err
}

// ListSessions returns session aggregates filtered by stats config.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lesson != "" {
		clauses = append(clauses, "lesson = ?")
		args = append(args, cfg.Lesson)
	}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, mode, passed, failed, rounds
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Mode, &agg.Passed, &agg.Failed, &agg.Rounds); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetWeakItems aggregates per-item results over the most recent sessions.
func (s *Store) GetWeakItems(ctx context.Context, window int, lesson string) ([]model.ItemAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR lesson = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT r.item_key, COUNT(*) AS results,
		SUM(CASE WHEN r.score >= 100 THEN 1 ELSE 0 END) AS passed,
		SUM(CASE WHEN r.score < 100 THEN 1 ELSE 0 END) AS failed,
		SUM(r.score) AS score_sum
	FROM results r
	JOIN recent_sessions rs ON rs.id = r.session_id
	GROUP BY r.item_key`

	rows, err := s.db.QueryContext(ctx, query, lesson, lesson, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ItemAggregate
	for rows.Next() {
		var agg model.ItemAggregate
		if err := rows.Scan(&agg.ItemKey, &agg.Results, &agg.Passed, &agg.Failed, &agg.ScoreSum); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListItemAggregatesForSessions aggregates per-item results across sessions.
func (s *Store) ListItemAggregatesForSessions(ctx context.Context, sessionIDs []string) ([]model.ItemAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT item_key, COUNT(*) AS results,
		SUM(CASE WHEN score >= 100 THEN 1 ELSE 0 END) AS passed,
		SUM(CASE WHEN score < 100 THEN 1 ELSE 0 END) AS failed,
		SUM(score) AS score_sum
		FROM results
		WHERE session_id IN (%s)
		GROUP BY item_key`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ItemAggregate
	for rows.Next() {
		var agg model.ItemAggregate
		if err := rows.Scan(&agg.ItemKey, &agg.Results, &agg.Passed, &agg.Failed, &agg.ScoreSum); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
