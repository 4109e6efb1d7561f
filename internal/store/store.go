// Package store keeps an optional SQLite log of completed translations. The
// log is for review only; lookups go through the in-memory memo.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/tlumach/internal"
)

// ErrNotFound is returned by Delete for an unknown ID.
var ErrNotFound = errors.New("history entry not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		input TEXT NOT NULL DEFAULT 'text',
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL DEFAULT '',
		target_lang TEXT NOT NULL,
		target_name TEXT NOT NULL,
		engine TEXT NOT NULL,
		route TEXT NOT NULL,
		service TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		from_cache BOOLEAN DEFAULT FALSE,
		latency_ms INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
	CREATE INDEX IF NOT EXISTS idx_history_target ON history(target_lang);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save appends rec to the log, filling in ID and Timestamp when unset, and
// returns the stored ID.
func (s *Store) Save(ctx context.Context, rec internal.HistoryRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	if rec.Input == "" {
		rec.Input = "text"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, input, source_text, source_lang, target_lang, target_name, engine, route, service, translated_text, from_cache, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Input, normalizeText(rec.SourceText), rec.SourceLang, rec.TargetLang, rec.TargetName,
		rec.Engine, rec.Route, rec.Service, rec.TranslatedText, rec.FromCache, rec.Latency.Milliseconds(), rec.Timestamp.UTC())
	if err != nil {
		return "", fmt.Errorf("failed to save history: %w", err)
	}
	return rec.ID, nil
}

// List returns up to limit entries, newest first. limit ≤ 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]internal.HistoryRecord, error) {
	query := `SELECT id, input, source_text, source_lang, target_lang, target_name, engine, route, service, translated_text, from_cache, latency_ms, created_at
		FROM history ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []internal.HistoryRecord
	for rows.Next() {
		var r internal.HistoryRecord
		var latencyMs int64
		if err := rows.Scan(&r.ID, &r.Input, &r.SourceText, &r.SourceLang, &r.TargetLang, &r.TargetName,
			&r.Engine, &r.Route, &r.Service, &r.TranslatedText, &r.FromCache, &latencyMs, &r.Timestamp); err != nil {
			return nil, err
		}
		r.Latency = time.Duration(latencyMs) * time.Millisecond
		results = append(results, r)
	}

	return results, rows.Err()
}

// Stats summarises the history log.
type Stats struct {
	TotalEntries  int
	CachedEntries int
	AvgLatency    time.Duration
	ByRoute       map[string]int
	ByTarget      map[string]int
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByRoute:  make(map[string]int),
		ByTarget: make(map[string]int),
	}

	var avgMs float64
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN from_cache THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(CASE WHEN from_cache THEN NULL ELSE latency_ms END), 0)
		FROM history`).Scan(&stats.TotalEntries, &stats.CachedEntries, &avgMs)
	if err != nil {
		return nil, err
	}
	stats.AvgLatency = time.Duration(avgMs * float64(time.Millisecond))

	if err := s.countBy(ctx, "route", stats.ByRoute); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, "target_name", stats.ByTarget); err != nil {
		return nil, err
	}
	return stats, nil
}

// countBy fills into with row counts grouped by column, which must be one of
// the fixed column names above.
func (s *Store) countBy(ctx context.Context, column string, into map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT `+column+`, COUNT(*) FROM history GROUP BY `+column)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}

// Delete removes the entry with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
