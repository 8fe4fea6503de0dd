// Package store persists preview hits in SQLite and aggregates them for the
// admin dashboard. IP addresses never reach this package unhashed.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Hit is one request answered by the SEO handler.
type Hit struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Outcome   string    `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

// PostStat counts previews served for one slug.
type PostStat struct {
	Slug     string    `json:"slug"`
	Previews int64     `json:"previews"`
	LastSeen time.Time `json:"last_seen"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalPreviews    int64      `json:"total_previews"`
	UniqueVisitors   int64      `json:"unique_visitors"`
	Injected         int64      `json:"injected"`
	Failures         int64      `json:"failures"`
	PreviewsToday    int64      `json:"previews_today"`
	PreviewsThisWeek int64      `json:"previews_this_week"`
	TopPosts         []PostStat `json:"top_posts"`
	RecentHits       []Hit      `json:"recent_hits"`
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS previews (
	id TEXT PRIMARY KEY,
	slug TEXT NOT NULL DEFAULT '',
	hashed_ip TEXT NOT NULL,  -- hashed, never the raw address
	user_agent TEXT,
	outcome TEXT NOT NULL,
	ts INTEGER NOT NULL       -- unix milliseconds
);
CREATE INDEX IF NOT EXISTS previews_ts ON previews (ts);
CREATE INDEX IF NOT EXISTS previews_slug ON previews (slug);
`

// Open opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one writer; also keeps :memory: databases on a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a hit, assigning an ID and timestamp when missing.
func (s *Store) Record(ctx context.Context, h Hit) (Hit, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO previews (id, slug, hashed_ip, user_agent, outcome, ts)
		VALUES (?, ?, ?, ?, ?, ?)
	`, h.ID, h.Slug, h.HashedIP, h.UserAgent, h.Outcome, h.Timestamp.UnixMilli())
	if err != nil {
		return Hit{}, fmt.Errorf("record hit: %w", err)
	}
	return h, nil
}

// Cleanup deletes hits older than before and reports how many were removed.
func (s *Store) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM previews WHERE ts < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("cleanup: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Stats aggregates hits as seen at now.
func (s *Store) Stats(ctx context.Context, now time.Time, injected, failed string) (*Stats, error) {
	stats := &Stats{}

	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalPreviews, `SELECT COUNT(*) FROM previews`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM previews`, nil},
		{&stats.Injected, `SELECT COUNT(*) FROM previews WHERE outcome = ?`, []any{injected}},
		{&stats.Failures, `SELECT COUNT(*) FROM previews WHERE outcome = ?`, []any{failed}},
		{&stats.PreviewsToday, `SELECT COUNT(*) FROM previews WHERE ts >= ?`, []any{startOfDay.UnixMilli()}},
		{&stats.PreviewsThisWeek, `SELECT COUNT(*) FROM previews WHERE ts >= ?`, []any{weekAgo.UnixMilli()}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	top, err := s.topPosts(ctx, injected, 10)
	if err != nil {
		return nil, err
	}
	stats.TopPosts = top

	recent, err := s.Recent(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentHits = recent

	return stats, nil
}

func (s *Store) topPosts(ctx context.Context, outcome string, limit int) ([]PostStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, COUNT(*) AS n, MAX(ts)
		FROM previews
		WHERE outcome = ? AND slug != ''
		GROUP BY slug
		ORDER BY n DESC, MAX(ts) DESC
		LIMIT ?
	`, outcome, limit)
	if err != nil {
		return nil, fmt.Errorf("top posts: %w", err)
	}
	defer rows.Close()

	var out []PostStat
	for rows.Next() {
		var (
			p    PostStat
			last int64
		)
		if err := rows.Scan(&p.Slug, &p.Previews, &last); err != nil {
			return nil, fmt.Errorf("scan top post: %w", err)
		}
		p.LastSeen = time.UnixMilli(last)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Recent returns the latest hits, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Hit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, hashed_ip, COALESCE(user_agent, ''), outcome, ts
		FROM previews
		ORDER BY ts DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent hits: %w", err)
	}
	defer rows.Close()

	var out []Hit
	for rows.Next() {
		var (
			h  Hit
			ts int64
		)
		if err := rows.Scan(&h.ID, &h.Slug, &h.HashedIP, &h.UserAgent, &h.Outcome, &ts); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		h.Timestamp = time.UnixMilli(ts)
		out = append(out, h)
	}
	return out, rows.Err()
}
