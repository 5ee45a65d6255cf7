package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// IndexedEntry is a row in the optional Postgres index of persisted entries.
// The git repository remains the source of truth; the index only serves
// listing queries.
type IndexedEntry struct {
	ID         int64     `json:"id"`
	Date       string    `json:"date"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	FilePath   string    `json:"file_path"`
	CommitHash string    `json:"commit_hash"`
	CreatedAt  time.Time `json:"created_at"`
}

// EntryIndexRepo handles Postgres operations for the entry index.
type EntryIndexRepo struct {
	pool *pgxpool.Pool
}

// NewEntryIndexRepo creates a new EntryIndexRepo.
func NewEntryIndexRepo(pool *pgxpool.Pool) *EntryIndexRepo {
	return &EntryIndexRepo{pool: pool}
}

// EnsureSchema creates the index table if it does not exist.
func (r *EntryIndexRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS log_entries (
			id          BIGSERIAL PRIMARY KEY,
			date        DATE NOT NULL,
			title       TEXT NOT NULL,
			slug        TEXT NOT NULL,
			file_path   TEXT NOT NULL,
			commit_hash TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure log_entries schema: %w", err)
	}
	return nil
}

// Insert records a persisted entry.
func (r *EntryIndexRepo) Insert(ctx context.Context, e IndexedEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO log_entries (date, title, slug, file_path, commit_hash)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.Date, e.Title, e.Slug, e.FilePath, e.CommitHash)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// ListRecent returns the most recently persisted entries.
func (r *EntryIndexRepo) ListRecent(ctx context.Context, limit int) ([]IndexedEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, date::text, title, slug, file_path, commit_hash, created_at
		 FROM log_entries ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	defer rows.Close()

	var items []IndexedEntry
	for rows.Next() {
		var e IndexedEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Title, &e.Slug, &e.FilePath, &e.CommitHash, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
