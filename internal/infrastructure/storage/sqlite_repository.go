// Package storage keeps a per-run audit trail of emitted digest entries
// in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"t1ddigest/internal/domain"
	"t1ddigest/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS digest_entries (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    badge       TEXT NOT NULL,
    priority    TEXT NOT NULL,
    source_meta TEXT NOT NULL,
    link        TEXT NOT NULL,
    first_seen  TIMESTAMP NOT NULL,
    last_run    TIMESTAMP NOT NULL
)`

// SQLiteRepository persists emitted digest entries into SQLite.
type SQLiteRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.HistoryRepository = (*SQLiteRepository)(nil)

// OpenSQLiteRepository opens (and creates, if needed) the database file
// and ensures the schema exists.
func OpenSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return NewSQLiteRepository(db), nil
}

// NewSQLiteRepository wires an existing sql.DB.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// AlreadyStored returns a map with IDs that already exist in storage.
func (r *SQLiteRepository) AlreadyStored(ctx context.Context, ids []string) (map[string]bool, error) {
	if r.db == nil || len(ids) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := r.builder.
		Select("id").
		From("digest_entries").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stored query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stored: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveEntry upserts the emitted digest entry snapshot.
func (r *SQLiteRepository) SaveEntry(ctx context.Context, runAt time.Time, entry domain.DigestEntry) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("digest_entries").
		Columns("id", "title", "badge", "priority", "source_meta", "link", "first_seen", "last_run").
		Values(entry.ID, entry.Title, string(entry.Badge), string(entry.Meta.Priority), entry.Meta.Phase, entry.Link, runAt, runAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
            title = excluded.title,
            badge = excluded.badge,
            priority = excluded.priority,
            source_meta = excluded.source_meta,
            last_run = excluded.last_run`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}
