package storage

import (
	"context"
	"database/sql"
	"fmt"

	"habitforge/internal/engine"
)

type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Append inserts log entries. The table is append-only; nothing ever
// updates or deletes rows.
func (r *ActivityRepo) Append(ctx context.Context, entries []engine.ActivityLogEntry) error {
	for _, e := range entries {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO activity_log (kind, message, at)
			VALUES (?, ?, ?)
		`, string(e.Kind), e.Message, e.At)
		if err != nil {
			return fmt.Errorf("activity insert: %w", err)
		}
	}
	return nil
}

// Recent returns up to limit entries in chronological order. The log
// grows without bound; readers only ever take a bounded window.
func (r *ActivityRepo) Recent(ctx context.Context, limit int) ([]engine.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, message, at FROM (
			SELECT id, kind, message, at
			FROM activity_log
			ORDER BY id DESC
			LIMIT ?
		) ORDER BY id ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("activity recent: %w", err)
	}
	defer rows.Close()

	var out []engine.ActivityLogEntry
	for rows.Next() {
		var e engine.ActivityLogEntry
		if err := rows.Scan(&e.Kind, &e.Message, &e.At); err != nil {
			return nil, fmt.Errorf("activity scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity rows: %w", err)
	}
	return out, nil
}
