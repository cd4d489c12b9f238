package refreshlog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Postgres stores entries in the codelist_refresh_log table.
type Postgres struct {
	db *sql.DB
}

var _ Log = (*Postgres)(nil)

// NewPostgres creates a Postgres-backed refresh log.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Append(ctx context.Context, e Entry) error {
	query := `
		INSERT INTO codelist_refresh_log (
			id, generation, trigger, refresh, started_at, finished_at,
			list_count, sources, failed_sources, errors
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := p.db.ExecContext(ctx, query,
		e.ID, int64(e.Generation), e.Trigger, e.Refresh, e.StartedAt, e.FinishedAt,
		e.ListCount, pq.Array(e.Sources), pq.Array(e.FailedSources), pq.Array(e.Errors),
	)
	if err != nil {
		return fmt.Errorf("append refresh log entry: %w", err)
	}
	return nil
}

func (p *Postgres) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, generation, trigger, refresh, started_at, finished_at,
			list_count, sources, failed_sources, errors
		FROM codelist_refresh_log
		ORDER BY started_at DESC, generation DESC
		LIMIT $1
	`
	rows, err := p.db.QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list refresh log entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e          Entry
			generation int64
		)
		if err := rows.Scan(
			&e.ID, &generation, &e.Trigger, &e.Refresh, &e.StartedAt, &e.FinishedAt,
			&e.ListCount, pq.Array(&e.Sources), pq.Array(&e.FailedSources), pq.Array(&e.Errors),
		); err != nil {
			return nil, fmt.Errorf("scan refresh log entry: %w", err)
		}
		e.Generation = uint64(generation)
		e.StartedAt = e.StartedAt.UTC()
		e.FinishedAt = e.FinishedAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refresh log entries: %w", err)
	}
	return entries, nil
}
