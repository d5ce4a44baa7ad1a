package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

func (r *PostgresActivityRepository) Record(ctx context.Context, kind string, occurredAt time.Time) error {
	query := `INSERT INTO activity_events (kind, occurred_at) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, kind, occurredAt); err != nil {
		return fmt.Errorf("error recording activity event: %w", err)
	}
	return nil
}

func (r *PostgresActivityRepository) ListTimestamps(ctx context.Context) ([]time.Time, error) {
	return r.listTimestamps(ctx, `SELECT occurred_at FROM activity_events`)
}

func (r *PostgresActivityRepository) ListTimestampsByKind(ctx context.Context, kind string) ([]time.Time, error) {
	return r.listTimestamps(ctx, `SELECT occurred_at FROM activity_events WHERE kind = $1`, kind)
}

func (r *PostgresActivityRepository) listTimestamps(ctx context.Context, query string, args ...any) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing activity timestamps: %w", err)
	}
	defer rows.Close()

	timestamps := make([]time.Time, 0)
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("error scanning activity timestamp: %w", err)
		}
		timestamps = append(timestamps, ts)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity timestamps: %w", err)
	}
	return timestamps, nil
}
