package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quote_delivery_engine/internal/domain/delivery"
)

type PostgresDeliveryRepository struct {
	db *sql.DB
}

func NewPostgresDeliveryRepository(db *sql.DB) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{db: db}
}

func (r *PostgresDeliveryRepository) Create(ctx context.Context, rec *delivery.Record) error {
	query := `INSERT INTO delivery_records (id, quote_id, schedule_id, delivered_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, rec.ID, rec.QuoteID, rec.ScheduleID, rec.DeliveredAt); err != nil {
		return fmt.Errorf("error creating delivery record: %w", err)
	}
	return nil
}

func (r *PostgresDeliveryRepository) ListQuoteIDsSince(ctx context.Context, scheduleID string, since time.Time) ([]string, error) {
	query := `SELECT DISTINCT quote_id FROM delivery_records
		WHERE schedule_id = $1 AND delivered_at >= $2`

	rows, err := r.db.QueryContext(ctx, query, scheduleID, since)
	if err != nil {
		return nil, fmt.Errorf("error listing recent delivery quote ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning delivery quote id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery quote ids: %w", err)
	}
	return ids, nil
}

func (r *PostgresDeliveryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM delivery_records WHERE delivered_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error pruning delivery records: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error checking pruned delivery rows: %w", err)
	}
	return affected, nil
}
