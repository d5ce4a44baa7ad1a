package database

import (
	"context"
	"database/sql"
	"fmt"

	"quote_delivery_engine/internal/domain/delivery"
)

type PostgresWidgetStateRepository struct {
	db *sql.DB
}

func NewPostgresWidgetStateRepository(db *sql.DB) *PostgresWidgetStateRepository {
	return &PostgresWidgetStateRepository{db: db}
}

func (r *PostgresWidgetStateRepository) UpsertCurrent(ctx context.Context, st *delivery.WidgetState) error {
	query := `INSERT INTO widget_states (schedule_id, quote_id, delivered_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (schedule_id)
		DO UPDATE SET quote_id = EXCLUDED.quote_id, delivered_at = EXCLUDED.delivered_at, updated_at = NOW()
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, st.ScheduleID, st.QuoteID, st.DeliveredAt).Scan(&st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting widget state: %w", err)
	}
	return nil
}

func (r *PostgresWidgetStateRepository) GetBySchedule(ctx context.Context, scheduleID string) (*delivery.WidgetState, error) {
	query := `SELECT schedule_id, quote_id, delivered_at, updated_at FROM widget_states WHERE schedule_id = $1`
	st := &delivery.WidgetState{}
	err := r.db.QueryRowContext(ctx, query, scheduleID).Scan(&st.ScheduleID, &st.QuoteID, &st.DeliveredAt, &st.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrWidgetStateNotFound
		}
		return nil, fmt.Errorf("error getting widget state: %w", err)
	}
	return st, nil
}
