package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"quote_delivery_engine/internal/domain/schedule"

	"github.com/lib/pq"
)

type PostgresScheduleRepository struct {
	db *sql.DB
}

func NewPostgresScheduleRepository(db *sql.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db}
}

const scheduleColumns = `id, is_enabled, scheduled_hour, scheduled_minute, delivery_method,
	favorites_only, categories, exclude_recent_days, last_delivered_quote_id,
	last_delivery_date, is_default, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (*schedule.Schedule, error) {
	s := &schedule.Schedule{}
	var categories pq.StringArray
	err := row.Scan(
		&s.ID, &s.IsEnabled, &s.ScheduledHour, &s.ScheduledMinute, &s.DeliveryMethod,
		&s.FavoritesOnly, &categories, &s.ExcludeRecentDays, &s.LastDeliveredQuoteID,
		&s.LastDeliveryDate, &s.IsDefault, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Categories = categories
	return s, nil
}

func (r *PostgresScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	query := `INSERT INTO schedules (id, is_enabled, scheduled_hour, scheduled_minute,
			delivery_method, favorites_only, categories, exclude_recent_days, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.IsEnabled, s.ScheduledHour, s.ScheduledMinute, s.DeliveryMethod,
		s.FavoritesOnly, pq.Array(s.Categories), s.ExcludeRecentDays, s.IsDefault,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		// The partial unique index rejects a second default schedule.
		if strings.Contains(err.Error(), "schedules_single_default") {
			return ErrDefaultScheduleExists
		}
		return fmt.Errorf("error creating schedule: %w", err)
	}
	return nil
}

func (r *PostgresScheduleRepository) GetByID(ctx context.Context, id string) (*schedule.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("error getting schedule by ID: %w", err)
	}
	return s, nil
}

func (r *PostgresScheduleRepository) GetDefault(ctx context.Context) (*schedule.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE is_default LIMIT 1`
	s, err := scanSchedule(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("error getting default schedule: %w", err)
	}
	return s, nil
}

func (r *PostgresScheduleRepository) ListEnabled(ctx context.Context) ([]*schedule.Schedule, error) {
	return r.list(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE is_enabled = TRUE ORDER BY created_at`)
}

func (r *PostgresScheduleRepository) ListAll(ctx context.Context) ([]*schedule.Schedule, error) {
	return r.list(ctx, `SELECT `+scheduleColumns+` FROM schedules ORDER BY created_at`)
}

func (r *PostgresScheduleRepository) list(ctx context.Context, query string) ([]*schedule.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]*schedule.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}
	return schedules, nil
}

func (r *PostgresScheduleRepository) Update(ctx context.Context, s *schedule.Schedule) error {
	query := `UPDATE schedules
		SET is_enabled = $1, scheduled_hour = $2, scheduled_minute = $3,
			delivery_method = $4, favorites_only = $5, categories = $6,
			exclude_recent_days = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		s.IsEnabled, s.ScheduledHour, s.ScheduledMinute, s.DeliveryMethod,
		s.FavoritesOnly, pq.Array(s.Categories), s.ExcludeRecentDays, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrScheduleNotFound
		}
		return fmt.Errorf("error updating schedule: %w", err)
	}
	return nil
}

func (r *PostgresScheduleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted schedule rows: %w", err)
	}
	if affected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// MarkDelivered is the compare-and-swap on the delivery pointer: the
// WHERE clause only matches when no delivery has landed on or after
// dayStart, so concurrent trigger runs cannot both claim the same day.
func (r *PostgresScheduleRepository) MarkDelivered(ctx context.Context, id, quoteID string, deliveredAt, dayStart time.Time) error {
	query := `UPDATE schedules
		SET last_delivered_quote_id = $2, last_delivery_date = $3, updated_at = NOW()
		WHERE id = $1 AND (last_delivery_date IS NULL OR last_delivery_date < $4)`

	res, err := r.db.ExecContext(ctx, query, id, quoteID, deliveredAt, dayStart)
	if err != nil {
		return fmt.Errorf("error marking schedule delivered: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking marked schedule rows: %w", err)
	}
	if affected == 0 {
		// Either the schedule is gone or another run won the day.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyDeliveredToday
	}
	return nil
}
