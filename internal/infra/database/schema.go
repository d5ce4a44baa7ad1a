package database

import (
	"database/sql"
	"fmt"
)

// bootstrapStatements create the engine's tables on first start. The
// partial unique index on schedules(is_default) backs the
// insert-if-absent semantics of EnsureDefaultSchedule; the
// same-day guard against duplicate deliveries lives in the
// conditional UPDATE of MarkDelivered, not in an index.
var bootstrapStatements = []string{
	`CREATE TABLE IF NOT EXISTS schedules (
		id                      UUID PRIMARY KEY,
		is_enabled              BOOLEAN NOT NULL DEFAULT TRUE,
		scheduled_hour          SMALLINT NOT NULL CHECK (scheduled_hour BETWEEN 0 AND 23),
		scheduled_minute        SMALLINT NOT NULL CHECK (scheduled_minute BETWEEN 0 AND 59),
		delivery_method         TEXT NOT NULL,
		favorites_only          BOOLEAN NOT NULL DEFAULT FALSE,
		categories              TEXT[] NOT NULL DEFAULT '{}',
		exclude_recent_days     INTEGER NOT NULL DEFAULT 0 CHECK (exclude_recent_days >= 0),
		last_delivered_quote_id UUID,
		last_delivery_date      TIMESTAMPTZ,
		is_default              BOOLEAN NOT NULL DEFAULT FALSE,
		created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS schedules_single_default
		ON schedules (is_default) WHERE is_default`,

	`CREATE TABLE IF NOT EXISTS delivery_records (
		id           UUID PRIMARY KEY,
		quote_id     UUID NOT NULL,
		schedule_id  UUID NOT NULL,
		delivered_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS delivery_records_schedule_delivered
		ON delivery_records (schedule_id, delivered_at)`,
	`CREATE INDEX IF NOT EXISTS delivery_records_delivered_at
		ON delivery_records (delivered_at)`,

	`CREATE TABLE IF NOT EXISTS quotes (
		id          UUID PRIMARY KEY,
		content     TEXT NOT NULL,
		author      TEXT NOT NULL DEFAULT '',
		categories  TEXT[] NOT NULL DEFAULT '{}',
		is_favorite BOOLEAN NOT NULL DEFAULT FALSE
	)`,

	`CREATE TABLE IF NOT EXISTS activity_events (
		id          BIGSERIAL PRIMARY KEY,
		kind        TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS activity_events_occurred_at
		ON activity_events (occurred_at)`,

	`CREATE TABLE IF NOT EXISTS widget_states (
		schedule_id  UUID PRIMARY KEY,
		quote_id     UUID NOT NULL,
		delivered_at TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Bootstrap creates any missing tables and indexes. It is idempotent
// and safe to run on every startup.
func Bootstrap(db *sql.DB) error {
	for _, stmt := range bootstrapStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error bootstrapping schema: %w", err)
		}
	}
	return nil
}
