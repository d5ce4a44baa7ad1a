package delivery

import (
	"context"
	"time"
)

// Repository defines operations over the append-only delivery history.
type Repository interface {
	Create(ctx context.Context, r *Record) error

	// ListQuoteIDsSince returns the distinct quote ids delivered by the
	// given schedule at or after 'since'. Used for exclusion-window
	// lookups only.
	ListQuoteIDsSince(ctx context.Context, scheduleID string, since time.Time) ([]string, error)

	// DeleteOlderThan prunes records with delivered_at before the
	// cutoff and returns how many rows were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// WidgetStateRepository persists the per-schedule widget state.
type WidgetStateRepository interface {
	UpsertCurrent(ctx context.Context, st *WidgetState) error
	GetBySchedule(ctx context.Context, scheduleID string) (*WidgetState, error)
}
