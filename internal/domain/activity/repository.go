package activity

import (
	"context"
	"time"
)

// Repository defines operations over raw activity events.
type Repository interface {
	Record(ctx context.Context, kind string, occurredAt time.Time) error
	ListTimestamps(ctx context.Context) ([]time.Time, error)
	ListTimestampsByKind(ctx context.Context, kind string) ([]time.Time, error)
}
