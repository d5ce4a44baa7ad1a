package delivery

import (
	"context"
	"time"

	"quote_delivery_engine/internal/domain/quote"
	"quote_delivery_engine/internal/domain/schedule"
)

// Surface receives a chosen quote after a successful selection.
// deliveredAt is the cycle's delivery timestamp, so every surface and
// the history record agree on when the quote went out.
// Implementations (notification push, widget state) must treat
// failures as their own: the delivery cycle logs them and moves on.
type Surface interface {
	Deliver(ctx context.Context, sched *schedule.Schedule, q *quote.Quote, deliveredAt time.Time) error
}
