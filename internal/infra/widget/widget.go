package widget

import (
	"context"
	"time"

	"quote_delivery_engine/internal/domain/delivery"
	"quote_delivery_engine/internal/domain/quote"
	"quote_delivery_engine/internal/domain/schedule"
)

// StateSurface is the widget delivery surface: it persists the chosen
// quote as the schedule's current widget state, where an external
// widget renderer picks it up.
type StateSurface struct {
	states delivery.WidgetStateRepository
}

func NewStateSurface(states delivery.WidgetStateRepository) *StateSurface {
	return &StateSurface{states: states}
}

func (s *StateSurface) Deliver(ctx context.Context, sched *schedule.Schedule, q *quote.Quote, deliveredAt time.Time) error {
	return s.states.UpsertCurrent(ctx, &delivery.WidgetState{
		ScheduleID:  sched.ID,
		QuoteID:     q.ID,
		DeliveredAt: deliveredAt,
	})
}
