package delivery

import "time"

// Record is one fulfilled delivery. Rows are append-only: created on
// every successful delivery, pruned past the retention window, never
// updated. Corresponds to one row of the 'delivery_records' table.
type Record struct {
	ID          string
	QuoteID     string
	ScheduleID  string
	DeliveredAt time.Time
}

// WidgetState is the most recently delivered quote for a schedule's
// widget surface; an external widget renderer polls it.
type WidgetState struct {
	ScheduleID  string
	QuoteID     string
	DeliveredAt time.Time
	UpdatedAt   time.Time
}
