package schedule

import (
	"database/sql"
	"time"
)

// DeliveryMethod selects the surface(s) a schedule delivers through.
type DeliveryMethod string

const (
	MethodNotification DeliveryMethod = "NOTIFICATION"
	MethodWidget       DeliveryMethod = "WIDGET"
	MethodBoth         DeliveryMethod = "BOTH"
)

// Valid reports whether the method is one of the known values.
func (m DeliveryMethod) Valid() bool {
	switch m {
	case MethodNotification, MethodWidget, MethodBoth:
		return true
	}
	return false
}

// WantsNotification reports whether the notification surface applies.
func (m DeliveryMethod) WantsNotification() bool {
	return m == MethodNotification || m == MethodBoth
}

// WantsWidget reports whether the widget surface applies.
func (m DeliveryMethod) WantsWidget() bool {
	return m == MethodWidget || m == MethodBoth
}

// Schedule is one user-configured delivery policy.
// Corresponds to one row of the 'schedules' table.
type Schedule struct {
	ID                   string
	IsEnabled            bool
	ScheduledHour        int // 0-23, local wall clock
	ScheduledMinute      int // 0-59
	DeliveryMethod       DeliveryMethod
	FavoritesOnly        bool
	Categories           []string // empty = no category filter
	ExcludeRecentDays    int      // 0 disables recency exclusion
	LastDeliveredQuoteID sql.NullString
	LastDeliveryDate     sql.NullTime
	IsDefault            bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
