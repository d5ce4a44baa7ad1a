package app

import (
	"time"

	"quote_delivery_engine/internal/domain/schedule"
)

// ReadySchedules returns the ids of the schedules due for delivery at
// 'now'. It is a pure function of its inputs so it can be tested with
// a fixed clock and no store.
//
// A schedule is ready when it is enabled, its wall-clock time today
// has passed (the trigger's hourly cadence means "now >= due" rather
// than an exact-minute match), and it has not already delivered on
// today's calendar day.
func ReadySchedules(schedules []*schedule.Schedule, now time.Time, zone *time.Location) []string {
	local := now.In(zone)
	ready := make([]string, 0, len(schedules))
	for _, s := range schedules {
		if !s.IsEnabled {
			continue
		}
		due := time.Date(local.Year(), local.Month(), local.Day(), s.ScheduledHour, s.ScheduledMinute, 0, 0, zone)
		if local.Before(due) {
			continue // not due yet
		}
		if s.LastDeliveryDate.Valid && sameCalendarDay(s.LastDeliveryDate.Time, local, zone) {
			continue // already delivered today
		}
		ready = append(ready, s.ID)
	}
	return ready
}

func sameCalendarDay(a, b time.Time, zone *time.Location) bool {
	al, bl := a.In(zone), b.In(zone)
	ay, am, ad := al.Date()
	by, bm, bd := bl.Date()
	return ay == by && am == bm && ad == bd
}

// startOfDay returns midnight of t's calendar day in zone. It anchors
// both the idempotence compare-and-swap and exclusion windows.
func startOfDay(t time.Time, zone *time.Location) time.Time {
	local := t.In(zone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
}
