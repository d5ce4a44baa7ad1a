// Package streak computes consecutive-day activity streaks from raw
// timestamps. All functions are pure: they take their inputs whole and
// share no state, so they are safe to call concurrently.
//
// Day arithmetic is calendar-based (AddDate), never millisecond
// division, so month, year and leap-day boundaries behave correctly.
package streak

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// Current returns the length of the streak ending today or yesterday.
// A streak survives until the day after the last activity has fully
// elapsed; a gap of more than one day breaks it to 0.
func Current(timestamps []time.Time, zone *time.Location) int {
	return CurrentAt(timestamps, time.Now(), zone)
}

// CurrentAt is Current with an explicit "now", for callers and tests
// that need a fixed clock.
func CurrentAt(timestamps []time.Time, now time.Time, zone *time.Location) int {
	days := distinctDays(timestamps, zone)
	if len(days) == 0 {
		return 0
	}

	mostRecent := days[len(days)-1]
	today := dayOf(now, zone)
	if mostRecent.Before(today.AddDate(0, 0, -1)) {
		return 0 // last activity was before yesterday
	}

	set := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}

	count := 1
	for d := mostRecent; ; {
		prev := d.AddDate(0, 0, -1)
		if _, ok := set[prev]; !ok {
			break
		}
		count++
		d = prev
	}
	return count
}

// Longest returns the longest run of consecutive calendar days across
// the whole history. Empty input returns 0.
func Longest(timestamps []time.Time, zone *time.Location) int {
	days := distinctDays(timestamps, zone)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CurrentFromDates is CurrentAt over YYYY-MM-DD strings. Unparseable
// entries are dropped rather than failing the whole calculation.
func CurrentFromDates(dates []string, now time.Time, zone *time.Location) int {
	return CurrentAt(parseDates(dates, zone), now, zone)
}

// LongestFromDates is Longest over YYYY-MM-DD strings, dropping
// unparseable entries.
func LongestFromDates(dates []string, zone *time.Location) int {
	return Longest(parseDates(dates, zone), zone)
}

func parseDates(dates []string, zone *time.Location) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		t, err := time.ParseInLocation(dateLayout, s, zone)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

// distinctDays maps timestamps to their calendar days in zone and
// returns them sorted ascending with duplicates collapsed.
func distinctDays(timestamps []time.Time, zone *time.Location) []time.Time {
	seen := make(map[time.Time]struct{}, len(timestamps))
	for _, ts := range timestamps {
		seen[dayOf(ts, zone)] = struct{}{}
	}
	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func dayOf(t time.Time, zone *time.Location) time.Time {
	local := t.In(zone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
}
