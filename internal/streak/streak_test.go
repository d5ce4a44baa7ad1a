package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var utc = time.UTC

// now is fixed mid-day so "today" is unambiguous in tests.
var now = time.Date(2026, time.March, 10, 14, 30, 0, 0, utc)

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func TestCurrentStreakEmptyInput(t *testing.T) {
	require.Equal(t, 0, CurrentAt(nil, now, utc))
	require.Equal(t, 0, Longest(nil, utc))
}

func TestCurrentStreakThreeConsecutiveDays(t *testing.T) {
	ts := []time.Time{daysAgo(0), daysAgo(1), daysAgo(2)}
	require.Equal(t, 3, CurrentAt(ts, now, utc))
}

func TestCurrentStreakBrokenByGapOverOneDay(t *testing.T) {
	ts := []time.Time{daysAgo(3)}
	require.Equal(t, 0, CurrentAt(ts, now, utc))
}

func TestCurrentStreakSurvivesYesterdayOnly(t *testing.T) {
	ts := []time.Time{daysAgo(1)}
	require.Equal(t, 1, CurrentAt(ts, now, utc))
}

func TestCurrentStreakTwoDaysAgoIsBroken(t *testing.T) {
	ts := []time.Time{daysAgo(2), daysAgo(3), daysAgo(4)}
	require.Equal(t, 0, CurrentAt(ts, now, utc))
}

func TestCurrentStreakStopsAtFirstGap(t *testing.T) {
	ts := []time.Time{daysAgo(0), daysAgo(1), daysAgo(3), daysAgo(4)}
	require.Equal(t, 2, CurrentAt(ts, now, utc))
}

func TestLongestStreakFindsInteriorRun(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.January, d, 8, 0, 0, 0, utc)
	}
	ts := []time.Time{day(1), day(2), day(3), day(5), day(6)}
	require.Equal(t, 3, Longest(ts, utc))
}

func TestStreaksInvariantUnderReorderingAndDuplicates(t *testing.T) {
	ordered := []time.Time{daysAgo(0), daysAgo(1), daysAgo(2)}
	shuffled := []time.Time{
		daysAgo(2),
		daysAgo(0),
		daysAgo(1),
		daysAgo(0).Add(3 * time.Hour), // same calendar day as daysAgo(0)
		daysAgo(1).Add(-2 * time.Hour),
	}
	require.Equal(t, CurrentAt(ordered, now, utc), CurrentAt(shuffled, now, utc))
	require.Equal(t, Longest(ordered, utc), Longest(shuffled, utc))
}

func TestStreakAcrossMonthBoundary(t *testing.T) {
	ref := time.Date(2026, time.April, 1, 10, 0, 0, 0, utc)
	ts := []time.Time{
		time.Date(2026, time.March, 30, 23, 0, 0, 0, utc),
		time.Date(2026, time.March, 31, 9, 0, 0, 0, utc),
		ref,
	}
	require.Equal(t, 3, CurrentAt(ts, ref, utc))
}

func TestStreakAcrossYearBoundary(t *testing.T) {
	ref := time.Date(2027, time.January, 1, 10, 0, 0, 0, utc)
	ts := []time.Time{
		time.Date(2026, time.December, 31, 22, 0, 0, 0, utc),
		ref,
	}
	require.Equal(t, 2, CurrentAt(ts, ref, utc))
}

func TestStreakAcrossLeapDay(t *testing.T) {
	// 2028 is a leap year: Feb 28 -> Feb 29 -> Mar 1 is consecutive.
	ts := []time.Time{
		time.Date(2028, time.February, 28, 12, 0, 0, 0, utc),
		time.Date(2028, time.February, 29, 12, 0, 0, 0, utc),
		time.Date(2028, time.March, 1, 12, 0, 0, 0, utc),
	}
	require.Equal(t, 3, Longest(ts, utc))

	// In a non-leap year Feb 28 -> Mar 1 is also consecutive.
	ts = []time.Time{
		time.Date(2026, time.February, 28, 12, 0, 0, 0, utc),
		time.Date(2026, time.March, 1, 12, 0, 0, 0, utc),
	}
	require.Equal(t, 2, Longest(ts, utc))
}

func TestZoneAnchoringSplitsUTCDay(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 23:00 and 01:00 UTC the next day are the same Tokyo calendar day.
	a := time.Date(2026, time.March, 9, 23, 0, 0, 0, utc)
	b := time.Date(2026, time.March, 10, 1, 0, 0, 0, utc)
	require.Equal(t, 1, Longest([]time.Time{a, b}, tokyo))
	require.Equal(t, 2, Longest([]time.Time{a, b}, utc))
}

func TestFromDatesDropsUnparseableEntries(t *testing.T) {
	ref := time.Date(2026, time.March, 10, 12, 0, 0, 0, utc)
	dates := []string{"2026-03-10", "not-a-date", "2026-03-09", ""}
	require.Equal(t, 2, CurrentFromDates(dates, ref, utc))
	require.Equal(t, 2, LongestFromDates(dates, utc))
}

func TestFromDatesAllUnparseable(t *testing.T) {
	require.Equal(t, 0, LongestFromDates([]string{"x", "2026/01/01"}, utc))
}
