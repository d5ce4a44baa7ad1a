package activity

import "time"

// Event kinds countable toward streaks.
const (
	KindJournalEntry    = "JOURNAL_ENTRY"
	KindExerciseSession = "EXERCISE_SESSION"
	KindQuoteDelivery   = "QUOTE_DELIVERY"
)

// Event is one countable activity occurrence. A calendar day with at
// least one event of any kind counts toward the streak; the day itself
// is derived at read time, never stored.
type Event struct {
	ID         int64
	Kind       string
	OccurredAt time.Time
}
