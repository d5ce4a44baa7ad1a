package database

import "errors"

// Sentinel errors returned by the repository implementations. The
// application layer matches on these with errors.Is and decides per
// case whether to skip, retry next cycle, or surface the failure.
var (
	ErrScheduleNotFound      = errors.New("schedule not found")
	ErrDefaultScheduleExists = errors.New("a default schedule already exists")
	ErrQuoteNotFound         = errors.New("quote not found")
	ErrWidgetStateNotFound   = errors.New("widget state not found")
	ErrAlreadyDeliveredToday = errors.New("schedule already delivered today")
)
