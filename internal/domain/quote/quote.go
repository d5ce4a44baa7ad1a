package quote

// Quote is a content entity owned by the content subsystem. The
// delivery engine consumes it read-only and never mutates it.
type Quote struct {
	ID         string
	Content    string
	Author     string
	Categories []string
	IsFavorite bool
}

// HasAnyCategory reports whether the quote's category set intersects
// the given set. An empty wanted set matches nothing; callers treat
// "no filter" before calling.
func (q *Quote) HasAnyCategory(wanted []string) bool {
	for _, w := range wanted {
		for _, c := range q.Categories {
			if c == w {
				return true
			}
		}
	}
	return false
}
