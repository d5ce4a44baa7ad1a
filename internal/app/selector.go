package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"quote_delivery_engine/internal/domain/quote"
	"quote_delivery_engine/internal/domain/schedule"
)

// RecentDeliveries is the slice of the delivery history the selector
// needs for exclusion-window lookups.
type RecentDeliveries interface {
	ListQuoteIDsSince(ctx context.Context, scheduleID string, since time.Time) ([]string, error)
}

// Selector picks the next quote a schedule should deliver.
type Selector struct {
	history RecentDeliveries
	zone    *time.Location
	rng     *rand.Rand
}

func NewSelector(history RecentDeliveries, zone *time.Location) *Selector {
	return NewSelectorWithRand(history, zone, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSelectorWithRand injects the random source, for deterministic
// tests.
func NewSelectorWithRand(history RecentDeliveries, zone *time.Location, rng *rand.Rand) *Selector {
	return &Selector{history: history, zone: zone, rng: rng}
}

// SelectNext filters the catalog by the schedule's criteria, removes
// the exclusion set, and returns one eligible quote chosen uniformly
// at random. An empty eligible set returns (nil, nil): "no quote
// available" is an expected outcome, not an error.
func (sel *Selector) SelectNext(ctx context.Context, s *schedule.Schedule, catalog []*quote.Quote, now time.Time) (*quote.Quote, error) {
	candidates := make([]*quote.Quote, 0, len(catalog))
	for _, q := range catalog {
		if s.FavoritesOnly && !q.IsFavorite {
			continue
		}
		if len(s.Categories) > 0 && !q.HasAnyCategory(s.Categories) {
			continue
		}
		candidates = append(candidates, q)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	excluded := make(map[string]struct{})
	if s.LastDeliveredQuoteID.Valid {
		excluded[s.LastDeliveredQuoteID.String] = struct{}{}
	}
	if s.ExcludeRecentDays > 0 {
		// Calendar-day window, schedule-scoped: the same quote may still
		// be delivered by a different schedule.
		since := startOfDay(now, sel.zone).AddDate(0, 0, -s.ExcludeRecentDays)
		recent, err := sel.history.ListQuoteIDsSince(ctx, s.ID, since)
		if err != nil {
			return nil, fmt.Errorf("failed to load recent deliveries for schedule %s: %w", s.ID, err)
		}
		for _, id := range recent {
			excluded[id] = struct{}{}
		}
	}

	eligible := candidates[:0]
	for _, q := range candidates {
		if _, ok := excluded[q.ID]; !ok {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) == 0 {
		return nil, nil
	}
	return eligible[sel.rng.Intn(len(eligible))], nil
}
