package app

import (
	"context"
	"fmt"
	"time"

	"quote_delivery_engine/internal/cache"
	"quote_delivery_engine/internal/domain/activity"
	"quote_delivery_engine/internal/streak"

	"github.com/sirupsen/logrus"
)

const (
	activityCachePartition = "activity"
	allActivityCacheKey    = "all"
)

// EngagementService computes consecutive-day streaks from recorded
// activity events. The timestamp read path is fronted by the shared
// bounded cache and invalidated on every recorded event.
type EngagementService struct {
	events activity.Repository
	cached cache.Typed[[]time.Time]
	zone   *time.Location
	logger *logrus.Logger
}

func NewEngagementService(events activity.Repository, c *cache.Cache, zone *time.Location, logger *logrus.Logger) *EngagementService {
	return &EngagementService{
		events: events,
		cached: cache.NewTyped[[]time.Time](c, activityCachePartition),
		zone:   zone,
		logger: logger,
	}
}

// RecordEvent stores one countable activity occurrence and drops the
// cached timestamps so the next streak read sees it.
func (s *EngagementService) RecordEvent(ctx context.Context, kind string, occurredAt time.Time) error {
	if err := s.events.Record(ctx, kind, occurredAt); err != nil {
		return fmt.Errorf("failed to record activity event: %w", err)
	}
	s.cached.Clear()
	return nil
}

// CurrentStreak returns today's consecutive-day activity streak.
func (s *EngagementService) CurrentStreak(ctx context.Context) (int, error) {
	return s.CurrentStreakAt(ctx, time.Now())
}

// CurrentStreakAt is CurrentStreak with an explicit clock.
func (s *EngagementService) CurrentStreakAt(ctx context.Context, now time.Time) (int, error) {
	timestamps, err := s.timestamps(ctx)
	if err != nil {
		return 0, err
	}
	return streak.CurrentAt(timestamps, now, s.zone), nil
}

// LongestStreak returns the longest consecutive-day run on record.
func (s *EngagementService) LongestStreak(ctx context.Context) (int, error) {
	timestamps, err := s.timestamps(ctx)
	if err != nil {
		return 0, err
	}
	return streak.Longest(timestamps, s.zone), nil
}

// CurrentStreakByKind restricts the streak to one activity kind.
// Uncached: per-kind reads are rare next to the all-activity paths.
func (s *EngagementService) CurrentStreakByKind(ctx context.Context, kind string, now time.Time) (int, error) {
	timestamps, err := s.events.ListTimestampsByKind(ctx, kind)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s activity: %w", kind, err)
	}
	return streak.CurrentAt(timestamps, now, s.zone), nil
}

func (s *EngagementService) timestamps(ctx context.Context) ([]time.Time, error) {
	if ts, ok := s.cached.Get(allActivityCacheKey); ok {
		return ts, nil
	}
	ts, err := s.events.ListTimestamps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity timestamps: %w", err)
	}
	s.cached.Put(allActivityCacheKey, ts)
	return ts, nil
}
