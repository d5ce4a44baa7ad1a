package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quote_delivery_engine/internal/domain/delivery"
	"quote_delivery_engine/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HistoryRetentionDays is the delivery-history retention window.
// Records older than this feed no exclusion lookup and are pruned
// opportunistically on every write.
const HistoryRetentionDays = 30

// DeliveryTracker records fulfilled deliveries: insert the history
// row, prune stale history best-effort, then advance the schedule's
// last-delivery pointer.
type DeliveryTracker struct {
	records   delivery.Repository
	schedules schedule.Repository
	zone      *time.Location
	logger    *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDeliveryTracker(records delivery.Repository, schedules schedule.Repository, zone *time.Location, logger *logrus.Logger) *DeliveryTracker {
	return &DeliveryTracker{
		records:   records,
		schedules: schedules,
		zone:      zone,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

// scheduleLock serializes deliveries per schedule inside this process.
// The conditional UPDATE in MarkDelivered remains the cross-process
// backstop.
func (t *DeliveryTracker) scheduleLock(scheduleID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[scheduleID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[scheduleID] = l
	}
	return l
}

// RecordDelivery persists one delivery. The pointer update runs after
// the record insert so a crash in between leaves an advisory record
// but never a dangling pointer; pruning failures are logged and never
// fail the delivery. A losing race on the same calendar day surfaces
// as ErrAlreadyDeliveredToday from the schedule repository.
func (t *DeliveryTracker) RecordDelivery(ctx context.Context, scheduleID, quoteID string, now time.Time) error {
	l := t.scheduleLock(scheduleID)
	l.Lock()
	defer l.Unlock()

	rec := &delivery.Record{
		ID:          uuid.NewString(),
		QuoteID:     quoteID,
		ScheduleID:  scheduleID,
		DeliveredAt: now,
	}
	if err := t.records.Create(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert delivery record: %w", err)
	}

	cutoff := now.AddDate(0, 0, -HistoryRetentionDays)
	if pruned, err := t.records.DeleteOlderThan(ctx, cutoff); err != nil {
		t.logger.WithError(err).Warn("Failed to prune stale delivery history; will retry on next delivery")
	} else if pruned > 0 {
		t.logger.WithField("pruned", pruned).Debug("Pruned stale delivery records")
	}

	dayStart := startOfDay(now, t.zone)
	if err := t.schedules.MarkDelivered(ctx, scheduleID, quoteID, now, dayStart); err != nil {
		return err
	}
	return nil
}
