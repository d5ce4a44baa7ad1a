package database

import (
	"context"
	"time"

	"quote_delivery_engine/internal/cache"
	"quote_delivery_engine/internal/domain/schedule"
)

const defaultScheduleCacheKey = "default"

// CachedScheduleRepository fronts the schedule store with the bounded
// cache for the by-id and default lookups. Every mutation invalidates
// before returning (write-through invalidation, not write-through
// caching), so a subsequent read always resolves from the store of
// truth. List reads pass through uncached: the hourly trigger must see
// fresh enabled flags and delivery pointers.
type CachedScheduleRepository struct {
	store schedule.Repository
	byID  cache.Typed[*schedule.Schedule]
}

func NewCachedScheduleRepository(store schedule.Repository, c *cache.Cache) *CachedScheduleRepository {
	return &CachedScheduleRepository{
		store: store,
		byID:  cache.NewTyped[*schedule.Schedule](c, cachePartitionSchedule),
	}
}

func (r *CachedScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	if err := r.store.Create(ctx, s); err != nil {
		return err
	}
	r.byID.Remove(s.ID)
	if s.IsDefault {
		r.byID.Remove(defaultScheduleCacheKey)
	}
	return nil
}

func (r *CachedScheduleRepository) GetByID(ctx context.Context, id string) (*schedule.Schedule, error) {
	if s, ok := r.byID.Get(id); ok {
		return s, nil
	}
	s, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.byID.Put(id, s)
	return s, nil
}

func (r *CachedScheduleRepository) GetDefault(ctx context.Context) (*schedule.Schedule, error) {
	if s, ok := r.byID.Get(defaultScheduleCacheKey); ok {
		return s, nil
	}
	s, err := r.store.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	r.byID.Put(defaultScheduleCacheKey, s)
	return s, nil
}

func (r *CachedScheduleRepository) ListEnabled(ctx context.Context) ([]*schedule.Schedule, error) {
	return r.store.ListEnabled(ctx)
}

func (r *CachedScheduleRepository) ListAll(ctx context.Context) ([]*schedule.Schedule, error) {
	return r.store.ListAll(ctx)
}

func (r *CachedScheduleRepository) Update(ctx context.Context, s *schedule.Schedule) error {
	if err := r.store.Update(ctx, s); err != nil {
		return err
	}
	r.invalidate(s.ID)
	return nil
}

func (r *CachedScheduleRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

func (r *CachedScheduleRepository) MarkDelivered(ctx context.Context, id, quoteID string, deliveredAt, dayStart time.Time) error {
	// Invalidate regardless of outcome: on ErrAlreadyDeliveredToday the
	// cached entry may predate the winning writer's pointer update.
	err := r.store.MarkDelivered(ctx, id, quoteID, deliveredAt, dayStart)
	r.invalidate(id)
	return err
}

func (r *CachedScheduleRepository) invalidate(id string) {
	r.byID.Remove(id)
	r.byID.Remove(defaultScheduleCacheKey)
}
