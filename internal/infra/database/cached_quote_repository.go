package database

import (
	"context"

	"quote_delivery_engine/internal/cache"
	"quote_delivery_engine/internal/domain/quote"
)

// Cache partitions used by the caching facades. Each entity type gets
// its own LRU segment so hot schedules cannot evict the quote catalog.
const (
	cachePartitionQuote     = "quote"
	cachePartitionQuoteList = "quote_list"
	cachePartitionSchedule  = "schedule"
)

const catalogCacheKey = "catalog"

// CachedQuoteRepository is a read-through facade: it holds the plain
// store and a cache instance and calls through on miss. The cache is
// never authoritative; InvalidateAll is the hook the content subsystem
// calls after changing the catalog.
type CachedQuoteRepository struct {
	store quote.Repository
	byID  cache.Typed[*quote.Quote]
	lists cache.Typed[[]*quote.Quote]
}

func NewCachedQuoteRepository(store quote.Repository, c *cache.Cache) *CachedQuoteRepository {
	return &CachedQuoteRepository{
		store: store,
		byID:  cache.NewTyped[*quote.Quote](c, cachePartitionQuote),
		lists: cache.NewTyped[[]*quote.Quote](c, cachePartitionQuoteList),
	}
}

func (r *CachedQuoteRepository) GetByID(ctx context.Context, id string) (*quote.Quote, error) {
	if q, ok := r.byID.Get(id); ok {
		return q, nil
	}
	q, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.byID.Put(id, q)
	return q, nil
}

func (r *CachedQuoteRepository) List(ctx context.Context) ([]*quote.Quote, error) {
	if quotes, ok := r.lists.Get(catalogCacheKey); ok {
		return quotes, nil
	}
	quotes, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	r.lists.Put(catalogCacheKey, quotes)
	return quotes, nil
}

// InvalidateAll drops every cached quote and catalog listing.
func (r *CachedQuoteRepository) InvalidateAll() {
	r.byID.Clear()
	r.lists.Clear()
}
