package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"quote_delivery_engine/internal/cache"
	"quote_delivery_engine/internal/domain/quote"
	"quote_delivery_engine/internal/domain/schedule"

	"github.com/stretchr/testify/require"
)

type stubQuoteStore struct {
	quotes   map[string]*quote.Quote
	getCalls int
	lists    int
}

func (s *stubQuoteStore) GetByID(_ context.Context, id string) (*quote.Quote, error) {
	s.getCalls++
	q, ok := s.quotes[id]
	if !ok {
		return nil, ErrQuoteNotFound
	}
	return q, nil
}

func (s *stubQuoteStore) List(_ context.Context) ([]*quote.Quote, error) {
	s.lists++
	out := make([]*quote.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q)
	}
	return out, nil
}

type stubScheduleStore struct {
	schedules map[string]*schedule.Schedule
	getCalls  int
}

func (s *stubScheduleStore) Create(_ context.Context, sc *schedule.Schedule) error {
	s.schedules[sc.ID] = sc
	return nil
}

func (s *stubScheduleStore) GetByID(_ context.Context, id string) (*schedule.Schedule, error) {
	s.getCalls++
	sc, ok := s.schedules[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	return sc, nil
}

func (s *stubScheduleStore) GetDefault(_ context.Context) (*schedule.Schedule, error) {
	for _, sc := range s.schedules {
		if sc.IsDefault {
			return sc, nil
		}
	}
	return nil, ErrScheduleNotFound
}

func (s *stubScheduleStore) ListEnabled(_ context.Context) ([]*schedule.Schedule, error) {
	return nil, nil
}

func (s *stubScheduleStore) ListAll(_ context.Context) ([]*schedule.Schedule, error) {
	return nil, nil
}

func (s *stubScheduleStore) Update(_ context.Context, sc *schedule.Schedule) error {
	s.schedules[sc.ID] = sc
	return nil
}

func (s *stubScheduleStore) Delete(_ context.Context, id string) error {
	delete(s.schedules, id)
	return nil
}

func (s *stubScheduleStore) MarkDelivered(_ context.Context, id, quoteID string, deliveredAt, _ time.Time) error {
	sc, ok := s.schedules[id]
	if !ok {
		return ErrScheduleNotFound
	}
	sc.LastDeliveredQuoteID = sql.NullString{String: quoteID, Valid: true}
	sc.LastDeliveryDate = sql.NullTime{Time: deliveredAt, Valid: true}
	return nil
}

func TestCachedQuoteRepositoryReadThrough(t *testing.T) {
	store := &stubQuoteStore{quotes: map[string]*quote.Quote{
		"q1": {ID: "q1", Content: "one"},
	}}
	repo := NewCachedQuoteRepository(store, cache.New(10))

	q, err := repo.GetByID(context.Background(), "q1")
	require.NoError(t, err)
	require.Equal(t, "one", q.Content)
	require.Equal(t, 1, store.getCalls)

	// Second read is served from the cache.
	_, err = repo.GetByID(context.Background(), "q1")
	require.NoError(t, err)
	require.Equal(t, 1, store.getCalls)

	repo.InvalidateAll()
	_, err = repo.GetByID(context.Background(), "q1")
	require.NoError(t, err)
	require.Equal(t, 2, store.getCalls)
}

func TestCachedQuoteRepositoryMissIsNotCached(t *testing.T) {
	store := &stubQuoteStore{quotes: map[string]*quote.Quote{}}
	repo := NewCachedQuoteRepository(store, cache.New(10))

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrQuoteNotFound)

	store.quotes["missing"] = &quote.Quote{ID: "missing"}
	q, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	require.Equal(t, "missing", q.ID)
}

func TestCachedQuoteRepositoryListIsCached(t *testing.T) {
	store := &stubQuoteStore{quotes: map[string]*quote.Quote{
		"q1": {ID: "q1"}, "q2": {ID: "q2"},
	}}
	repo := NewCachedQuoteRepository(store, cache.New(10))

	first, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	_, err = repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, store.lists)
}

func TestCachedScheduleRepositoryInvalidatesOnWrite(t *testing.T) {
	sched := &schedule.Schedule{ID: "s1", IsEnabled: true}
	store := &stubScheduleStore{schedules: map[string]*schedule.Schedule{"s1": sched}}
	repo := NewCachedScheduleRepository(store, cache.New(10))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 1, store.getCalls, "second read should hit the cache")

	// A mutation must drop the cached entry so the next read sees the
	// store of truth.
	sched.IsEnabled = false
	require.NoError(t, repo.Update(ctx, sched))
	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.False(t, got.IsEnabled)
	require.Equal(t, 2, store.getCalls)
}

func TestCachedScheduleRepositoryMarkDeliveredInvalidates(t *testing.T) {
	sched := &schedule.Schedule{ID: "s1"}
	store := &stubScheduleStore{schedules: map[string]*schedule.Schedule{"s1": sched}}
	repo := NewCachedScheduleRepository(store, cache.New(10))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, repo.MarkDelivered(ctx, "s1", "q1", now, now.Truncate(24*time.Hour)))

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.True(t, got.LastDeliveryDate.Valid)
	require.Equal(t, "q1", got.LastDeliveredQuoteID.String)
}

func TestCachedScheduleRepositoryDeleteInvalidates(t *testing.T) {
	sched := &schedule.Schedule{ID: "s1"}
	store := &stubScheduleStore{schedules: map[string]*schedule.Schedule{"s1": sched}}
	repo := NewCachedScheduleRepository(store, cache.New(10))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.GetByID(ctx, "s1")
	require.ErrorIs(t, err, ErrScheduleNotFound)
}
