package app

import (
	"context"
	"database/sql"
	"io"
	"sync"
	"time"

	"quote_delivery_engine/internal/domain/delivery"
	"quote_delivery_engine/internal/domain/quote"
	"quote_delivery_engine/internal/domain/schedule"
	idb "quote_delivery_engine/internal/infra/database"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeScheduleRepo is an in-memory schedule store honoring the
// conditional-update contract of MarkDelivered.
type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules map[string]*schedule.Schedule

	listErr   error
	createErr error
	updateErr error
}

func newFakeScheduleRepo(schedules ...*schedule.Schedule) *fakeScheduleRepo {
	r := &fakeScheduleRepo{schedules: make(map[string]*schedule.Schedule)}
	for _, s := range schedules {
		r.schedules[s.ID] = s
	}
	return r
}

func (r *fakeScheduleRepo) Create(_ context.Context, s *schedule.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if s.IsDefault {
		for _, existing := range r.schedules {
			if existing.IsDefault {
				return idb.ErrDefaultScheduleExists
			}
		}
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	r.schedules[s.ID] = s
	return nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id string) (*schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[id]
	if !ok {
		return nil, idb.ErrScheduleNotFound
	}
	return s, nil
}

func (r *fakeScheduleRepo) GetDefault(_ context.Context) (*schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.schedules {
		if s.IsDefault {
			return s, nil
		}
	}
	return nil, idb.ErrScheduleNotFound
}

func (r *fakeScheduleRepo) ListEnabled(_ context.Context) ([]*schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*schedule.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		if s.IsEnabled {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) ListAll(_ context.Context) ([]*schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*schedule.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeScheduleRepo) Update(_ context.Context, s *schedule.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.schedules[s.ID]; !ok {
		return idb.ErrScheduleNotFound
	}
	s.UpdatedAt = time.Now()
	r.schedules[s.ID] = s
	return nil
}

func (r *fakeScheduleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedules[id]; !ok {
		return idb.ErrScheduleNotFound
	}
	delete(r.schedules, id)
	return nil
}

func (r *fakeScheduleRepo) MarkDelivered(_ context.Context, id, quoteID string, deliveredAt, dayStart time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[id]
	if !ok {
		return idb.ErrScheduleNotFound
	}
	if s.LastDeliveryDate.Valid && !s.LastDeliveryDate.Time.Before(dayStart) {
		return idb.ErrAlreadyDeliveredToday
	}
	s.LastDeliveredQuoteID = sql.NullString{String: quoteID, Valid: true}
	s.LastDeliveryDate = sql.NullTime{Time: deliveredAt, Valid: true}
	return nil
}

// fakeDeliveryRepo is an in-memory delivery history.
type fakeDeliveryRepo struct {
	mu      sync.Mutex
	records []*delivery.Record

	createErr error
	pruneErr  error
	listErr   error
}

func (r *fakeDeliveryRepo) Create(_ context.Context, rec *delivery.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeDeliveryRepo) ListQuoteIDsSince(_ context.Context, scheduleID string, since time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, rec := range r.records {
		if rec.ScheduleID != scheduleID || rec.DeliveredAt.Before(since) {
			continue
		}
		if _, ok := seen[rec.QuoteID]; ok {
			continue
		}
		seen[rec.QuoteID] = struct{}{}
		ids = append(ids, rec.QuoteID)
	}
	return ids, nil
}

func (r *fakeDeliveryRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pruneErr != nil {
		return 0, r.pruneErr
	}
	kept := r.records[:0]
	var pruned int64
	for _, rec := range r.records {
		if rec.DeliveredAt.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return pruned, nil
}

func (r *fakeDeliveryRepo) quoteIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.records))
	for _, rec := range r.records {
		ids = append(ids, rec.QuoteID)
	}
	return ids
}

// fakeQuoteRepo serves a fixed catalog.
type fakeQuoteRepo struct {
	catalog []*quote.Quote
	listErr error
}

func (r *fakeQuoteRepo) GetByID(_ context.Context, id string) (*quote.Quote, error) {
	for _, q := range r.catalog {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, idb.ErrQuoteNotFound
}

func (r *fakeQuoteRepo) List(_ context.Context) ([]*quote.Quote, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.catalog, nil
}

// fakeActivityRepo counts reads so cache behavior is observable.
type fakeActivityRepo struct {
	mu         sync.Mutex
	timestamps []time.Time
	kinds      []string
	listCalls  int
	recordErr  error
}

func (r *fakeActivityRepo) Record(_ context.Context, kind string, occurredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recordErr != nil {
		return r.recordErr
	}
	r.timestamps = append(r.timestamps, occurredAt)
	r.kinds = append(r.kinds, kind)
	return nil
}

func (r *fakeActivityRepo) ListTimestamps(_ context.Context) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	return append([]time.Time(nil), r.timestamps...), nil
}

func (r *fakeActivityRepo) ListTimestampsByKind(_ context.Context, kind string) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Time, 0)
	for i, k := range r.kinds {
		if k == kind {
			out = append(out, r.timestamps[i])
		}
	}
	return out, nil
}

// fakeSurface records deliveries it receives.
type fakeSurface struct {
	mu     sync.Mutex
	calls  int
	last   *quote.Quote
	lastAt time.Time
	err    error
}

func (s *fakeSurface) Deliver(_ context.Context, _ *schedule.Schedule, q *quote.Quote, deliveredAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = q
	s.lastAt = deliveredAt
	return s.err
}
