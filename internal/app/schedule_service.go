package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quote_delivery_engine/internal/domain/activity"
	"quote_delivery_engine/internal/domain/delivery"
	"quote_delivery_engine/internal/domain/quote"
	"quote_delivery_engine/internal/domain/schedule"
	idb "quote_delivery_engine/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Custom application-level errors for the schedule facade.
var ErrInvalidScheduleTime = fmt.Errorf("scheduled time must be within 0-23 hours and 0-59 minutes")
var ErrInvalidDeliveryMethod = fmt.Errorf("delivery method must be NOTIFICATION, WIDGET or BOTH")
var ErrInvalidExclusionWindow = fmt.Errorf("exclude-recent window must not be negative")

// Defaults used when EnsureDefaultSchedule has to create the first
// schedule: enabled, 09:00, both surfaces, no filters.
const (
	defaultScheduledHour   = 9
	defaultScheduledMinute = 0
)

// ScheduleParams carries the caller-settable fields for create and
// update operations.
type ScheduleParams struct {
	IsEnabled         bool
	ScheduledHour     int
	ScheduledMinute   int
	DeliveryMethod    schedule.DeliveryMethod
	FavoritesOnly     bool
	Categories        []string
	ExcludeRecentDays int
	IsDefault         bool
}

func (p ScheduleParams) validate() error {
	if p.ScheduledHour < 0 || p.ScheduledHour > 23 || p.ScheduledMinute < 0 || p.ScheduledMinute > 59 {
		return ErrInvalidScheduleTime
	}
	if !p.DeliveryMethod.Valid() {
		return ErrInvalidDeliveryMethod
	}
	if p.ExcludeRecentDays < 0 {
		return ErrInvalidExclusionWindow
	}
	return nil
}

// DeliveryOutcome is the per-schedule result of one delivery batch.
// Exactly one of QuoteID, SkipReason, or Err is meaningful.
type DeliveryOutcome struct {
	ScheduleID string
	QuoteID    string
	SkipReason string
	Err        error
}

// ScheduleService is the store facade: schedule CRUD, the default
// schedule guarantee, and the composed delivery batch.
type ScheduleService struct {
	schedules  schedule.Repository
	quotes     quote.Repository
	selector   *Selector
	tracker    *DeliveryTracker
	engagement *EngagementService
	notifier   delivery.Surface
	widget     delivery.Surface
	zone       *time.Location
	logger     *logrus.Logger
}

func NewScheduleService(
	schedules schedule.Repository,
	quotes quote.Repository,
	selector *Selector,
	tracker *DeliveryTracker,
	engagement *EngagementService,
	notifier delivery.Surface,
	widget delivery.Surface,
	zone *time.Location,
	logger *logrus.Logger,
) *ScheduleService {
	return &ScheduleService{
		schedules:  schedules,
		quotes:     quotes,
		selector:   selector,
		tracker:    tracker,
		engagement: engagement,
		notifier:   notifier,
		widget:     widget,
		zone:       zone,
		logger:     logger,
	}
}

// CreateSchedule validates and persists a new schedule. The at-most-
// one-default invariant is enforced here at creation time, with the
// partial unique index as the persistence backstop for races.
func (s *ScheduleService) CreateSchedule(ctx context.Context, p ScheduleParams) (*schedule.Schedule, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	if p.IsDefault {
		_, err := s.schedules.GetDefault(ctx)
		if err == nil {
			return nil, idb.ErrDefaultScheduleExists
		}
		if !errors.Is(err, idb.ErrScheduleNotFound) {
			return nil, fmt.Errorf("failed to check existing default schedule: %w", err)
		}
	}

	sched := &schedule.Schedule{
		ID:                uuid.NewString(),
		IsEnabled:         p.IsEnabled,
		ScheduledHour:     p.ScheduledHour,
		ScheduledMinute:   p.ScheduledMinute,
		DeliveryMethod:    p.DeliveryMethod,
		FavoritesOnly:     p.FavoritesOnly,
		Categories:        p.Categories,
		ExcludeRecentDays: p.ExcludeRecentDays,
		IsDefault:         p.IsDefault,
	}
	if err := s.schedules.Create(ctx, sched); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"schedule_id": sched.ID,
		"time":        fmt.Sprintf("%02d:%02d", sched.ScheduledHour, sched.ScheduledMinute),
		"method":      sched.DeliveryMethod,
	}).Info("Schedule created")
	return sched, nil
}

// UpdateSchedule applies the caller-settable fields to an existing
// schedule. The default flag is not updatable; the default schedule
// stays default for its lifetime.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, id string, p ScheduleParams) (*schedule.Schedule, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	sched, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The fetched pointer may be the cached entry itself, shared with
	// concurrent readers; apply the params to a copy so a rejected
	// update leaves the cache serving what the store actually holds.
	updated := *sched
	updated.IsEnabled = p.IsEnabled
	updated.ScheduledHour = p.ScheduledHour
	updated.ScheduledMinute = p.ScheduledMinute
	updated.DeliveryMethod = p.DeliveryMethod
	updated.FavoritesOnly = p.FavoritesOnly
	updated.Categories = p.Categories
	updated.ExcludeRecentDays = p.ExcludeRecentDays

	if err := s.schedules.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ScheduleService) DeleteSchedule(ctx context.Context, id string) error {
	return s.schedules.Delete(ctx, id)
}

func (s *ScheduleService) GetSchedule(ctx context.Context, id string) (*schedule.Schedule, error) {
	return s.schedules.GetByID(ctx, id)
}

func (s *ScheduleService) ListSchedules(ctx context.Context) ([]*schedule.Schedule, error) {
	return s.schedules.ListAll(ctx)
}

func (s *ScheduleService) ListEnabledSchedules(ctx context.Context) ([]*schedule.Schedule, error) {
	return s.schedules.ListEnabled(ctx)
}

// EnsureDefaultSchedule returns the default schedule, creating one
// with safe defaults when none exists. Idempotence comes from the
// insert-if-absent semantics at the persistence boundary (the partial
// unique index), never from in-memory flags: a concurrent creator
// winning the insert simply makes this call re-read the winner.
func (s *ScheduleService) EnsureDefaultSchedule(ctx context.Context) (*schedule.Schedule, error) {
	existing, err := s.schedules.GetDefault(ctx)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, idb.ErrScheduleNotFound) {
		return nil, fmt.Errorf("failed to look up default schedule: %w", err)
	}

	sched := &schedule.Schedule{
		ID:              uuid.NewString(),
		IsEnabled:       true,
		ScheduledHour:   defaultScheduledHour,
		ScheduledMinute: defaultScheduledMinute,
		DeliveryMethod:  schedule.MethodBoth,
		IsDefault:       true,
	}
	if err := s.schedules.Create(ctx, sched); err != nil {
		if errors.Is(err, idb.ErrDefaultScheduleExists) {
			return s.schedules.GetDefault(ctx)
		}
		return nil, fmt.Errorf("failed to create default schedule: %w", err)
	}
	s.logger.WithField("schedule_id", sched.ID).Info("Default schedule created")
	return sched, nil
}

// DeliverDueQuotes runs one delivery batch: readiness, selection,
// tracking, surface dispatch. Per-schedule failures are isolated into
// their outcome so one broken schedule cannot starve the others; only
// a failure to read the inputs aborts the batch.
func (s *ScheduleService) DeliverDueQuotes(ctx context.Context, now time.Time) ([]DeliveryOutcome, error) {
	enabled, err := s.schedules.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled schedules: %w", err)
	}

	readyIDs := ReadySchedules(enabled, now, s.zone)
	if len(readyIDs) == 0 {
		s.logger.Debug("No schedules ready for delivery")
		return nil, nil
	}

	catalog, err := s.quotes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote catalog: %w", err)
	}

	byID := make(map[string]*schedule.Schedule, len(enabled))
	for _, sched := range enabled {
		byID[sched.ID] = sched
	}

	outcomes := make([]DeliveryOutcome, 0, len(readyIDs))
	for _, id := range readyIDs {
		// Cancellation mid-batch keeps already-recorded deliveries;
		// partial progress is expected.
		if ctx.Err() != nil {
			return outcomes, ctx.Err()
		}
		outcomes = append(outcomes, s.deliverToSchedule(ctx, byID[id], catalog, now))
	}
	return outcomes, nil
}

func (s *ScheduleService) deliverToSchedule(ctx context.Context, sched *schedule.Schedule, catalog []*quote.Quote, now time.Time) DeliveryOutcome {
	outcome := DeliveryOutcome{ScheduleID: sched.ID}

	q, err := s.selector.SelectNext(ctx, sched, catalog, now)
	if err != nil {
		s.logger.WithError(err).WithField("schedule_id", sched.ID).Error("Quote selection failed")
		outcome.Err = err
		return outcome
	}
	if q == nil {
		s.logger.WithField("schedule_id", sched.ID).Info("No eligible quote for schedule")
		outcome.SkipReason = "no eligible quote"
		return outcome
	}

	if err := s.tracker.RecordDelivery(ctx, sched.ID, q.ID, now); err != nil {
		if errors.Is(err, idb.ErrAlreadyDeliveredToday) {
			s.logger.WithField("schedule_id", sched.ID).Info("Schedule already delivered today; skipping")
			outcome.SkipReason = "already delivered today"
			return outcome
		}
		s.logger.WithError(err).WithField("schedule_id", sched.ID).Error("Failed to record delivery")
		outcome.Err = err
		return outcome
	}

	// The delivery itself counts toward the activity streak.
	if s.engagement != nil {
		if err := s.engagement.RecordEvent(ctx, activity.KindQuoteDelivery, now); err != nil {
			s.logger.WithError(err).Warn("Failed to record delivery activity event")
		}
	}

	s.dispatchSurfaces(ctx, sched, q, now)
	outcome.QuoteID = q.ID
	return outcome
}

// dispatchSurfaces pushes the quote to the schedule's surfaces.
// Surface failures are logged, never propagated as scheduling
// failures: the delivery is already recorded.
func (s *ScheduleService) dispatchSurfaces(ctx context.Context, sched *schedule.Schedule, q *quote.Quote, deliveredAt time.Time) {
	if sched.DeliveryMethod.WantsNotification() && s.notifier != nil {
		if err := s.notifier.Deliver(ctx, sched, q, deliveredAt); err != nil {
			s.logger.WithError(err).WithField("schedule_id", sched.ID).Error("Notification surface failed")
		}
	}
	if sched.DeliveryMethod.WantsWidget() && s.widget != nil {
		if err := s.widget.Deliver(ctx, sched, q, deliveredAt); err != nil {
			s.logger.WithError(err).WithField("schedule_id", sched.ID).Error("Widget surface failed")
		}
	}
}
