package scheduler

import (
	"context"
	"time"

	"quote_delivery_engine/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DeliveryService is the slice of the schedule facade the trigger
// invokes.
type DeliveryService interface {
	DeliverDueQuotes(ctx context.Context, now time.Time) ([]app.DeliveryOutcome, error)
}

// deliveryRunTimeout bounds one batch; the cadence itself provides the
// effective retry interval, so a stuck run must not pile up.
const deliveryRunTimeout = 5 * time.Minute

// DeliveryScheduler is the periodic trigger collaborator. It may fire
// more often than necessary; idempotence is the engine's job, not the
// trigger's.
type DeliveryScheduler struct {
	cronEngine       *cron.Cron
	deliveries       DeliveryService
	logger           *logrus.Logger
	cronSpecDelivery string
}

func NewDeliveryScheduler(
	deliveries DeliveryService,
	logger *logrus.Logger,
	cronSpecDelivery string, // e.g. "0 * * * *" (hourly on the hour)
	zone *time.Location,
) *DeliveryScheduler {
	return &DeliveryScheduler{
		cronEngine:       cron.New(cron.WithLocation(zone)),
		deliveries:       deliveries,
		logger:           logger,
		cronSpecDelivery: cronSpecDelivery,
	}
}

func (s *DeliveryScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpecDelivery, s.runDeliveryBatch)
	if err != nil {
		return err
	}
	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecDelivery).Info("Delivery scheduler started")
	return nil
}

func (s *DeliveryScheduler) runDeliveryBatch() {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryRunTimeout)
	defer cancel()

	now := time.Now()
	outcomes, err := s.deliveries.DeliverDueQuotes(ctx, now)
	if err != nil {
		// Leave the records as they are; the next trigger run retries.
		s.logger.WithError(err).Error("Delivery batch failed")
		return
	}

	var delivered, skipped, failed int
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
		case o.SkipReason != "":
			skipped++
		default:
			delivered++
		}
	}
	s.logger.WithFields(logrus.Fields{
		"ready":     len(outcomes),
		"delivered": delivered,
		"skipped":   skipped,
		"failed":    failed,
	}).Info("Delivery batch finished")
}

func (s *DeliveryScheduler) Stop() {
	s.logger.Info("Stopping delivery scheduler...")
	ctx := s.cronEngine.Stop() // no new runs; wait for the active one
	<-ctx.Done()
	s.logger.Info("Delivery scheduler gracefully stopped")
}
