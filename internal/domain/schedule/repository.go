package schedule

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving
// Schedule entities.
type Repository interface {
	Create(ctx context.Context, s *Schedule) error
	GetByID(ctx context.Context, id string) (*Schedule, error)
	GetDefault(ctx context.Context) (*Schedule, error)
	ListEnabled(ctx context.Context) ([]*Schedule, error)
	ListAll(ctx context.Context) ([]*Schedule, error)
	Update(ctx context.Context, s *Schedule) error
	Delete(ctx context.Context, id string) error

	// MarkDelivered updates the schedule's last-delivery pointer, but
	// only if no delivery has been recorded on or after dayStart (the
	// start of the delivery's calendar day in the engine's zone). When
	// another writer got there first the update matches zero rows and
	// the implementation returns ErrAlreadyDeliveredToday.
	MarkDelivered(ctx context.Context, id, quoteID string, deliveredAt, dayStart time.Time) error
}
