package quote

import "context"

// Repository defines read-only access to the quote catalog. Writes
// belong to the content subsystem, not to the delivery engine.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Quote, error)
	List(ctx context.Context) ([]*Quote, error)
}
