package dispatch

import (
	"context"
	"time"

	"orderdesk/internal/domain"
	"orderdesk/internal/ports/dispatchtx"
)

// TxRunner abstracts running a function within a store transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx dispatchtx.Repository) error) error
}

// OrderReader reads order state outside a transaction.
type OrderReader interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	StartDelivery(ctx context.Context, id string, departedAt, eta time.Time, version int64) (*domain.Order, error)
}

// DriverLister lists drivers for the candidate view.
type DriverLister interface {
	List(ctx context.Context) ([]domain.Driver, error)
}
