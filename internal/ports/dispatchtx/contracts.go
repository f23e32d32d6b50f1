// Package dispatchtx declares the transactional storage port used by the
// dispatch service. It lives apart from both the service and the repository
// so neither imports the other.
package dispatchtx

import (
	"context"

	"orderdesk/internal/domain"
)

// Repository is the set of storage operations available inside a single
// dispatch transaction. Row locks taken by the ForUpdate reads hold until
// the transaction commits or rolls back.
type Repository interface {
	GetOrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error)
	SetOrderDriver(ctx context.Context, orderID string, driverID *int64) error
	GetDriverForUpdate(ctx context.Context, id int64) (*domain.Driver, error)
	AdjustDriverLoad(ctx context.Context, id int64, delta int) error
}
