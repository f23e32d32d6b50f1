//go:generate mockgen -source=contracts.go -destination=orderflow_mocks_test.go -package=orderflow_test

package orderflow

import (
	"context"

	"orderdesk/internal/domain"
)

// OrderStore defines the storage operations required by the lifecycle service.
type OrderStore interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, version int64) (*domain.Order, error)
	AppendStaffNote(ctx context.Context, id string, note domain.StaffNote) error
}
