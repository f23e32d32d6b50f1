package kafka

import (
	"strings"
	"time"
)

// ChangeEvent is a single order-change notification from the store's feed.
type ChangeEvent struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

// Normalize trims whitespace so downstream matching is exact.
func (e ChangeEvent) Normalize() ChangeEvent {
	e.OrderID = strings.TrimSpace(e.OrderID)
	e.Status = strings.ToLower(strings.TrimSpace(e.Status))
	return e
}
