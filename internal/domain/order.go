package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a single ordered line: a menu item at a unit price times quantity.
type OrderItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
}

// Payment carries how an order is paid and the settlement state.
type Payment struct {
	Method PaymentMethod `json:"method"`
	Status PaymentStatus `json:"status"`
}

// DeliveryInfo carries the fulfilment mode and its fee.
type DeliveryInfo struct {
	Type DeliveryType    `json:"type"`
	Fee  decimal.Decimal `json:"fee"`
}

// StaffNote is a single append-only note left by an operator on an order.
type StaffNote struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is the unit of work tracked by the console.
type Order struct {
	ID                    string
	Number                int
	CustomerName          string
	Status                OrderStatus
	Payment               Payment
	Delivery              DeliveryInfo
	Items                 []OrderItem
	AssignedDriverID      *int64
	DeliveryDepartedAt    *time.Time
	EstimatedDeliveryTime *time.Time
	StaffNotes            []StaffNote
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Version is the optimistic-concurrency token; every mutating store
	// call requires the caller's last seen value.
	Version int64
}

// Subtotal is the sum of unit price times quantity over all items.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Total is the subtotal plus the delivery fee for delivery-type orders.
func (o *Order) Total() decimal.Decimal {
	total := o.Subtotal()
	if o.Delivery.Type == DeliveryTypeDelivery {
		total = total.Add(o.Delivery.Fee)
	}
	return total
}

// CountsTowardRevenue reports whether the payment is acceptable for
// analytics: settled online payments and all cash orders count.
func (o *Order) CountsTowardRevenue() bool {
	return o.Payment.Status == PaymentStatusPaid || o.Payment.Method == PaymentMethodCash
}
