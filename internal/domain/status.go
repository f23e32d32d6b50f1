package domain

type (
	// OrderStatus represents the lifecycle state of an order.
	OrderStatus string
	// DeliveryType represents how an order reaches the customer.
	DeliveryType string
	// PaymentMethod represents how an order is paid.
	PaymentMethod string
	// PaymentStatus represents the settlement state of a payment.
	PaymentStatus string
)

// List of possible order statuses
const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivery  OrderStatus = "delivery"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// List of possible delivery types
const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

// List of possible payment methods
const (
	PaymentMethodIdeal      PaymentMethod = "ideal"
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodBancontact PaymentMethod = "bancontact"
)

// List of possible payment statuses
const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var allowedStatuses = [...]OrderStatus{
	StatusPending, StatusPreparing, StatusReady,
	StatusDelivery, StatusCompleted, StatusCancelled,
}

var allowedPaymentMethods = [...]PaymentMethod{
	PaymentMethodIdeal, PaymentMethodCard, PaymentMethodCash, PaymentMethodBancontact,
}

// Valid checks if the OrderStatus is valid.
func (s OrderStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is accepted from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid checks if the DeliveryType is valid.
func (t DeliveryType) Valid() bool {
	return t == DeliveryTypeDelivery || t == DeliveryTypePickup
}

// Valid checks if the PaymentMethod is valid.
func (m PaymentMethod) Valid() bool {
	for _, v := range allowedPaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

// NextForward returns the single forward status reachable from s for the
// given delivery type, or "" when s has no forward step (terminal states).
func (s OrderStatus) NextForward(t DeliveryType) OrderStatus {
	switch s {
	case StatusPending:
		return StatusPreparing
	case StatusPreparing:
		if t == DeliveryTypeDelivery {
			return StatusDelivery
		}
		return StatusReady
	case StatusReady, StatusDelivery:
		return StatusCompleted
	default:
		return ""
	}
}

// CanTransition reports whether moving from s to target follows the
// lifecycle graph: pending → preparing → {ready | delivery} → completed,
// with cancellation allowed from any non-terminal state. Transitions are
// monotonic; an order never regresses to an earlier status.
func (s OrderStatus) CanTransition(target OrderStatus, t DeliveryType) bool {
	if s.Terminal() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	return target != "" && s.NextForward(t) == target
}
