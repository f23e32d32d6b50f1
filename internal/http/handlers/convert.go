package handlers

import (
	"time"

	"orderdesk/internal/domain"
)

// pickupEstimator derives the displayed ready time for pickup orders.
type pickupEstimator interface {
	PickupReadyAt(o *domain.Order) time.Time
}

func orderToResponse(o *domain.Order, est pickupEstimator) orderDTO {
	dto := orderDTO{
		ID:            o.ID,
		Number:        o.Number,
		CustomerName:  o.CustomerName,
		Status:        o.Status,
		PaymentMethod: o.Payment.Method,
		PaymentStatus: o.Payment.Status,
		DeliveryType:  o.Delivery.Type,
		DeliveryFee:   o.Delivery.Fee.StringFixed(2),
		Items:         o.Items,
		Subtotal:      o.Subtotal().StringFixed(2),
		Total:         o.Total().StringFixed(2),

		AssignedDriverID:      o.AssignedDriverID,
		DeliveryDepartedAt:    o.DeliveryDepartedAt,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,

		StaffNotes: o.StaffNotes,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Version:    o.Version,
	}
	if o.Delivery.Type == domain.DeliveryTypePickup && est != nil && !o.Status.Terminal() {
		t := est.PickupReadyAt(o)
		dto.PickupReadyAt = &t
	}
	return dto
}

func ordersToResponse(list []domain.Order, est pickupEstimator) []orderDTO {
	out := make([]orderDTO, 0, len(list))
	for i := range list {
		out = append(out, orderToResponse(&list[i], est))
	}
	return out
}

func driverToResponse(d domain.Driver) driverDTO {
	return driverDTO{
		ID:               d.ID,
		Name:             d.Name,
		Phone:            d.Phone,
		Status:           d.EffectiveStatus(),
		ManuallyOffline:  d.ManuallyOffline,
		ActiveDeliveries: d.ActiveDeliveries,
	}
}

func driversToResponse(list []domain.Driver) []driverDTO {
	out := make([]driverDTO, 0, len(list))
	for _, d := range list {
		out = append(out, driverToResponse(d))
	}
	return out
}
