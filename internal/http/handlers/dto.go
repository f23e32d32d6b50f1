package handlers

import (
	"time"

	"orderdesk/internal/domain"
)

type orderDTO struct {
	ID            string               `json:"id"`
	Number        int                  `json:"number"`
	CustomerName  string               `json:"customer_name"`
	Status        domain.OrderStatus   `json:"status"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	DeliveryType  domain.DeliveryType  `json:"delivery_type"`
	DeliveryFee   string               `json:"delivery_fee"`
	Items         []domain.OrderItem   `json:"items"`
	Subtotal      string               `json:"subtotal"`
	Total         string               `json:"total"`

	AssignedDriverID      *int64     `json:"assigned_driver_id,omitempty"`
	DeliveryDepartedAt    *time.Time `json:"delivery_departed_at,omitempty"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	PickupReadyAt         *time.Time `json:"pickup_ready_at,omitempty"`

	StaffNotes []domain.StaffNote `json:"staff_notes,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Version    int64              `json:"version"`
}

type driverDTO struct {
	ID               int64               `json:"id"`
	Name             string              `json:"name"`
	Phone            string              `json:"phone"`
	Status           domain.DriverStatus `json:"status"`
	ManuallyOffline  bool                `json:"manually_offline"`
	ActiveDeliveries int                 `json:"active_deliveries"`
}

type updateStatusRequest struct {
	Status  domain.OrderStatus `json:"status"`
	Version int64              `json:"version"`
}

type appendNoteRequest struct {
	Author string `json:"author,omitempty"`
	Text   string `json:"text"`
}

type assignDriverRequest struct {
	DriverID *int64 `json:"driver_id"`
}

type startDeliveryRequest struct {
	EstimatedMinutes int `json:"estimated_minutes"`
}

type createDriverRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type updateDriverRequest struct {
	ID    int64   `json:"id"`
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

type setOfflineRequest struct {
	Offline bool `json:"offline"`
}
