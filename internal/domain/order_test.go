package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOrder_SubtotalAndTotal(t *testing.T) {
	t.Parallel()

	o := &Order{
		Delivery: DeliveryInfo{Type: DeliveryTypeDelivery, Fee: money("2.50")},
		Items: []OrderItem{
			{Name: "Margherita", UnitPrice: money("9.95"), Quantity: 2},
			{Name: "Cola", UnitPrice: money("2.10"), Quantity: 3},
		},
	}

	require.True(t, o.Subtotal().Equal(money("26.20")), "subtotal = %s", o.Subtotal())
	require.True(t, o.Total().Equal(money("28.70")), "total = %s", o.Total())
}

func TestOrder_Total_PickupIgnoresFee(t *testing.T) {
	t.Parallel()

	o := &Order{
		Delivery: DeliveryInfo{Type: DeliveryTypePickup, Fee: money("2.50")},
		Items:    []OrderItem{{Name: "Margherita", UnitPrice: money("9.95"), Quantity: 1}},
	}

	require.True(t, o.Total().Equal(money("9.95")))
}

func TestOrder_Total_Empty(t *testing.T) {
	t.Parallel()

	o := &Order{Delivery: DeliveryInfo{Type: DeliveryTypePickup}}
	require.True(t, o.Total().IsZero())
}

func TestOrder_CountsTowardRevenue(t *testing.T) {
	t.Parallel()

	paid := &Order{Payment: Payment{Method: PaymentMethodIdeal, Status: PaymentStatusPaid}}
	cashUnpaid := &Order{Payment: Payment{Method: PaymentMethodCash, Status: PaymentStatusUnpaid}}
	cardPending := &Order{Payment: Payment{Method: PaymentMethodCard, Status: PaymentStatusPending}}

	require.True(t, paid.CountsTowardRevenue())
	require.True(t, cashUnpaid.CountsTowardRevenue())
	require.False(t, cardPending.CountsTowardRevenue())
}

func TestDriver_EffectiveStatus(t *testing.T) {
	t.Parallel()

	d := &Driver{}
	require.Equal(t, DriverAvailable, d.EffectiveStatus())
	require.True(t, d.Assignable())

	d.ActiveDeliveries = 2
	require.Equal(t, DriverBusy, d.EffectiveStatus())
	require.True(t, d.Assignable())

	// operator override wins over load
	d.ManuallyOffline = true
	require.Equal(t, DriverOffline, d.EffectiveStatus())
	require.False(t, d.Assignable())
}

func TestValidatePhone(t *testing.T) {
	t.Parallel()

	require.True(t, ValidatePhone("+31612345678"))
	require.False(t, ValidatePhone("0612345678"))
	require.False(t, ValidatePhone("+31 6 1234 5678"))
	require.False(t, ValidatePhone(""))
}
