package domain

import "regexp"

// DriverStatus is the effective availability of a driver.
type DriverStatus string

// List of possible driver statuses
const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy"
	DriverOffline   DriverStatus = "offline"
)

// Driver is a dispatchable delivery agent.
//
// Busy/available is derived from load; offline is an explicit operator
// override kept in its own flag so the two concepts cannot shadow each
// other when deliveries are outstanding.
type Driver struct {
	ID               int64
	Name             string
	Phone            string
	ManuallyOffline  bool
	ActiveDeliveries int
}

// EffectiveStatus computes the driver's availability: the manual offline
// override wins, otherwise busy iff at least one delivery is active.
func (d *Driver) EffectiveStatus() DriverStatus {
	switch {
	case d.ManuallyOffline:
		return DriverOffline
	case d.ActiveDeliveries > 0:
		return DriverBusy
	default:
		return DriverAvailable
	}
}

// Assignable reports whether the driver may be offered a new delivery.
func (d *Driver) Assignable() bool {
	return !d.ManuallyOffline
}

// PartialDriverUpdate carries optional fields to update a driver.
// A nil field means “do not change” that attribute.
type PartialDriverUpdate struct {
	ID    int64
	Name  *string
	Phone *string
}

// rePhone validates international phone numbers with 9 to 13 digits.
var rePhone = regexp.MustCompile(`^\+[0-9]{9,13}$`)

// ValidatePhone validates the phone number format.
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
