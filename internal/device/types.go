package device

import "time"

// Status is the reservation state of a device.
type Status string

const (
	// StatusAvailable means the device can be reserved.
	StatusAvailable Status = "available"

	// StatusReserved means the device is held by an owner.
	StatusReserved Status = "reserved"
)

// Valid reports whether s is a known reservation status.
func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusReserved
}

// Device represents a piece of shared hardware that can be checked out.
type Device struct {
	ID                int64     `json:"id"`
	DeviceName        string    `json:"device_name"`
	DeviceURL         string    `json:"device_url"`
	DeviceOwner       *string   `json:"device_owner,omitempty"`
	Comments          *string   `json:"comments,omitempty"`
	ReservationStatus Status    `json:"reservation_status"`
	PoolID            int64     `json:"pool_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Reserved reports whether the device is currently held.
func (d *Device) Reserved() bool {
	return d.ReservationStatus == StatusReserved
}
