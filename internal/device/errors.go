package device

import "errors"

var (
	// ErrDeviceNotFound is returned when a device id or name does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when creating a device whose name is taken.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrInvalidDevice is returned when device validation fails. The wrapped
	// message is user-facing.
	ErrInvalidDevice = errors.New("device: invalid")

	// ErrInvalidReservation is returned when a reservation request fails
	// validation, such as a missing or unknown owner.
	ErrInvalidReservation = errors.New("device: invalid reservation")

	// ErrNoDeviceAvailable is returned when a pool has no available device
	// to reserve.
	ErrNoDeviceAvailable = errors.New("device: no device available in pool")

	// ErrReservationConflict is returned when a conditional status update
	// matches zero rows because another writer changed the device first.
	ErrReservationConflict = errors.New("device: reservation conflict")
)
