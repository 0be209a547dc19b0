package device

import (
	"fmt"
	"net/url"
	"strings"
)

const maxNameLength = 100

// ValidateDevice checks the editable fields of a device.
// Returns an error carrying the first user-facing validation message.
func ValidateDevice(d *Device) error {
	if d == nil {
		return ErrInvalidDevice
	}
	if err := ValidateName(d.DeviceName); err != nil {
		return err
	}
	if err := ValidateURL(d.DeviceURL); err != nil {
		return err
	}
	if d.ReservationStatus != "" && !d.ReservationStatus.Valid() {
		return fmt.Errorf("%w: unknown reservation status %q", ErrInvalidDevice, d.ReservationStatus)
	}
	return nil
}

// ValidateName checks that a device name is non-empty after trimming.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: Device names cannot be empty", ErrInvalidDevice)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidDevice, maxNameLength)
	}
	return nil
}

// ValidateURL checks that a device URL parses as an absolute URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: URL was invalid", ErrInvalidDevice)
	}
	return nil
}
