package api

import (
	"fmt"
	"testing"

	"github.com/driftlab/device-checkout/internal/device"
	"github.com/driftlab/device-checkout/internal/pool"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"wrapped validation message",
			fmt.Errorf("%w: URL was invalid", device.ErrInvalidDevice),
			"URL was invalid",
		},
		{
			"wrapped message containing a colon",
			fmt.Errorf("%w: recipient must be a user: channel or none", device.ErrInvalidReservation),
			"recipient must be a user: channel or none",
		},
		{
			"bare sentinel passes through whole",
			device.ErrDeviceNotFound,
			"device: not found",
		},
		{
			"delete guard message",
			fmt.Errorf("%w: Default pool cannot be deleted", pool.ErrDefaultPool),
			"Default pool cannot be deleted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.err); got != tt.want {
				t.Errorf("userMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
