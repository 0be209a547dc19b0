package directory

import (
	"context"
	"strings"
)

// Directory answers existence queries for chat users and channels.
//
// Implementations never return errors: lookup failures are absorbed into a
// fail-open true so that an external outage cannot block reservations.
type Directory interface {
	// UserExists reports whether a non-deleted, non-bot user with the given
	// name or display name exists. Matching is case-insensitive.
	UserExists(ctx context.Context, name string) bool

	// ChannelExists reports whether a non-archived channel with the given
	// name exists. Matching is case-insensitive.
	ChannelExists(ctx context.Context, name string) bool
}

// Static is a fixed in-memory Directory.
//
// It backs tests and deployments without a Slack token, where the custom
// owner registry is the only source of truth.
type Static struct {
	Users    []string
	Channels []string
}

// UserExists reports whether name matches a configured user (case-insensitive).
func (s *Static) UserExists(_ context.Context, name string) bool {
	return containsFold(s.Users, name)
}

// ChannelExists reports whether name matches a configured channel (case-insensitive).
func (s *Static) ChannelExists(_ context.Context, name string) bool {
	return containsFold(s.Channels, name)
}

func containsFold(list []string, name string) bool {
	for _, candidate := range list {
		if strings.EqualFold(candidate, name) {
			return true
		}
	}
	return false
}
