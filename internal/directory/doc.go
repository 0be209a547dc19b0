// Package directory provides user and channel existence lookups against the
// external chat directory (Slack).
//
// Reservation owners and custom-owner recipients are validated against the
// directory before a device can be reserved. The adapter deliberately fails
// open: if the directory is unreachable, names are treated as valid rather
// than blocking every reservation on an external outage.
//
// Two implementations are provided:
//   - SlackClient: live lookups via users.list / conversations.list
//   - Static: a fixed in-memory directory for tests and token-less deployments
//
// # Thread Safety
//
// Both implementations are safe for concurrent use from multiple goroutines.
package directory
