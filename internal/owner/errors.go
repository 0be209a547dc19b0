package owner

import "errors"

var (
	// ErrOwnerNotFound is returned when a custom owner id or name does not exist.
	ErrOwnerNotFound = errors.New("owner: not found")

	// ErrOwnerExists is returned when creating a custom owner whose name is taken.
	ErrOwnerExists = errors.New("owner: already exists")

	// ErrInvalidOwner is returned when custom owner validation fails. The
	// wrapped message is user-facing.
	ErrInvalidOwner = errors.New("owner: invalid")

	// ErrOwnerInUse is returned when renaming or deleting a custom owner
	// that still holds reserved devices.
	ErrOwnerInUse = errors.New("owner: has reserved devices")
)
