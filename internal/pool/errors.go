package pool

import "errors"

var (
	// ErrPoolNotFound is returned when a pool id does not exist.
	ErrPoolNotFound = errors.New("pool: not found")

	// ErrPoolExists is returned when creating a pool whose name is taken.
	ErrPoolExists = errors.New("pool: already exists")

	// ErrInvalidPool is returned when pool validation fails. The wrapped
	// message is user-facing.
	ErrInvalidPool = errors.New("pool: invalid")

	// ErrDefaultPool is returned when attempting to delete the Default Pool.
	ErrDefaultPool = errors.New("pool: default pool cannot be deleted")

	// ErrPoolNotEmpty is returned when attempting to delete a pool that
	// still contains devices.
	ErrPoolNotEmpty = errors.New("pool: cannot delete non-empty pool")
)
