// Package pool provides the device pool grouping model.
//
// Pools group devices by team, lab, or location. Every deployment has a
// Default Pool (id 1), seeded by migration, which can never be deleted.
// A pool can only be deleted once it contains no devices; the device-count
// check runs in the same transaction as the delete so the guard cannot race
// with a concurrent device move.
package pool
