// Package device provides the device model, persistence, and the
// reservation engine.
//
// A device belongs to exactly one pool and is either available or reserved.
// All reservation state changes go through conditional updates keyed on the
// expected prior status, so two racing writers can never both win: the loser's
// UPDATE matches zero rows and surfaces as ErrReservationConflict.
package device
