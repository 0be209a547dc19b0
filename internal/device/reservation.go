package device

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/driftlab/device-checkout/internal/directory"
	"github.com/driftlab/device-checkout/internal/infrastructure/logging"
)

// CustomOwnerLookup resolves whether a name is registered as a custom owner.
// Implemented by the owner repository.
type CustomOwnerLookup interface {
	NameExists(ctx context.Context, name string) (bool, error)
}

// Event is a reservation state change broadcast to listeners.
type Event struct {
	Type   string  `json:"type"`
	Device *Device `json:"device"`
}

// Event types published by the engine.
const (
	EventReserved = "device_reserved"
	EventReleased = "device_released"
)

// EventSink receives reservation events. Implemented by the WebSocket hub.
type EventSink interface {
	Publish(event Event)
}

// Engine applies reservation state transitions.
//
// Every transition is a conditional update keyed on the expected prior
// status; a lost race surfaces as ErrReservationConflict and is never
// retried here.
type Engine struct {
	repo   Repository
	owners CustomOwnerLookup
	dir    directory.Directory
	events EventSink
	logger *logging.Logger
}

// NewEngine creates a reservation engine. events may be nil when no
// listener is wired.
func NewEngine(repo Repository, owners CustomOwnerLookup, dir directory.Directory, events EventSink, logger *logging.Logger) *Engine {
	return &Engine{
		repo:   repo,
		owners: owners,
		dir:    dir,
		events: events,
		logger: logger,
	}
}

// ReserveFromPool reserves one available device from the pool, picked at
// random, for the given owner. Returns the reserved device on success,
// ErrNoDeviceAvailable when the pool is exhausted, ErrInvalidReservation
// when the owner fails validation, and ErrReservationConflict when another
// writer took the picked device first.
func (e *Engine) ReserveFromPool(ctx context.Context, poolID int64, owner, comments string) (*Device, error) {
	owner = strings.TrimSpace(owner)
	if err := e.validateOwner(ctx, owner); err != nil {
		return nil, err
	}

	candidate, err := e.repo.AvailableInPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	commentsPtr := optional(comments)
	if err := e.repo.SetReservation(ctx, candidate.ID, StatusAvailable, StatusReserved, &owner, commentsPtr); err != nil {
		return nil, err
	}

	reserved, err := e.repo.GetByID(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("re-reading reserved device: %w", err)
	}

	e.logger.Info("device reserved",
		"device", reserved.DeviceName,
		"pool_id", poolID,
		"owner", owner,
	)
	e.publish(Event{Type: EventReserved, Device: reserved})
	return reserved, nil
}

// Toggle applies a form-driven status change. The caller supplies both the
// desired status and the status it last observed; the update only applies
// while the stored status still matches the observed one.
//
// Setting a device available force-clears owner and comments regardless of
// what the form carried. Setting it reserved requires a valid owner.
func (e *Engine) Toggle(ctx context.Context, id int64, owner, comments string, newStatus, priorStatus Status) error {
	if !newStatus.Valid() || !priorStatus.Valid() {
		return fmt.Errorf("%w: unknown reservation status", ErrInvalidReservation)
	}

	var ownerPtr, commentsPtr *string
	if newStatus == StatusReserved {
		owner = strings.TrimSpace(owner)
		if err := e.validateOwner(ctx, owner); err != nil {
			return err
		}
		ownerPtr = &owner
		commentsPtr = optional(comments)
	}

	err := e.repo.SetReservation(ctx, id, priorStatus, newStatus, ownerPtr, commentsPtr)
	if err == nil {
		d, readErr := e.repo.GetByID(ctx, id)
		if readErr != nil {
			return fmt.Errorf("re-reading toggled device: %w", readErr)
		}
		eventType := EventReleased
		if newStatus == StatusReserved {
			eventType = EventReserved
		}
		e.logger.Info("device toggled",
			"device", d.DeviceName,
			"status", string(newStatus),
		)
		e.publish(Event{Type: eventType, Device: d})
		return nil
	}

	// A zero-row update means either a lost race or a device that never
	// existed. Distinguish the two for the caller.
	if errors.Is(err, ErrReservationConflict) {
		if _, getErr := e.repo.GetByID(ctx, id); getErr != nil {
			return getErr
		}
	}
	return err
}

// Release returns a reserved device to the available state, clearing its
// owner and comments. Returns ErrDeviceNotFound for an unknown device and
// ErrReservationConflict when the device is already available.
func (e *Engine) Release(ctx context.Context, id int64) error {
	d, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := e.repo.SetReservation(ctx, d.ID, StatusReserved, StatusAvailable, nil, nil); err != nil {
		return err
	}

	released, err := e.repo.GetByID(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("re-reading released device: %w", err)
	}

	e.logger.Info("device released", "device", released.DeviceName)
	e.publish(Event{Type: EventReleased, Device: released})
	return nil
}

// validateOwner checks a reservation owner against the directory and the
// custom-owner registry. Directory outages fail open, so a name is only
// rejected when both lookups answered and neither matched.
func (e *Engine) validateOwner(ctx context.Context, owner string) error {
	if owner == "" {
		return fmt.Errorf("%w: Please supply a username when reserving a device", ErrInvalidReservation)
	}

	if e.dir.UserExists(ctx, owner) {
		return nil
	}

	isCustom, err := e.owners.NameExists(ctx, owner)
	if err != nil {
		return fmt.Errorf("checking custom owners: %w", err)
	}
	if isCustom {
		return nil
	}

	return fmt.Errorf("%w: Please enter a valid slack username or custom owner when reserving a device.", ErrInvalidReservation)
}

func (e *Engine) publish(event Event) {
	if e.events != nil {
		e.events.Publish(event)
	}
}

// optional returns nil for empty strings after trimming.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
