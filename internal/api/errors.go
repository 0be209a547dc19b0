package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/driftlab/device-checkout/internal/device"
	"github.com/driftlab/device-checkout/internal/owner"
	"github.com/driftlab/device-checkout/internal/pool"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeInternal   = "internal_error"
	ErrCodeValidation = "validation_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps a domain error onto the HTTP taxonomy:
// not-found sentinels to 404, validation failures to 422, lost races and
// uniqueness collisions to 409, everything else to 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case isNotFoundError(err):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, userMessage(err))
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, userMessage(err))
	case isConflictError(err):
		writeError(w, http.StatusConflict, ErrCodeConflict, userMessage(err))
	default:
		writeInternalError(w, "internal server error")
	}
}

// isNotFoundError reports whether err is a not-found sentinel.
func isNotFoundError(err error) bool {
	return errors.Is(err, device.ErrDeviceNotFound) ||
		errors.Is(err, device.ErrNoDeviceAvailable) ||
		errors.Is(err, pool.ErrPoolNotFound) ||
		errors.Is(err, owner.ErrOwnerNotFound)
}

// isValidationError reports whether err is a validation failure. Guard
// rejections (default pool, non-empty pool, in-use custom owner) carry
// user-facing messages and map to validation too.
func isValidationError(err error) bool {
	return errors.Is(err, device.ErrInvalidDevice) ||
		errors.Is(err, device.ErrInvalidReservation) ||
		errors.Is(err, pool.ErrInvalidPool) ||
		errors.Is(err, pool.ErrDefaultPool) ||
		errors.Is(err, pool.ErrPoolNotEmpty) ||
		errors.Is(err, owner.ErrInvalidOwner) ||
		errors.Is(err, owner.ErrOwnerInUse)
}

// isConflictError reports whether err is a lost race or uniqueness collision.
func isConflictError(err error) bool {
	return errors.Is(err, device.ErrReservationConflict) ||
		errors.Is(err, device.ErrDeviceExists) ||
		errors.Is(err, pool.ErrPoolExists) ||
		errors.Is(err, owner.ErrOwnerExists)
}

// userMessage strips the sentinel prefix from a wrapped domain error,
// leaving the user-facing part. "device: invalid: URL was invalid"
// becomes "URL was invalid". Bare sentinels and messages that themselves
// contain ": " pass through whole.
func userMessage(err error) string {
	msg := err.Error()

	sentinel := err
	for {
		inner := errors.Unwrap(sentinel)
		if inner == nil {
			break
		}
		sentinel = inner
	}
	if sentinel == err {
		return msg
	}

	if tail, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok && tail != "" {
		return tail
	}
	return msg
}
