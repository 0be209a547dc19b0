package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/driftlab/device-checkout/internal/device"
)

// ReservationRequest is the payload for POST /api/v1/reservations.
type ReservationRequest struct {
	Device struct {
		PoolID int64 `json:"pool_id"`
	} `json:"device"`
	DeviceOwner string `json:"device_owner"`
	Comments    string `json:"comments"`
}

// Reservation is the response for a successful reservation. The reservation
// id is the reserved device's id.
type Reservation struct {
	ID          int64          `json:"id"`
	Device      *device.Device `json:"device"`
	DeviceOwner string         `json:"device_owner"`
	Comments    *string        `json:"comments,omitempty"`
}

// handleCreateReservation reserves one available device from the requested
// pool, picked at random.
func (s *Server) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var req ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	poolID := req.Device.PoolID
	if poolID == 0 {
		poolID = 1
	}

	reserved, err := s.engine.ReserveFromPool(r.Context(), poolID, req.DeviceOwner, req.Comments)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Reservation{
		ID:          reserved.ID,
		Device:      reserved,
		DeviceOwner: derefOr(reserved.DeviceOwner, req.DeviceOwner),
		Comments:    reserved.Comments,
	})
}

// handleDeleteReservation releases the device holding the reservation.
// The reservation id is the device id.
func (s *Server) handleDeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "reservation id must be an integer")
		return
	}

	if err := s.engine.Release(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// derefOr returns *s, or fallback when s is nil.
func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}
