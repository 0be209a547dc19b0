package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleListDevices returns all devices, optionally filtered by pool.
//
// Query parameters:
//   - pool_id: filter by pool
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if poolIDStr := r.URL.Query().Get("pool_id"); poolIDStr != "" {
		poolID, err := strconv.ParseInt(poolIDStr, 10, 64)
		if err != nil {
			writeBadRequest(w, "pool_id must be an integer")
			return
		}
		devices, err := s.devices.ListByPool(ctx, poolID)
		if err != nil {
			writeInternalError(w, "failed to list devices")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
		return
	}

	devices, err := s.devices.List(ctx)
	if err != nil {
		writeInternalError(w, "failed to list devices")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns a single device by name (case-insensitive).
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	dev, err := s.devices.GetByName(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dev)
}
