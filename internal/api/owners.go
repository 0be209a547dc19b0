package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListCustomOwners returns all custom owners.
func (s *Server) handleListCustomOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := s.owners.List(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list custom owners")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"custom_owners": owners, "count": len(owners)})
}

// handleGetCustomOwner returns a single custom owner by name (case-insensitive).
func (s *Server) handleGetCustomOwner(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	o, err := s.owners.GetByName(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}
