package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// HTML routes (server-rendered forms)
	r.Get("/", s.handleIndex)
	r.Get("/devices", s.handleDeviceBoard)
	r.Post("/devices", s.handleToggleDevice)

	r.Get("/editDevices", s.handleEditDevicesPage)
	r.Post("/addDevices", s.handleAddDevice)
	r.Post("/editDevices", s.handleEditDevice)
	r.Post("/deleteDevices", s.handleDeleteDevice)

	r.Get("/editPools", s.handleEditPoolsPage)
	r.Post("/addPools", s.handleAddPool)
	r.Post("/editPools", s.handleEditPool)
	r.Post("/deletePools", s.handleDeletePool)

	r.Get("/editCustomOwners", s.handleEditCustomOwnersPage)
	r.Post("/addCustomOwners", s.handleAddCustomOwner)
	r.Post("/editCustomOwners", s.handleEditCustomOwner)
	r.Post("/deleteCustomOwners", s.handleDeleteCustomOwner)

	// JSON API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/devices", s.handleListDevices)
		r.Get("/devices/{name}", s.handleGetDevice)
		r.Get("/pools", s.handleListPools)
		r.Get("/customOwners", s.handleListCustomOwners)
		r.Get("/customOwners/{name}", s.handleGetCustomOwner)

		r.Post("/reservations", s.handleCreateReservation)
		r.Delete("/reservations/{id}", s.handleDeleteReservation)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
