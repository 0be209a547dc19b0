package api

import "net/http"

// handleListPools returns all pools.
func (s *Server) handleListPools(w http.ResponseWriter, r *http.Request) {
	pools, err := s.pools.List(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list pools")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pools": pools, "count": len(pools)})
}
