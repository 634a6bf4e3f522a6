package api

import (
	"net/http"
)

func (s *Server) handleCompilerStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "compiler stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"compiler_url": s.cfg.CompilerURL,
		"stats":        s.stats.All(),
	})
}
