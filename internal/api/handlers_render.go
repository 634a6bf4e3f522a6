package api

import (
	"net/http"

	"github.com/dgallion1/astview/internal/asttree"
	"github.com/dgallion1/astview/internal/parser"
	"github.com/dgallion1/astview/internal/render"
	"github.com/dgallion1/astview/internal/samples"
	"github.com/go-chi/chi/v5"
)

type renderRequest struct {
	Dump string `json:"dump"`
}

type renderResponse struct {
	Valid bool   `json:"valid"`
	HTML  string `json:"html"`
	Nodes int    `json:"nodes"`
}

// handleRender turns a dump into tree markup without a session. An empty or
// invalid dump is not an error: it renders to nothing.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := s.decode(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	tree := parser.ParseDump(req.Dump)
	writeJSON(w, http.StatusOK, renderResponse{
		Valid: tree != nil,
		HTML:  render.Render(tree),
		Nodes: asttree.Count(tree),
	})
}

func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"samples": samples.All(),
	})
}

func (s *Server) handleGetSample(w http.ResponseWriter, r *http.Request) {
	sample, err := samples.Get(chi.URLParam(r, "name"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sample)
}
