package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dgallion1/astview/internal/dom"
	"github.com/dgallion1/astview/internal/session"
	"github.com/go-chi/chi/v5"
)

type sourceRequest struct {
	Source string `json:"source" validate:"required"`
}

type sampleRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type eventRequest struct {
	Type   string `json:"type" validate:"required,oneof=mouseenter mouseleave click"`
	Target string `json:"target" validate:"required,max=32"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// session resolves the {sessionID} URL parameter, writing the error
// response itself when it cannot.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	s.runSource(w, r, (*session.Session).Parse)
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	s.runSource(w, r, (*session.Session).Tokenize)
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	s.runSource(w, r, (*session.Session).Interpret)
}

type sourceOp func(*session.Session, context.Context, string) (session.Snapshot, error)

func (s *Server) runSource(w http.ResponseWriter, r *http.Request, op sourceOp) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req sourceRequest
	if err := s.decode(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if int64(len(req.Source)) > s.cfg.MaxSourceBytes {
		jsonError(w, fmt.Sprintf("source exceeds max size (%d bytes)", s.cfg.MaxSourceBytes), http.StatusRequestEntityTooLarge)
		return
	}

	snap, err := op(sess, r.Context(), req.Source)
	if err != nil {
		s.log.Warn("compiler request failed", "session_id", sess.ID, "error", err)
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleLoadSample(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req sampleRequest
	if err := s.decode(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	snap, err := sess.LoadSample(r.Context(), req.Name)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req eventRequest
	if err := s.decode(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	res, err := sess.Event(r.Context(), dom.EventKind(req.Type), req.Target)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
