package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dgallion1/astview/internal/dom"
	"github.com/dgallion1/astview/internal/session"
	"github.com/gorilla/websocket"
)

// wsMessage is one client request on the session socket.
type wsMessage struct {
	Action string `json:"action" validate:"required,oneof=parse tokenize interpret sample event snapshot"`
	Source string `json:"source,omitempty"`
	Name   string `json:"name,omitempty" validate:"max=64"`
	Type   string `json:"type,omitempty" validate:"omitempty,oneof=mouseenter mouseleave click"`
	Target string `json:"target,omitempty" validate:"max=32"`
}

// wsReply answers one wsMessage. Snapshot is set for state-changing actions,
// Event for dispatched UI events.
type wsReply struct {
	Action   string               `json:"action"`
	Success  bool                 `json:"success"`
	Error    string               `json:"error,omitempty"`
	Snapshot *session.Snapshot    `json:"snapshot,omitempty"`
	Event    *session.EventResult `json:"event,omitempty"`
}

// handleWebSocket drives a session over a socket. The current snapshot is
// sent on connect; every message then gets exactly one reply.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "session_id", sess.ID, "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.cfg.MaxSourceBytes + 4096)

	log := s.log.With("session_id", sess.ID, "remote", conn.RemoteAddr().String())
	log.Info("websocket connected")

	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		_ = conn.WriteJSON(wsReply{Action: "snapshot", Error: err.Error()})
		return
	}
	if err := conn.WriteJSON(wsReply{Action: "snapshot", Success: true, Snapshot: &snap}); err != nil {
		log.Warn("websocket write failed", "error", err)
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket error", "error", err)
			}
			break
		}

		reply := s.handleWSMessage(r, sess, data)
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("websocket write failed", "error", err)
			break
		}
	}
	log.Info("websocket disconnected")
}

func (s *Server) handleWSMessage(r *http.Request, sess *session.Session, data []byte) wsReply {
	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return wsReply{Error: fmt.Sprintf("invalid JSON: %v", err)}
	}
	reply := wsReply{Action: msg.Action}
	if err := s.validate.Struct(msg); err != nil {
		reply.Error = validationMessage(err)
		return reply
	}

	ctx := r.Context()
	var (
		snap session.Snapshot
		err  error
	)
	switch msg.Action {
	case "parse", "tokenize", "interpret":
		if int64(len(msg.Source)) > s.cfg.MaxSourceBytes {
			reply.Error = fmt.Sprintf("source exceeds max size (%d bytes)", s.cfg.MaxSourceBytes)
			return reply
		}
		switch msg.Action {
		case "parse":
			snap, err = sess.Parse(ctx, msg.Source)
		case "tokenize":
			snap, err = sess.Tokenize(ctx, msg.Source)
		default:
			snap, err = sess.Interpret(ctx, msg.Source)
		}
	case "sample":
		if msg.Name == "" {
			reply.Error = "name is required"
			return reply
		}
		snap, err = sess.LoadSample(ctx, msg.Name)
	case "event":
		if msg.Type == "" || msg.Target == "" {
			reply.Error = "type and target are required"
			return reply
		}
		res, err := sess.Event(ctx, dom.EventKind(msg.Type), msg.Target)
		if err != nil {
			reply.Error = err.Error()
			return reply
		}
		reply.Success = true
		reply.Event = &res
		return reply
	default:
		snap, err = sess.Snapshot(ctx)
	}

	if err != nil {
		reply.Error = err.Error()
		return reply
	}
	reply.Success = true
	reply.Snapshot = &snap
	return reply
}
