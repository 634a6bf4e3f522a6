package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/astview/internal/compiler"
	"github.com/dgallion1/astview/internal/config"
	"github.com/dgallion1/astview/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

// Server is the HTTP API server for astview.
type Server struct {
	router   chi.Router
	sessions *session.Store
	stats    *compiler.Stats
	log      *slog.Logger
	cfg      config.Config
	validate *validator.Validate
	upgrader websocket.Upgrader
}

// NewServer creates and configures the HTTP server. stats may be nil when
// the compiler does not record latencies.
func NewServer(sessions *session.Store, stats *compiler.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		stats:    stats,
		log:      log,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Post("/api/render", s.handleRender)
	r.Get("/api/samples", s.handleListSamples)
	r.Get("/api/samples/{name}", s.handleGetSample)
	r.Get("/api/stats/compiler", s.handleCompilerStats)

	// Sessions, behind the API key when one is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/sessions", s.handleCreateSession)
		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/parse", s.handleParse)
			r.Post("/tokenize", s.handleTokenize)
			r.Post("/interpret", s.handleInterpret)
			r.Post("/sample", s.handleLoadSample)
			r.Post("/events", s.handleEvent)
			if s.cfg.WebSocketEnabled {
				r.Get("/ws", s.handleWebSocket)
			}
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
