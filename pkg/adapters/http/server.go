package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/AndreyBuyanov/ExpertSystem/internal/logging"
	"github.com/AndreyBuyanov/ExpertSystem/internal/presentation/graph"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/session"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/tree"
)

// Server exposes a session.Manager over HTTP.
type Server struct {
	manager  *session.Manager
	tree     *tree.Tree
	logger   *slog.Logger
	allowAll bool
	origins  []string
	streams  *StreamManager
	upgrader websocket.Upgrader
}

// localOrigins are the origins accepted unless WithAllowAllOrigins is set.
var localOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTree enables GET /graph for the loaded system.
func WithTree(t *tree.Tree) Option {
	return func(s *Server) {
		s.tree = t
	}
}

// WithAllowAllOrigins relaxes CORS from localhost to any origin.
func WithAllowAllOrigins(allow bool) Option {
	return func(s *Server) {
		s.allowAll = allow
	}
}

// NewServer creates a Server over manager.
func NewServer(manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		manager: manager,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.origins = localOrigins
	if s.allowAll {
		s.origins = []string{"*"}
	}
	s.streams = NewStreamManager(s.logger)
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

// NewHandler is a shorthand for NewServer(manager, opts...).Handler().
func NewHandler(manager *session.Manager, opts ...Option) http.Handler {
	return NewServer(manager, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	r.Get("/graph", s.getGraph)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.startSession)
		r.Get("/", s.listSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/answer", s.answer)
			r.Post("/reset", s.reset)
			r.Get("/ws", s.dialog)
		})
	})
	return r
}

// answerRequest is the body of POST /sessions/{id}/answer.
type answerRequest struct {
	Value *int `json:"value"`
}

// answerResponse adds the acceptance flag to a session view.
type answerResponse struct {
	*session.View
	Accepted bool `json:"accepted"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.Start(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.manager.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.streams.Broadcast(view.ID, viewMessage(view, nil))
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	var body answerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if body.Value == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "value is required"})
		return
	}

	view, accepted, err := s.manager.Answer(r.Context(), chi.URLParam(r, "id"), *body.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.streams.Broadcast(view.ID, viewMessage(view, &accepted))
	writeJSON(w, http.StatusOK, answerResponse{View: view, Accepted: accepted})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	view, err := s.manager.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.streams.Broadcast(view.ID, viewMessage(view, nil))
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getGraph renders the system as Mermaid. ?session=<id> highlights its path.
func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	if s.tree == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "graph not available"})
		return
	}

	var overlay *graph.Overlay
	if id := r.URL.Query().Get("session"); id != "" {
		state, err := s.manager.Load(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		overlay = graph.OverlayFromState(state)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.tree, overlay)))
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownNode), errors.Is(err, domain.ErrConfiguration):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err,
		)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
