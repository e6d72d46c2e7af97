package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/session"
)

// dialogRequest is the incoming WebSocket message format.
type dialogRequest struct {
	Type  string `json:"type"` // "get", "answer" or "reset"
	Value *int   `json:"value,omitempty"`
}

// dialogMessage is the outgoing WebSocket message format.
type dialogMessage struct {
	Type     string        `json:"type"` // "view" or "error"
	View     *session.View `json:"view,omitempty"`
	Accepted *bool         `json:"accepted,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func viewMessage(view *session.View, accepted *bool) dialogMessage {
	return dialogMessage{Type: "view", View: view, Accepted: accepted}
}

// StreamManager fans session updates out to connected dialogs.
type StreamManager struct {
	logger      *slog.Logger
	mu          sync.RWMutex
	subscribers map[string]map[chan dialogMessage]struct{}
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		logger:      logger,
		subscribers: make(map[string]map[chan dialogMessage]struct{}),
	}
}

// Subscribe registers a channel for sessionID. The returned func unsubscribes and closes it.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan dialogMessage, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan dialogMessage, 8)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan dialogMessage]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast delivers msg to every subscriber of sessionID. Slow subscribers miss it.
func (sm *StreamManager) Broadcast(sessionID string, msg dialogMessage) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("dialog buffer full, dropping update", "session_id", sessionID)
		}
	}
}

// Subscribers reports how many dialogs follow sessionID.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// dialog drives a session over a WebSocket.
// Every update of the session, from any client, is pushed to the connection.
func (s *Server) dialog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.manager.Load(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	// Subscribe before the handshake completes so no update is missed.
	updates, unsubscribe := s.streams.Subscribe(id)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		unsubscribe()
		s.logger.Warn("websocket upgrade failed", "session_id", id, "err", err)
		return
	}
	defer conn.Close()

	replies := make(chan dialogMessage, 1)
	ctx, cancel := context.WithCancel(r.Context())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		s.writeLoop(ctx, conn, updates, replies)
	}()
	defer func() {
		cancel()
		unsubscribe()
		wg.Wait()
	}()
	reply := func(msg string) {
		select {
		case replies <- dialogMessage{Type: "error", Error: msg}:
		case <-ctx.Done():
		}
	}

	for {
		var req dialogRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", "session_id", id, "err", err)
			}
			return
		}

		var (
			view     *session.View
			accepted *bool
			opErr    error
		)
		switch req.Type {
		case "get":
			view, opErr = s.manager.Get(ctx, id)
		case "reset":
			view, opErr = s.manager.Reset(ctx, id)
		case "answer":
			if req.Value == nil {
				reply("value is required")
				continue
			}
			var ok bool
			view, ok, opErr = s.manager.Answer(ctx, id, *req.Value)
			accepted = &ok
		default:
			reply("unknown message type: " + req.Type)
			continue
		}
		if opErr != nil {
			reply(opErr.Error())
			continue
		}
		s.streams.Broadcast(id, viewMessage(view, accepted))
	}
}

// checkOrigin applies the CORS allowlist to the WebSocket handshake.
// Requests without an Origin header come from non-browser clients and pass.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, pattern := range s.origins {
		if matchOrigin(pattern, strings.ToLower(origin)) {
			return true
		}
	}
	s.logger.Warn("websocket origin rejected", "origin", origin)
	return false
}

// matchOrigin matches origin against a pattern holding at most one "*".
func matchOrigin(pattern, origin string) bool {
	prefix, suffix, wildcard := strings.Cut(pattern, "*")
	if !wildcard {
		return pattern == origin
	}
	return len(origin) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(origin, prefix) &&
		strings.HasSuffix(origin, suffix)
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, updates <-chan dialogMessage, replies <-chan dialogMessage) {
	for {
		var msg dialogMessage
		select {
		case <-ctx.Done():
			return
		case m, ok := <-updates:
			if !ok {
				return
			}
			msg = m
		case msg = <-replies:
		}
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug("websocket write failed", "err", err)
			return
		}
	}
}
