package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/AndreyBuyanov/ExpertSystem"
	"github.com/AndreyBuyanov/ExpertSystem/internal/logging"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/session"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/tree"
)

// Server exposes expert system sessions as MCP tools.
type Server struct {
	manager *session.Manager
	tree    *tree.Tree
	logger  *slog.Logger
	mcp     *server.MCPServer
}

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

// WithTree enables the graph tool and resource.
func WithTree(t *tree.Tree) Option {
	return func(s *Server) {
		s.tree = t
	}
}

// NewServer creates an MCP server over manager.
func NewServer(manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		manager: manager,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(
		"expertsystem",
		expertsystem.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	s.registerTools()
	s.registerResources()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(startSessionTool, s.handleStartSession)
	s.mcp.AddTool(getSessionTool, s.handleGetSession)
	s.mcp.AddTool(answerTool, s.handleAnswer)
	s.mcp.AddTool(resetSessionTool, s.handleResetSession)
	s.mcp.AddTool(deleteSessionTool, s.handleDeleteSession)
	s.mcp.AddTool(listSessionsTool, s.handleListSessions)
	if s.tree != nil {
		s.mcp.AddTool(getGraphTool, s.handleGetGraph)
	}
}

func (s *Server) registerResources() {
	if s.tree != nil {
		s.mcp.AddResource(graphResource, s.handleReadGraph)
	}
}

// Serve runs the server on stdio. Stdout carries protocol messages, so logs must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// ServeSSE runs the server over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sse := server.NewSSEServer(s.mcp, server.WithBaseURL(baseURL))

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mcp server listening", "transport", "sse", "addr", addr)
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return sse.Shutdown(shutdownCtx)
	}
}
