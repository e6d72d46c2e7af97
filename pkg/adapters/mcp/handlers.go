package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AndreyBuyanov/ExpertSystem/internal/presentation/graph"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/session"
)

// answerResult is the payload of the answer tool.
type answerResult struct {
	*session.View
	Accepted bool `json:"accepted"`
}

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view, err := s.manager.Start(ctx)
	if err != nil {
		return s.toolError("start session", err), nil
	}
	return jsonResult(view)
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}
	view, err := s.manager.Get(ctx, id)
	if err != nil {
		return s.toolError("get session", err), nil
	}
	return jsonResult(view)
}

func (s *Server) handleAnswer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}
	value, err := request.RequireInt("value")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: value"), nil
	}
	view, accepted, err := s.manager.Answer(ctx, id, value)
	if err != nil {
		return s.toolError("answer", err), nil
	}
	return jsonResult(answerResult{View: view, Accepted: accepted})
}

func (s *Server) handleResetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}
	view, err := s.manager.Reset(ctx, id)
	if err != nil {
		return s.toolError("reset session", err), nil
	}
	return jsonResult(view)
}

func (s *Server) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}
	if err := s.manager.Delete(ctx, id); err != nil {
		return s.toolError("delete session", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session %s deleted.", id)), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.manager.List(ctx)
	if err != nil {
		return s.toolError("list sessions", err), nil
	}
	if len(ids) == 0 {
		return mcp.NewToolResultText("No sessions."), nil
	}
	return jsonResult(ids)
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var overlay *graph.Overlay
	if id := request.GetString("session_id", ""); id != "" {
		state, err := s.manager.Load(ctx, id)
		if err != nil {
			return s.toolError("load session", err), nil
		}
		overlay = graph.OverlayFromState(state)
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(s.tree, overlay)), nil
}

func (s *Server) handleReadGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      graphURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.tree, nil),
		},
	}, nil
}

// toolError reports err to the client. Unexpected failures are logged too.
func (s *Server) toolError(op string, err error) *mcp.CallToolResult {
	if !errors.Is(err, domain.ErrSessionNotFound) {
		s.logger.Error("mcp tool failed", "op", op, "err", err)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
