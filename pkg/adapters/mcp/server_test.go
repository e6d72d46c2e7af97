package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyBuyanov/ExpertSystem"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/memory"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/session"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/tree"
)

func feverDefinition() *domain.Definition {
	return &domain.Definition{
		Name:      "Fever",
		Questions: []domain.NodeRecord{{ID: 1, Data: "temperature?"}},
		Answers: []domain.NodeRecord{
			{ID: 2, Data: "call a doctor"},
			{ID: 3, Data: "rest"},
		},
		Connections: []domain.Connection{
			{Source: 1, Target: 2, Predicate: domain.AtLeast(39)},
			{Source: 1, Target: 3, Predicate: domain.Between(35, 38)},
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	loader := memory.NewFromDefinition("fever", feverDefinition())
	factory := func(ctx context.Context) (session.Engine, error) {
		return expertsystem.Open(ctx, "fever", expertsystem.WithLoader(loader))
	}
	var n int
	mgr := session.NewManager(memory.NewStore(), factory, session.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}))
	tr, errs := tree.Build(feverDefinition())
	require.Empty(t, errs)
	return NewServer(mgr, WithTree(tr))
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{startSessionTool, "start_session"},
		{getSessionTool, "get_session"},
		{answerTool, "answer"},
		{resetSessionTool, "reset_session"},
		{deleteSessionTool, "delete_session"},
		{listSessionsTool, "list_sessions"},
		{getGraphTool, "get_graph"},
	}
	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.tool.Name)
			assert.NotEmpty(t, tt.tool.Description)
		})
	}
	assert.ElementsMatch(t, []string{"session_id", "value"}, answerTool.InputSchema.Required)
}

func TestHandlers_Consultation(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleStartSession(ctx, call(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)
	var view session.View
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &view))
	assert.Equal(t, "s1", view.ID)
	assert.Equal(t, "temperature?", view.Data)

	result, err = srv.handleAnswer(ctx, call(map[string]any{"session_id": "s1", "value": 38.0}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	var answered answerResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &answered))
	assert.True(t, answered.Accepted)
	assert.Equal(t, "rest", answered.Data)
	assert.True(t, answered.Finished, "reading an answer finishes the session")

	result, err = srv.handleResetSession(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &view))
	assert.Equal(t, "temperature?", view.Data)
	assert.False(t, view.Finished)

	result, err = srv.handleListSessions(ctx, call(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `["s1"]`, resultText(t, result))

	result, err = srv.handleDeleteSession(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.Equal(t, "Session s1 deleted.", resultText(t, result))

	result, err = srv.handleGetSession(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "session not found")

	result, err = srv.handleListSessions(ctx, call(nil))
	require.NoError(t, err)
	assert.Equal(t, "No sessions.", resultText(t, result))
}

func TestHandlers_RejectedAnswer(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	_, err := srv.handleStartSession(ctx, call(nil))
	require.NoError(t, err)

	result, err := srv.handleAnswer(ctx, call(map[string]any{"session_id": "s1", "value": -5}))
	require.NoError(t, err)
	var answered answerResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &answered))
	assert.False(t, answered.Accepted)
	assert.Equal(t, "temperature?", answered.Data)
}

func TestHandlers_MissingParameters(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"get":    srv.handleGetSession,
		"reset":  srv.handleResetSession,
		"delete": srv.handleDeleteSession,
		"answer": srv.handleAnswer,
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := h(ctx, call(map[string]any{}))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), "missing required parameter: session_id")
		})
	}

	result, err := srv.handleAnswer(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "missing required parameter: value")
}

func TestHandlers_Graph(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleGetGraph(ctx, call(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), `n1(("temperature?"))`)

	_, err = srv.handleStartSession(ctx, call(nil))
	require.NoError(t, err)
	result, err = srv.handleGetGraph(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "class n1 current;")

	result, err = srv.handleGetGraph(ctx, call(map[string]any{"session_id": "ghost"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	contents, err := srv.handleReadGraph(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, graphURI, text.URI)
	assert.Contains(t, text.Text, "graph TD")
}
