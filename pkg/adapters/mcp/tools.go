package mcp

import "github.com/mark3labs/mcp-go/mcp"

var startSessionTool = mcp.NewTool("start_session",
	mcp.WithDescription("Start a new consultation. Returns the session id and the first question."),
)

var getSessionTool = mcp.NewTool("get_session",
	mcp.WithDescription("Show the current question or result of a session."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session id returned by start_session"),
	),
)

var answerTool = mcp.NewTool("answer",
	mcp.WithDescription("Answer the current question with an integer. Usually 0 means no and 1 means yes."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session id returned by start_session"),
	),
	mcp.WithNumber("value",
		mcp.Required(),
		mcp.Description("Integer answer"),
	),
)

var resetSessionTool = mcp.NewTool("reset_session",
	mcp.WithDescription("Start a session over from the first question."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session id returned by start_session"),
	),
)

var deleteSessionTool = mcp.NewTool("delete_session",
	mcp.WithDescription("Delete a session."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session id returned by start_session"),
	),
)

var listSessionsTool = mcp.NewTool("list_sessions",
	mcp.WithDescription("List stored session ids."),
)

var getGraphTool = mcp.NewTool("get_graph",
	mcp.WithDescription("Get a Mermaid diagram of the decision tree, optionally highlighting a session's path."),
	mcp.WithString("session_id",
		mcp.Description("Session whose path to highlight"),
	),
)

const graphURI = "expertsystem://graph"

var graphResource = mcp.NewResource(graphURI, "Decision tree",
	mcp.WithResourceDescription("Mermaid flowchart of the loaded system"),
	mcp.WithMIMEType("text/plain"),
)
