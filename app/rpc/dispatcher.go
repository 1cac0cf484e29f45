package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/lysyi3m/reddit-comb/app/export"
)

type Exporter interface {
	Export(ctx context.Context, params export.Params) (*export.Report, error)
}

var _ Exporter = (*export.Exporter)(nil)

// Dispatcher answers the subset of MCP carried over plain JSON-RPC:
// initialize, tools/list and tools/call for the single export tool.
type Dispatcher struct {
	exporter Exporter
	forums   []string
}

func NewDispatcher(exporter Exporter, forums []string) *Dispatcher {
	return &Dispatcher{exporter: exporter, forums: forums}
}

// Handle decodes one request body and returns the response together with the
// HTTP status it should be sent with. A nil response means the request was a
// notification and nothing is sent back.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) (*Response, int) {
	if !json.Valid(bytes.TrimSpace(body)) {
		return errorResponse(nil, CodeParseError, "Parse error: Invalid JSON"), http.StatusBadRequest
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return errorResponse(nil, CodeInvalidRequest, "Invalid Request: "+err.Error()), http.StatusBadRequest
	}

	if req.JSONRPC != Version {
		return errorResponse(req.ID, CodeInvalidRequest, "Invalid Request: jsonrpc must be 2.0"), http.StatusBadRequest
	}

	slog.Debug("JSON-RPC request", "method", req.Method, "id", string(req.ID))

	var result any
	var rpcErr *Error

	switch req.Method {
	case "initialize":
		result = d.initialize()
	case "ping":
		result = map[string]any{}
	case "tools/list":
		result = ToolsListResult{Tools: []Tool{d.Tool()}}
	case "tools/call":
		result, rpcErr = d.callTool(ctx, req.Params)
	case "notifications/initialized", "notifications/cancelled":
		return nil, http.StatusAccepted
	default:
		rpcErr = &Error{Code: CodeMethodNotFound, Message: "Method not found: " + req.Method}
	}

	if rpcErr != nil {
		return errorResponse(req.ID, rpcErr.Code, rpcErr.Message), http.StatusOK
	}

	return &Response{JSONRPC: Version, Result: result, ID: req.ID}, http.StatusOK
}

func (d *Dispatcher) initialize() InitializeResult {
	return InitializeResult{
		Capabilities:    map[string]any{"tools": map[string]any{}},
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      ServerInfo{Name: ServerName, Version: ServerVersion},
	}
}

func (d *Dispatcher) callTool(ctx context.Context, raw json.RawMessage) (any, *Error) {
	var params CallToolParams
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, &Error{Code: CodeToolNotFound, Message: "Invalid params: " + err.Error()}
		}
	}

	if params.Name != ToolName {
		return nil, &Error{Code: CodeToolNotFound, Message: "Tool not found: " + params.Name}
	}

	args, err := DecodeArguments(params.Arguments)
	if err != nil {
		return nil, &Error{Code: CodeToolNotFound, Message: "Invalid params: " + err.Error()}
	}

	text, err := d.Run(ctx, args)
	if err != nil {
		return nil, &Error{Code: CodeExecution, Message: err.Error()}
	}

	return CallToolResult{Content: []Content{{Type: "text", Text: text}}}, nil
}

// Run executes the export tool and returns its text output.
func (d *Dispatcher) Run(ctx context.Context, args ToolArguments) (string, error) {
	params := export.Params{
		Subreddit:     args.Subreddit,
		Subreddits:    args.Subreddits,
		IntervalHours: args.IntervalHours,
	}
	if args.ScoreThreshold != nil {
		// scores are integers, so score <= t holds exactly when score <= floor(t)
		threshold := int(math.Floor(*args.ScoreThreshold))
		params.ScoreThreshold = &threshold
	}

	report, err := d.exporter.Export(ctx, params)
	if err != nil {
		slog.Error("Tool execution failed", "tool", ToolName, "error", err)
		return "", err
	}

	return report.Content, nil
}

func DecodeArguments(raw json.RawMessage) (ToolArguments, error) {
	var args ToolArguments
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, err
	}
	return args, nil
}

// Tool describes the export tool with the subreddits known to this server.
func (d *Dispatcher) Tool() Tool {
	forumEnum := map[string]any{"type": "string"}
	if len(d.forums) > 0 {
		forumEnum["enum"] = d.forums
	}

	subredditsItems := map[string]any{"type": "string"}
	if len(d.forums) > 0 {
		subredditsItems["enum"] = d.forums
	}

	return Tool{
		Name:        ToolName,
		Description: fmt.Sprintf("Fetches latest daily discussion threads from %s with recent comments. Defaults to all of them, but can fetch from a single subreddit if specified.", forumList(d.forums)),
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"intervalHours": map[string]any{
					"type":        "number",
					"default":     24,
					"description": "Hours to look back (default: 24)",
				},
				"subreddit": withDescription(forumEnum,
					"Single subreddit to fetch from (if not provided, fetches from all)"),
				"subreddits": map[string]any{
					"type":        "array",
					"items":       subredditsItems,
					"description": fmt.Sprintf("Multiple subreddits to fetch from (defaults to %s)", forumList(d.forums)),
				},
				"scoreThreshold": map[string]any{
					"type":        "number",
					"description": "Comments at or below this score are dropped together with their replies (default: -10)",
				},
			},
		},
	}
}

func withDescription(schema map[string]any, description string) map[string]any {
	schema["description"] = description
	return schema
}

func forumList(forums []string) string {
	if len(forums) == 0 {
		return "the configured subreddits"
	}

	var buf bytes.Buffer
	for i, f := range forums {
		switch {
		case i == 0:
		case i == len(forums)-1:
			buf.WriteString(" and ")
		default:
			buf.WriteString(", ")
		}
		buf.WriteString("r/" + f)
	}
	return buf.String()
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: Version,
		Error:   &Error{Code: code, Message: message},
		ID:      id,
	}
}
