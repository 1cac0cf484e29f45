package rpc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer exposes the export tool through the MCP SDK, for clients that
// launch the server as a subprocess and talk over stdin/stdout.
func NewMCPServer(d *Dispatcher) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, nil)
	d.RegisterMCP(srv)
	return srv
}

func (d *Dispatcher) RegisterMCP(srv *mcp.Server) {
	def := d.Tool()
	tool := &mcp.Tool{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: def.InputSchema,
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var res mcp.CallToolResult

		args, err := DecodeArguments(req.Params.Arguments)
		if err != nil {
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}

		text, err := d.Run(ctx, args)
		if err != nil {
			res.SetError(err)
			return &res, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	})
}

// ServeStdio blocks until the client disconnects or ctx is cancelled.
func ServeStdio(ctx context.Context, srv *mcp.Server) error {
	slog.Info("Serving MCP over stdio", "server", ServerName)
	return srv.Run(ctx, &mcp.StdioTransport{})
}
