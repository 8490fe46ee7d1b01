package server

import (
	"context"
	"errors"
	"io"
	"log/slog"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ServeStdio serves the MCP server over in and out until ctx is done or
// the input is exhausted
func (ms *MCPServer) ServeStdio(ctx context.Context, in io.Reader, out io.Writer, logger *slog.Logger) error {
	s := mcpserver.NewStdioServer(ms.server)
	s.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	logger.Info("starting MCP server with stdio transport")
	err := s.Listen(ctx, in, out)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
