// Package audit records every tool call with the session and the caller
// that made it.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/AltairaLabs/docspace-mcp/internal/oauth"
)

// Entry is one audited event
type Entry struct {
	Timestamp time.Time
	SessionID string
	UserID    string
	ToolName  string
	RequestID any
	IsError   bool
}

// Logger writes audit entries to a structured logger
type Logger struct {
	logger *slog.Logger
	clock  clockwork.Clock
}

// Option customizes a Logger
type Option func(*Logger)

// WithClock replaces the clock used for entry timestamps
func WithClock(c clockwork.Clock) Option {
	return func(l *Logger) {
		l.clock = c
	}
}

// New creates an audit logger
func New(logger *slog.Logger, opts ...Option) *Logger {
	l := &Logger{
		logger: logger,
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogToolCall logs a tool invocation
func (l *Logger) LogToolCall(ctx context.Context, e *Entry) {
	l.logger.InfoContext(ctx, "tool_call",
		"session_id", e.SessionID,
		"user_id", e.UserID,
		"tool_name", e.ToolName,
		"request_id", e.RequestID,
		"timestamp", e.Timestamp,
	)
}

// LogToolResult logs how a tool invocation ended
func (l *Logger) LogToolResult(ctx context.Context, e *Entry) {
	if e.IsError {
		l.logger.WarnContext(ctx, "tool_error",
			"session_id", e.SessionID,
			"user_id", e.UserID,
			"tool_name", e.ToolName,
			"request_id", e.RequestID,
		)
		return
	}
	l.logger.InfoContext(ctx, "tool_result",
		"session_id", e.SessionID,
		"tool_name", e.ToolName,
		"request_id", e.RequestID,
	)
}

// Register installs hooks that audit each tool call on the server using h
func (l *Logger) Register(h *mcpserver.Hooks) {
	h.AddBeforeCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest) {
		l.LogToolCall(ctx, l.entry(ctx, id, req))
	})
	h.AddAfterCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest, res *mcp.CallToolResult) {
		e := l.entry(ctx, id, req)
		e.IsError = res == nil || res.IsError
		l.LogToolResult(ctx, e)
	})
}

func (l *Logger) entry(ctx context.Context, id any, req *mcp.CallToolRequest) *Entry {
	e := &Entry{
		Timestamp: l.clock.Now(),
		RequestID: id,
	}
	if req != nil {
		e.ToolName = req.Params.Name
	}
	if cs := mcpserver.ClientSessionFromContext(ctx); cs != nil {
		e.SessionID = cs.SessionID()
	}
	if claims, ok := oauth.ClaimsFromContext(ctx); ok {
		e.UserID = claims.Subject
	}
	return e
}
