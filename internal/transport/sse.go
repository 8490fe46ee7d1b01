package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/AltairaLabs/docspace-mcp/internal/server"
	"github.com/AltairaLabs/docspace-mcp/internal/session"
	"github.com/AltairaLabs/docspace-mcp/internal/tools"
)

type streamCancelKey struct{}

// streamCloser ends an SSE stream by canceling the request context its
// handler loop is bound to
type streamCloser context.CancelFunc

func (c streamCloser) Close(context.Context) error {
	c()
	return nil
}

// SSE serves the legacy two-endpoint transport. A session lives as long as
// its GET stream; messages for it arrive on the message endpoint.
type SSE struct {
	mcp      *server.MCPServer
	sse      *mcpserver.SSEServer
	registry *session.Registry
	logger   *slog.Logger
}

// NewSSE builds an SSE adapter with its own MCP server instance over router
func NewSSE(info server.Info, router *tools.Router, registry *session.Registry, keepAlive time.Duration, logger *slog.Logger, serverOpts ...server.Option) *SSE {
	a := &SSE{
		registry: registry,
		logger:   logger,
	}

	hooks := &mcpserver.Hooks{}
	hooks.AddOnRegisterSession(a.register)
	hooks.AddOnUnregisterSession(func(_ context.Context, cs mcpserver.ClientSession) {
		forget(registry, cs.SessionID(), logger)
		logger.Debug("sse session closed", "session_id", cs.SessionID())
	})
	a.mcp = server.NewMCPServer(info, router, hooks, serverOpts...)

	opts := []mcpserver.SSEOption{
		mcpserver.WithSSEEndpoint(SSEPath),
		mcpserver.WithMessageEndpoint(MessagePath),
	}
	if keepAlive > 0 {
		opts = append(opts, mcpserver.WithKeepAliveInterval(keepAlive))
	}
	a.sse = mcpserver.NewSSEServer(a.mcp.Server(), opts...)

	return a
}

func (a *SSE) register(ctx context.Context, cs mcpserver.ClientSession) {
	cancel, ok := ctx.Value(streamCancelKey{}).(context.CancelFunc)
	if !ok {
		a.logger.Warn("sse session registered outside the stream handler", "session_id", cs.SessionID())
		return
	}
	a.registry.Create(cs.SessionID(), streamCloser(cancel))
	a.logger.Debug("sse session opened", "session_id", cs.SessionID())
}

// StreamHandler serves the event stream. The stream is bound to a cancelable
// context so the registry can end it.
func (a *SSE) StreamHandler() http.Handler {
	h := a.sse.SSEHandler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		ctx = context.WithValue(ctx, streamCancelKey{}, cancel)
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MessageHandler accepts client messages for a live session
func (a *SSE) MessageHandler() http.Handler {
	h := a.sse.MessageHandler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("sessionId")
		if id == "" {
			http.Error(w, "missing session id", http.StatusBadRequest)
			return
		}
		if _, err := a.registry.Get(id); err != nil {
			writeSessionError(w, err)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// Registry returns the sessions served by this adapter
func (a *SSE) Registry() *session.Registry {
	return a.registry
}
