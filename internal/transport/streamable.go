package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/AltairaLabs/docspace-mcp/internal/server"
	"github.com/AltairaLabs/docspace-mcp/internal/session"
	"github.com/AltairaLabs/docspace-mcp/internal/tools"
)

var errMissingSessionID = errors.New("missing session id")

// Streamable serves the single-endpoint streamable HTTP transport
type Streamable struct {
	mcp      *server.MCPServer
	http     *mcpserver.StreamableHTTPServer
	registry *session.Registry
	logger   *slog.Logger
}

// NewStreamable builds a streamable HTTP adapter with its own MCP server
// instance over router
func NewStreamable(info server.Info, router *tools.Router, registry *session.Registry, heartbeat time.Duration, logger *slog.Logger, serverOpts ...server.Option) *Streamable {
	a := &Streamable{
		registry: registry,
		logger:   logger,
	}

	hooks := &mcpserver.Hooks{}
	hooks.AddOnUnregisterSession(func(_ context.Context, cs mcpserver.ClientSession) {
		forget(registry, cs.SessionID(), logger)
	})
	a.mcp = server.NewMCPServer(info, router, hooks, serverOpts...)

	opts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath(StreamablePath),
		mcpserver.WithSessionIdManager(&sessionIDs{adapter: a}),
		mcpserver.WithLogger(sdkLogger{logger}),
	}
	if heartbeat > 0 {
		opts = append(opts, mcpserver.WithHeartbeatInterval(heartbeat))
	}
	a.http = mcpserver.NewStreamableHTTPServer(a.mcp.Server(), opts...)

	return a
}

// ServeHTTP implements http.Handler. Notification streams are only opened
// for live sessions; mcp-go itself would open one for any id, or none.
func (a *Streamable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		id := r.Header.Get(mcpserver.HeaderKeySessionID)
		if id == "" {
			http.Error(w, errMissingSessionID.Error(), http.StatusBadRequest)
			return
		}
		if _, err := a.registry.Get(id); err != nil {
			writeSessionError(w, err)
			return
		}
	}
	a.http.ServeHTTP(w, r)
}

// Registry returns the sessions served by this adapter
func (a *Streamable) Registry() *session.Registry {
	return a.registry
}

// streamableSession unregisters the session from the MCP server, which
// drops it from the registry through the unregister hook. Sessions the MCP
// server never registered are dropped directly.
type streamableSession struct {
	adapter *Streamable
	id      string
}

func (s streamableSession) Close(ctx context.Context) error {
	s.adapter.mcp.Server().UnregisterSession(ctx, s.id)
	forget(s.adapter.registry, s.id, s.adapter.logger)
	return nil
}

// sessionIDs backs the streamable session id lifecycle with the registry
type sessionIDs struct {
	adapter *Streamable
}

// Generate creates the registry entry at initialization, before the client
// can follow up with the new id
func (m *sessionIDs) Generate() string {
	id := uuid.NewString()
	m.adapter.registry.Create(id, streamableSession{adapter: m.adapter, id: id})
	m.adapter.logger.Debug("streamable session opened", "session_id", id)
	return id
}

func (m *sessionIDs) Validate(id string) (bool, error) {
	if id == "" {
		return false, errMissingSessionID
	}
	if _, err := m.adapter.registry.Get(id); err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func (m *sessionIDs) Terminate(id string) (bool, error) {
	err := m.adapter.registry.Close(context.Background(), id)
	if errors.Is(err, session.ErrNotFound) {
		return false, nil
	}
	if err == nil {
		m.adapter.logger.Debug("streamable session terminated", "session_id", id)
	}
	return false, err
}

// sdkLogger adapts slog to the printf-style logger of the mcp-go transport
type sdkLogger struct {
	logger *slog.Logger
}

func (l sdkLogger) Infof(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l sdkLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
