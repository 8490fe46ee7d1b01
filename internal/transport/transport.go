// Package transport serves the MCP server over SSE and streamable HTTP and
// keeps every live connection in a session registry.
package transport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AltairaLabs/docspace-mcp/internal/session"
)

// Routes
const (
	SSEPath        = "/sse"
	MessagePath    = "/message"
	StreamablePath = "/mcp"
	HealthPath     = "/health"
	MetricsPath    = "/metrics"
)

// forget removes id from registry. Sessions that were never tracked, or that
// were already removed by an explicit close, are not an error.
func forget(registry *session.Registry, id string, logger *slog.Logger) {
	if err := registry.Delete(id); err != nil && !errors.Is(err, session.ErrNotFound) {
		logger.Warn("failed to delete session", "session_id", id, "error", err)
	}
}

// writeSessionError maps a registry lookup failure to its HTTP status
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
