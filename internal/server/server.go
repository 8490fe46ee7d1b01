// Package server assembles the MCP server: the DocSpace collaborators, the
// tool router and the mcp-go server bound to it.
package server

import (
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/AltairaLabs/docspace-mcp/internal/audit"
	"github.com/AltairaLabs/docspace-mcp/internal/tools"
)

// Info identifies the server to clients
type Info struct {
	Name    string
	Version string
}

// MCPServer wraps the mcp-go server with the tool router
type MCPServer struct {
	server *mcpserver.MCPServer
	router *tools.Router
}

// Option customizes an MCPServer
type Option func(*options)

type options struct {
	audit *audit.Logger
}

// WithAudit records every tool call on a
func WithAudit(a *audit.Logger) Option {
	return func(o *options) {
		o.audit = a
	}
}

// NewMCPServer creates an mcp-go server that lists and calls the tools of
// router. Each transport gets its own server so session hooks stay scoped
// to that transport. hooks may be nil. Calls for tools that are not listed
// come back as error results rather than protocol errors.
func NewMCPServer(info Info, router *tools.Router, hooks *mcpserver.Hooks, opts ...Option) *MCPServer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if hooks == nil {
		hooks = &mcpserver.Hooks{}
	}

	// Unknown tool names are renamed while a call is in flight; the audit
	// hooks sit inside that window so they see the requested name.
	hooks.AddAfterCallTool(router.Restore)
	if o.audit != nil {
		o.audit.Register(hooks)
	}
	hooks.AddBeforeCallTool(router.Reroute)

	s := mcpserver.NewMCPServer(info.Name, info.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
		mcpserver.WithHooks(hooks),
		mcpserver.WithToolFilter(tools.HideUnrouted),
	)
	s.AddTools(router.ServerTools()...)
	s.AddTools(router.UnroutedTool())

	return &MCPServer{server: s, router: router}
}

// Server returns the underlying mcp-go server
func (ms *MCPServer) Server() *mcpserver.MCPServer {
	return ms.server
}

// Router returns the tool router
func (ms *MCPServer) Router() *tools.Router {
	return ms.router
}
