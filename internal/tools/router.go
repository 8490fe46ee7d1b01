// Package tools routes MCP tool calls to DocSpace toolset handlers.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/AltairaLabs/docspace-mcp/internal/errtrace"
)

// Observer receives the outcome of every tool call
type Observer interface {
	ObserveToolCall(tool string, err error, elapsed time.Duration)
}

// RouterOption customizes a Router
type RouterOption func(*Router)

// WithAllowList keeps only the named tools. A nil list keeps every tool;
// an empty one keeps none.
func WithAllowList(names []string) RouterOption {
	return func(r *Router) {
		r.allow = names
		r.filter = names != nil
	}
}

// WithDynamic exposes the meta-tools instead of the regular tools
func WithDynamic(dynamic bool) RouterOption {
	return func(r *Router) {
		r.dynamic = dynamic
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = l
	}
}

// WithObserver reports every call to o
func WithObserver(o Observer) RouterOption {
	return func(r *Router) {
		r.observer = o
	}
}

// Router dispatches tool calls. In dynamic mode only the meta-tools are
// listed and regular tools are reached through call_tool.
type Router struct {
	toolsets []Toolset
	regular  *HandlerRegistry
	meta     *HandlerRegistry
	dynamic  bool
	allow    []string
	filter   bool
	logger   *slog.Logger
	observer Observer
}

// NewRouter builds a router over toolsets. Toolsets left without tools by
// the allow-list are dropped.
func NewRouter(toolsets []Toolset, opts ...RouterOption) *Router {
	r := &Router{
		regular: NewHandlerRegistry(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, ts := range toolsets {
		kept := Toolset{Name: ts.Name, Description: ts.Description}
		for _, t := range ts.Tools {
			if r.filter && !slices.Contains(r.allow, t.Name) {
				continue
			}
			kept.Tools = append(kept.Tools, t)
			r.regular.Register(t)
		}
		if len(kept.Tools) > 0 {
			r.toolsets = append(r.toolsets, kept)
		}
	}

	r.meta = NewHandlerRegistry(r.metaTools()...)
	return r
}

// Dynamic reports whether the router exposes meta-tools
func (r *Router) Dynamic() bool {
	return r.dynamic
}

// Toolsets returns the toolsets that survived filtering
func (r *Router) Toolsets() []Toolset {
	return slices.Clone(r.toolsets)
}

// ListTools returns the descriptors of the listable tools
func (r *Router) ListTools() []mcp.Tool {
	reg := r.listable()
	out := make([]mcp.Tool, 0, reg.Len())
	for _, t := range reg.All() {
		out = append(out, t.Info())
	}
	return out
}

// ServerTools returns the listable tools bound to CallTool, ready for
// registration with an MCP server
func (r *Router) ServerTools() []server.ServerTool {
	reg := r.listable()
	out := make([]server.ServerTool, 0, reg.Len())
	for _, t := range reg.All() {
		out = append(out, server.ServerTool{Tool: t.Info(), Handler: r.CallTool})
	}
	return out
}

func (r *Router) listable() *HandlerRegistry {
	if r.dynamic {
		return r.meta
	}
	return r.regular
}

// CallTool runs the requested tool. Tool failures are reported inside the
// result with IsError set; the returned error is always nil.
func (r *Router) CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.Params.Name
	start := time.Now()

	args, err := arguments(req)
	var res *mcp.CallToolResult
	if err == nil {
		res, err = r.call(ctx, r.listable(), name, args)
	}

	if r.observer != nil {
		r.observer.ObserveToolCall(name, err, time.Since(start))
	}
	if err != nil {
		level := slog.LevelWarn
		if errtrace.IsCanceled(err) {
			level = slog.LevelDebug
		}
		r.logger.Log(ctx, level, "tool call failed", "tool", name, "error", err)
		return mcp.NewToolResultError(errtrace.Format(err)), nil
	}

	r.logger.DebugContext(ctx, "tool call succeeded", "tool", name, "duration", time.Since(start))
	return res, nil
}

// callRegular runs a regular tool regardless of the dispatch mode
func (r *Router) callRegular(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return r.call(ctx, r.regular, name, args)
}

func (r *Router) call(ctx context.Context, reg *HandlerRegistry, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t, err := reg.Get(name)
	if err != nil {
		return nil, err
	}

	v, err := invoke(ctx, t, args)
	if err != nil {
		return nil, err
	}
	return normalize(t, v)
}

func invoke(ctx context.Context, t Tool, args map[string]any) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("tool %s panicked: %w", t.Name, e)
				return
			}
			err = fmt.Errorf("tool %s panicked: %v", t.Name, rec)
		}
	}()
	return t.Call(ctx, args)
}

func arguments(req mcp.CallToolRequest) (map[string]any, error) {
	if req.Params.Arguments == nil {
		return map[string]any{}, nil
	}
	if args := req.GetArguments(); args != nil {
		return args, nil
	}
	var args map[string]any
	if err := req.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("arguments must be an object: %w", err)
	}
	return args, nil
}
