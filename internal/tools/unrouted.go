package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// mcp-go answers calls for unregistered names with a protocol error before
// any handler runs. Such calls are renamed to a hidden tool on the way in so
// the router reports them as tool results, and renamed back on the way out.
const (
	unroutedTool     = "_unrouted"
	requestedToolKey = "docspace-mcp/requested-tool"
)

// UnroutedTool returns the hidden tool that receives calls rerouted by
// Reroute
func (r *Router) UnroutedTool() server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool(unroutedTool),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if name, ok := requestedTool(&req); ok {
				req.Params.Name = name
			}
			return r.CallTool(ctx, req)
		},
	}
}

// Reroute is a before-call hook. Calls for names that are not listable are
// sent to the unrouted tool. Hooks that report the tool name must run
// before it.
func (r *Router) Reroute(_ context.Context, _ any, req *mcp.CallToolRequest) {
	if req == nil || r.listable().Has(req.Params.Name) {
		return
	}
	if req.Params.Meta == nil {
		req.Params.Meta = &mcp.Meta{}
	}
	if req.Params.Meta.AdditionalFields == nil {
		req.Params.Meta.AdditionalFields = make(map[string]any)
	}
	req.Params.Meta.AdditionalFields[requestedToolKey] = req.Params.Name
	req.Params.Name = unroutedTool
}

// Restore is an after-call hook undoing Reroute. Hooks that report the tool
// name must run after it.
func (r *Router) Restore(_ context.Context, _ any, req *mcp.CallToolRequest, _ *mcp.CallToolResult) {
	if req == nil {
		return
	}
	if name, ok := requestedTool(req); ok {
		req.Params.Name = name
		delete(req.Params.Meta.AdditionalFields, requestedToolKey)
	}
}

// HideUnrouted is a tool filter keeping the unrouted tool out of listings
func HideUnrouted(_ context.Context, tools []mcp.Tool) []mcp.Tool {
	out := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		if t.Name != unroutedTool {
			out = append(out, t)
		}
	}
	return out
}

func requestedTool(req *mcp.CallToolRequest) (string, bool) {
	if req.Params.Name != unroutedTool || req.Params.Meta == nil {
		return "", false
	}
	name, ok := req.Params.Meta.AdditionalFields[requestedToolKey].(string)
	return name, ok
}
