package tools

import (
	"fmt"

	"github.com/AltairaLabs/docspace-mcp/internal/config"
)

// HandlerRegistry maps tool names to tools. It is built once at startup and
// only read afterwards.
type HandlerRegistry struct {
	tools map[string]Tool
	order []string
}

// NewHandlerRegistry creates a registry holding the given tools
func NewHandlerRegistry(initial ...Tool) *HandlerRegistry {
	r := &HandlerRegistry{
		tools: make(map[string]Tool, len(initial)),
	}
	for _, t := range initial {
		r.Register(t)
	}
	return r
}

// Register adds or replaces a tool. A replaced tool keeps its position.
func (r *HandlerRegistry) Register(t Tool) {
	if _, ok := r.tools[t.Name]; !ok {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Get returns the tool registered under name
func (r *HandlerRegistry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return Tool{}, fmt.Errorf(config.ErrToolNotFound, name)
	}
	return t, nil
}

// Has reports whether a tool is registered under name
func (r *HandlerRegistry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// All returns the tools in registration order
func (r *HandlerRegistry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Len returns the number of registered tools
func (r *HandlerRegistry) Len() int {
	return len(r.tools)
}
