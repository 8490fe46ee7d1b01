package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
)

// HandlerFunc runs a tool with already validated arguments. It returns a
// *docspace.Response, a string, a JSON-serializable value or a
// *mcp.CallToolResult.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// Tool is a named tool with its schemas and handler
type Tool struct {
	Name         string
	Description  string
	InputSchema  *jsonschema.Schema
	OutputSchema *jsonschema.Schema
	Annotations  mcp.ToolAnnotation
	Handler      HandlerFunc

	input *jsonschema.Resolved
}

// Toolset groups related tools
type Toolset struct {
	Name        string
	Description string
	Tools       []Tool
}

// Option customizes a Tool
type Option func(*Tool) error

// WithOutput declares the structured output of a tool
func WithOutput[Out any]() Option {
	return func(t *Tool) error {
		s, err := jsonschema.For[Out](nil)
		if err != nil {
			return fmt.Errorf("infer output schema: %w", err)
		}
		t.OutputSchema = s
		return nil
	}
}

// ReadOnly marks a tool that does not modify anything
func ReadOnly() Option {
	return func(t *Tool) error {
		t.Annotations.ReadOnlyHint = mcp.ToBoolPtr(true)
		return nil
	}
}

// Destructive marks a tool that deletes or overwrites data
func Destructive() Option {
	return func(t *Tool) error {
		t.Annotations.DestructiveHint = mcp.ToBoolPtr(true)
		return nil
	}
}

// New builds a tool whose input schema is inferred from In. Arguments are
// validated against that schema and decoded into In before handle runs.
func New[In any](name, description string, handle func(context.Context, In) (any, error), opts ...Option) (Tool, error) {
	in, err := jsonschema.For[In](nil)
	if err != nil {
		return Tool{}, fmt.Errorf("tool %s: infer input schema: %w", name, err)
	}

	t := Tool{
		Name:        name,
		Description: description,
		InputSchema: in,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			var input In
			if err := bind(args, &input); err != nil {
				return nil, err
			}
			return handle(ctx, input)
		},
	}
	for _, opt := range opts {
		if err := opt(&t); err != nil {
			return Tool{}, fmt.Errorf("tool %s: %w", name, err)
		}
	}

	t.input, err = in.Resolve(nil)
	if err != nil {
		return Tool{}, fmt.Errorf("tool %s: resolve input schema: %w", name, err)
	}
	return t, nil
}

// Must panics when New failed. Tool definitions are static, so a failure is
// a programming error.
func Must(t Tool, err error) Tool {
	if err != nil {
		panic(err)
	}
	return t
}

// Call validates args and runs the handler
func (t Tool) Call(ctx context.Context, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}
	if t.input != nil {
		instance, err := canonical(args)
		if err != nil {
			return nil, fmt.Errorf("invalid input: %w", err)
		}
		if err := t.input.Validate(instance); err != nil {
			return nil, fmt.Errorf("invalid input: %w", err)
		}
	}
	return t.Handler(ctx, args)
}

// HasOutput reports whether the tool declares a structured output
func (t Tool) HasOutput() bool {
	return t.OutputSchema != nil
}

// Info returns the protocol descriptor of the tool
func (t Tool) Info() mcp.Tool {
	info := mcp.Tool{
		Name:           t.Name,
		Description:    t.Description,
		RawInputSchema: rawSchema(t.InputSchema),
		Annotations:    t.Annotations,
	}
	if t.OutputSchema != nil {
		info.RawOutputSchema = rawSchema(t.OutputSchema)
	}
	return info
}

func rawSchema(s *jsonschema.Schema) json.RawMessage {
	if s == nil {
		return json.RawMessage(`{"type":"object"}`)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return json.RawMessage(`{"type":"object"}`)
	}
	return data
}

func bind(args map[string]any, target any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	return nil
}

// canonical converts args to plain JSON values so validation does not
// depend on the Go types a caller used
func canonical(args map[string]any) (map[string]any, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Misconfigured returns a copy of toolsets whose every tool fails with err.
// Listing keeps working so clients can still see the diagnostic.
func Misconfigured(toolsets []Toolset, err error) []Toolset {
	out := make([]Toolset, len(toolsets))
	for i, ts := range toolsets {
		out[i] = Toolset{Name: ts.Name, Description: ts.Description}
		for _, t := range ts.Tools {
			t.input = nil
			t.Handler = func(context.Context, map[string]any) (any, error) {
				return nil, err
			}
			out[i].Tools = append(out[i].Tools, t)
		}
	}
	return out
}
