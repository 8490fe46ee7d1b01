package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/AltairaLabs/docspace-mcp/internal/config"
)

// ToolsetInfo describes a toolset in dynamic mode
type ToolsetInfo struct {
	Name        string `json:"name" jsonschema:"toolset name"`
	Description string `json:"description" jsonschema:"what the toolset is for"`
}

// ToolInfo describes a tool in dynamic mode
type ToolInfo struct {
	Name        string `json:"name" jsonschema:"tool name"`
	Description string `json:"description" jsonschema:"what the tool does"`
}

// ToolsetList is the output of list_toolsets
type ToolsetList struct {
	Toolsets []ToolsetInfo `json:"toolsets"`
}

// ToolList is the output of list_tools
type ToolList struct {
	Tools []ToolInfo `json:"tools"`
}

type listToolsInput struct {
	Toolset string `json:"toolset" jsonschema:"name of the toolset as returned by list_toolsets"`
}

type toolSchemaInput struct {
	Tool string `json:"tool" jsonschema:"name of the tool as returned by list_tools"`
}

type callToolInput struct {
	Tool  string         `json:"tool" jsonschema:"name of the tool to call"`
	Input map[string]any `json:"input,omitempty" jsonschema:"tool input matching get_tool_input_schema"`
}

func (r *Router) metaTools() []Tool {
	return []Tool{
		Must(New(config.ToolListToolsets,
			"List the available toolsets. Call this first to discover what the server can do.",
			r.listToolsets,
			WithOutput[ToolsetList](),
			ReadOnly(),
		)),
		Must(New(config.ToolListTools,
			"List the tools of a toolset.",
			r.listTools,
			WithOutput[ToolList](),
			ReadOnly(),
		)),
		Must(New(config.ToolGetToolInputSchema,
			"Get the JSON schema of a tool's input. Call this before call_tool.",
			r.getInputSchema,
			ReadOnly(),
		)),
		Must(New(config.ToolGetToolOutputSchema,
			"Get the JSON schema of a tool's structured output, if it has one.",
			r.getOutputSchema,
			ReadOnly(),
		)),
		Must(New(config.ToolCallTool,
			"Call a tool by name with the given input.",
			r.callTool,
		)),
	}
}

func (r *Router) listToolsets(context.Context, struct{}) (any, error) {
	out := ToolsetList{Toolsets: []ToolsetInfo{}}
	for _, ts := range r.toolsets {
		out.Toolsets = append(out.Toolsets, ToolsetInfo{Name: ts.Name, Description: ts.Description})
	}
	return out, nil
}

func (r *Router) listTools(_ context.Context, in listToolsInput) (any, error) {
	for _, ts := range r.toolsets {
		if ts.Name != in.Toolset {
			continue
		}
		out := ToolList{Tools: []ToolInfo{}}
		for _, t := range ts.Tools {
			out.Tools = append(out.Tools, ToolInfo{Name: t.Name, Description: t.Description})
		}
		return out, nil
	}
	return nil, fmt.Errorf(config.ErrToolsetNotFound, in.Toolset)
}

func (r *Router) getInputSchema(_ context.Context, in toolSchemaInput) (any, error) {
	t, err := r.regular.Get(in.Tool)
	if err != nil {
		return nil, err
	}
	return schemaValue(t.InputSchema)
}

func (r *Router) getOutputSchema(_ context.Context, in toolSchemaInput) (any, error) {
	t, err := r.regular.Get(in.Tool)
	if err != nil {
		return nil, err
	}
	if !t.HasOutput() {
		return nil, fmt.Errorf("tool %q has no output schema", in.Tool)
	}
	return schemaValue(t.OutputSchema)
}

func (r *Router) callTool(ctx context.Context, in callToolInput) (any, error) {
	return r.callRegular(ctx, in.Tool, in.Input)
}

func schemaValue(s *jsonschema.Schema) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	return out, nil
}
