package tools

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
	"github.com/AltairaLabs/docspace-mcp/internal/logging"
)

type idInput struct {
	ID int `json:"id" jsonschema:"entry id"`
}

type entry struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func returning(v any) func(context.Context, idInput) (any, error) {
	return func(context.Context, idInput) (any, error) { return v, nil }
}

func testToolsets() []Toolset {
	return []Toolset{
		{
			Name:        "alpha",
			Description: "first toolset",
			Tools: []Tool{
				Must(New("get_entry", "Get an entry.", func(_ context.Context, in idInput) (any, error) {
					return entry{ID: in.ID, Title: "doc"}, nil
				}, WithOutput[entry](), ReadOnly())),
				Must(New("get_plain", "Get an entry without output schema.", func(_ context.Context, in idInput) (any, error) {
					return entry{ID: in.ID, Title: "doc"}, nil
				})),
				Must(New("say", "Say something.", returning("hello"))),
			},
		},
		{
			Name:        "beta",
			Description: "second toolset",
			Tools: []Tool{
				Must(New("explode", "Panic.", func(context.Context, idInput) (any, error) {
					panic("kaboom")
				})),
				Must(New("fail", "Fail.", func(context.Context, idInput) (any, error) {
					return nil, errors.New("backend down")
				}, Destructive())),
			},
		},
	}
}

func newTestRouter(opts ...RouterOption) *Router {
	opts = append([]RouterOption{WithLogger(logging.Discard())}, opts...)
	return NewRouter(testToolsets(), opts...)
}

func callRequest(name string, args any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func call(t *testing.T, r *Router, name string, args any) *mcp.CallToolResult {
	t.Helper()
	res, err := r.CallTool(context.Background(), callRequest(name, args))
	require.NoError(t, err)
	return res
}

func toolNames(tools []mcp.Tool) []string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return names
}

func TestListToolsRegular(t *testing.T) {
	r := newTestRouter()
	assert.Equal(t, []string{"get_entry", "get_plain", "say", "explode", "fail"}, toolNames(r.ListTools()))
	assert.False(t, r.Dynamic())
}

func TestListToolsAllowList(t *testing.T) {
	r := newTestRouter(WithAllowList([]string{"say", "get_entry"}))

	assert.Equal(t, []string{"get_entry", "say"}, toolNames(r.ListTools()))
	require.Len(t, r.Toolsets(), 1)
	assert.Equal(t, "alpha", r.Toolsets()[0].Name)

	res := call(t, r, "fail", map[string]any{"id": 1})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), `tool "fail" not found`)
}

func TestEmptyAllowListKeepsNothing(t *testing.T) {
	r := newTestRouter(WithAllowList([]string{}))

	assert.Empty(t, r.ListTools())
	assert.Empty(t, r.Toolsets())

	res := call(t, r, "say", nil)
	assert.True(t, res.IsError)
}

func TestListToolsDynamic(t *testing.T) {
	for _, allow := range [][]string{nil, {"say"}, {"say", "get_entry", "fail", "explode"}} {
		r := newTestRouter(WithDynamic(true), WithAllowList(allow))
		assert.Equal(t, []string{
			"list_toolsets",
			"list_tools",
			"get_tool_input_schema",
			"get_tool_output_schema",
			"call_tool",
		}, toolNames(r.ListTools()))
	}
}

func TestListToolsSchemas(t *testing.T) {
	r := newTestRouter()
	tools := r.ListTools()

	data, err := tools[0].MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"inputSchema":{`)
	assert.Contains(t, string(data), `"outputSchema":{`)
	assert.Contains(t, string(data), `"readOnlyHint":true`)

	data, err = tools[1].MarshalJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "outputSchema")
}

func TestServerToolsBindCallTool(t *testing.T) {
	r := newTestRouter(WithAllowList([]string{"say"}))
	st := r.ServerTools()
	require.Len(t, st, 1)
	assert.Equal(t, "say", st[0].Tool.Name)

	res, err := st[0].Handler(context.Background(), callRequest("say", map[string]any{"id": 1}))
	require.NoError(t, err)
	assert.Equal(t, "hello", resultText(t, res))
}

func TestCallToolNotFound(t *testing.T) {
	res := call(t, newTestRouter(), "missing", nil)
	assert.True(t, res.IsError)
	assert.Equal(t, `tool "missing" not found`, resultText(t, res))
}

func TestCallToolStructuredOutput(t *testing.T) {
	r := newTestRouter()

	res := call(t, r, "get_entry", map[string]any{"id": 7})
	require.False(t, res.IsError)
	assert.Equal(t, "{\n  \"id\": 7,\n  \"title\": \"doc\"\n}", resultText(t, res))
	assert.Equal(t, entry{ID: 7, Title: "doc"}, res.StructuredContent)

	res = call(t, r, "get_plain", map[string]any{"id": 7})
	require.False(t, res.IsError)
	assert.Nil(t, res.StructuredContent)
}

func TestCallToolInvalidInput(t *testing.T) {
	r := newTestRouter()

	res := call(t, r, "get_entry", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid input")

	res = call(t, r, "get_entry", map[string]any{"id": "seven"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid input")
}

func TestCallToolRecoversPanic(t *testing.T) {
	res := call(t, newTestRouter(), "explode", map[string]any{"id": 1})
	assert.True(t, res.IsError)
	assert.Equal(t, "tool explode panicked: kaboom", resultText(t, res))
}

func TestCallToolHandlerError(t *testing.T) {
	res := call(t, newTestRouter(), "fail", map[string]any{"id": 1})
	assert.True(t, res.IsError)
	assert.Equal(t, "backend down", resultText(t, res))
}

func TestNormalize(t *testing.T) {
	withOutput := Tool{Name: "t", OutputSchema: testToolsets()[0].Tools[0].OutputSchema}
	plain := Tool{Name: "t"}

	jsonResponse := &docspace.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/json; charset=utf-8"}},
		Body:       []byte(`{"id":1,"title":"doc"}`),
	}

	tests := []struct {
		name       string
		tool       Tool
		value      any
		wantText   string
		wantStruct any
		wantErr    string
	}{
		{
			name:       "json response with output schema",
			tool:       withOutput,
			value:      jsonResponse,
			wantText:   "{\n  \"id\": 1,\n  \"title\": \"doc\"\n}",
			wantStruct: map[string]any{"id": float64(1), "title": "doc"},
		},
		{
			name:     "json response without output schema",
			tool:     plain,
			value:    jsonResponse,
			wantText: "{\n  \"id\": 1,\n  \"title\": \"doc\"\n}",
		},
		{
			name: "text response",
			tool: plain,
			value: &docspace.Response{
				Header: http.Header{"Content-Type": {"text/plain"}},
				Body:   []byte("line one\nline two"),
			},
			wantText: "line one\nline two",
		},
		{
			name: "xml response",
			tool: plain,
			value: &docspace.Response{
				Header: http.Header{"Content-Type": {"application/xml"}},
				Body:   []byte("<a/>"),
			},
			wantErr: "content type application/xml is not supported",
		},
		{
			name:    "response without content type",
			tool:    plain,
			value:   &docspace.Response{Header: http.Header{}},
			wantErr: "response has no content type",
		},
		{
			name:     "string",
			tool:     withOutput,
			value:    "done",
			wantText: "done",
		},
		{
			name:     "slice",
			tool:     plain,
			value:    []int{1, 2},
			wantText: "[\n  1,\n  2\n]",
		},
		{
			name:     "pointer to struct",
			tool:     plain,
			value:    &entry{ID: 2},
			wantText: "{\n  \"id\": 2,\n  \"title\": \"\"\n}",
		},
		{
			name:    "number",
			tool:    plain,
			value:   42,
			wantErr: "unknown result type int",
		},
		{
			name:    "nil",
			tool:    plain,
			value:   nil,
			wantErr: "unknown result type <nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := normalize(tt.tool, tt.value)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, resultText(t, res))
			assert.Equal(t, tt.wantStruct, res.StructuredContent)
		})
	}
}

func TestCallToolUnsupportedContentType(t *testing.T) {
	xml := &docspace.Response{
		Header: http.Header{"Content-Type": {"application/xml"}},
		Body:   []byte("<a/>"),
	}
	r := NewRouter([]Toolset{{
		Name:  "raw",
		Tools: []Tool{Must(New("download", "Download.", returning(xml)))},
	}}, WithLogger(logging.Discard()))

	res := call(t, r, "download", map[string]any{"id": 1})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "is not supported")
}

func TestMetaTools(t *testing.T) {
	r := newTestRouter(WithDynamic(true), WithAllowList([]string{"get_entry", "say", "fail"}))

	t.Run("list_toolsets", func(t *testing.T) {
		res := call(t, r, "list_toolsets", nil)
		require.False(t, res.IsError, resultText(t, res))
		assert.Equal(t, ToolsetList{Toolsets: []ToolsetInfo{
			{Name: "alpha", Description: "first toolset"},
			{Name: "beta", Description: "second toolset"},
		}}, res.StructuredContent)
	})

	t.Run("list_tools", func(t *testing.T) {
		res := call(t, r, "list_tools", map[string]any{"toolset": "beta"})
		require.False(t, res.IsError, resultText(t, res))
		assert.Equal(t, ToolList{Tools: []ToolInfo{{Name: "fail", Description: "Fail."}}}, res.StructuredContent)

		res = call(t, r, "list_tools", map[string]any{"toolset": "gamma"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), `toolset "gamma" not found`)
	})

	t.Run("get_tool_input_schema", func(t *testing.T) {
		res := call(t, r, "get_tool_input_schema", map[string]any{"tool": "get_entry"})
		require.False(t, res.IsError, resultText(t, res))
		assert.Contains(t, resultText(t, res), `"id"`)
		assert.Contains(t, resultText(t, res), `"required"`)
	})

	t.Run("get_tool_output_schema", func(t *testing.T) {
		res := call(t, r, "get_tool_output_schema", map[string]any{"tool": "get_entry"})
		require.False(t, res.IsError, resultText(t, res))
		assert.Contains(t, resultText(t, res), `"title"`)

		res = call(t, r, "get_tool_output_schema", map[string]any{"tool": "say"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), `tool "say" has no output schema`)
	})

	t.Run("call_tool", func(t *testing.T) {
		res := call(t, r, "call_tool", map[string]any{"tool": "get_entry", "input": map[string]any{"id": 3}})
		require.False(t, res.IsError, resultText(t, res))
		assert.Equal(t, entry{ID: 3, Title: "doc"}, res.StructuredContent)

		res = call(t, r, "call_tool", map[string]any{"tool": "explode", "input": map[string]any{"id": 3}})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), `tool "explode" not found`)

		res = call(t, r, "call_tool", map[string]any{"tool": "fail", "input": map[string]any{"id": 3}})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "backend down")
	})

	t.Run("regular tools are not callable directly", func(t *testing.T) {
		res := call(t, r, "get_entry", map[string]any{"id": 1})
		assert.True(t, res.IsError)
	})
}

func TestMisconfigured(t *testing.T) {
	cfgErr := errors.New("base url is required")
	r := NewRouter(Misconfigured(testToolsets(), cfgErr), WithLogger(logging.Discard()))

	assert.Len(t, r.ListTools(), 5)
	for _, name := range []string{"get_entry", "say"} {
		res := call(t, r, name, nil)
		assert.True(t, res.IsError)
		assert.Equal(t, "base url is required", resultText(t, res))
	}
}

type recordingObserver struct {
	mu    sync.Mutex
	calls map[string]error
}

func (o *recordingObserver) ObserveToolCall(tool string, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls[tool] = err
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{calls: map[string]error{}}
	r := newTestRouter(WithObserver(obs))

	call(t, r, "say", map[string]any{"id": 1})
	call(t, r, "fail", map[string]any{"id": 1})

	assert.NoError(t, obs.calls["say"])
	assert.EqualError(t, obs.calls["fail"], "backend down")
}
