package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
)

// normalize turns a handler value into a protocol result
func normalize(t Tool, v any) (*mcp.CallToolResult, error) {
	switch x := v.(type) {
	case *mcp.CallToolResult:
		if x == nil {
			return nil, errors.New("unknown result type")
		}
		return x, nil
	case *docspace.Response:
		if x == nil {
			return nil, errors.New("unknown result type")
		}
		return fromResponse(t, x)
	case string:
		return mcp.NewToolResultText(x), nil
	}

	if !isObject(v) {
		return nil, fmt.Errorf("unknown result type %T", v)
	}
	return fromValue(t, v)
}

func fromResponse(t Tool, res *docspace.Response) (*mcp.CallToolResult, error) {
	ct := res.ContentType()
	switch {
	case ct == "":
		return nil, errors.New("response has no content type")
	case ct == "application/json" || strings.HasSuffix(ct, "+json"):
		var obj any
		if err := json.Unmarshal(res.Body, &obj); err != nil {
			return nil, fmt.Errorf("failed to parse response body: %w", err)
		}
		return fromValue(t, obj)
	case strings.HasPrefix(ct, "text/"):
		return mcp.NewToolResultText(string(res.Body)), nil
	}
	return nil, fmt.Errorf("content type %s is not supported", ct)
}

func fromValue(t Tool, v any) (*mcp.CallToolResult, error) {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to format result: %w", err)
	}
	res := mcp.NewToolResultText(string(text))
	if t.HasOutput() {
		res.StructuredContent = v
	}
	return res, nil
}

func isObject(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}
