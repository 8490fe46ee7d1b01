package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/docspace-mcp/internal/oauth"
)

type fakeSession struct {
	id string
}

func (s fakeSession) Initialize()       {}
func (s fakeSession) Initialized() bool { return true }
func (s fakeSession) SessionID() string { return s.id }
func (s fakeSession) NotificationChannel() chan<- mcp.JSONRPCNotification {
	return make(chan mcp.JSONRPCNotification, 1)
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func newAuditedServer(t *testing.T, buf *bytes.Buffer) *mcpserver.MCPServer {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	l := New(slog.New(slog.NewJSONHandler(buf, nil)), WithClock(clock))

	hooks := &mcpserver.Hooks{}
	l.Register(hooks)

	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true), mcpserver.WithHooks(hooks))
	s.AddTool(mcp.NewTool("ok"), func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("done"), nil
	})
	s.AddTool(mcp.NewTool("broken"), func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("backend down"), nil
	})
	s.AddTool(mcp.NewTool("failing"), func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("protocol failure")
	})
	return s
}

func callTool(ctx context.Context, s *mcpserver.MCPServer, name string) {
	msg := `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"` + name + `"}}`
	s.HandleMessage(ctx, json.RawMessage(msg))
}

func TestAuditsToolCall(t *testing.T) {
	var buf bytes.Buffer
	s := newAuditedServer(t, &buf)

	ctx := s.WithContext(context.Background(), fakeSession{id: "sess-1"})
	ctx = oauth.WithClaims(ctx, &oauth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	callTool(ctx, s, "ok")

	recs := records(t, &buf)
	require.Len(t, recs, 2)

	assert.Equal(t, "tool_call", recs[0]["msg"])
	assert.Equal(t, "sess-1", recs[0]["session_id"])
	assert.Equal(t, "user-1", recs[0]["user_id"])
	assert.Equal(t, "ok", recs[0]["tool_name"])
	assert.Equal(t, "2026-01-02T03:04:05Z", recs[0]["timestamp"])

	assert.Equal(t, "tool_result", recs[1]["msg"])
	assert.Equal(t, "INFO", recs[1]["level"])
}

func TestAuditsToolError(t *testing.T) {
	var buf bytes.Buffer
	s := newAuditedServer(t, &buf)

	callTool(context.Background(), s, "broken")

	recs := records(t, &buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "tool_error", recs[1]["msg"])
	assert.Equal(t, "WARN", recs[1]["level"])
	assert.Equal(t, "", recs[1]["session_id"])
	assert.Equal(t, "broken", recs[1]["tool_name"])
}

func TestHandlerErrorIsNotAResult(t *testing.T) {
	var buf bytes.Buffer
	s := newAuditedServer(t, &buf)

	callTool(context.Background(), s, "failing")

	recs := records(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "tool_call", recs[0]["msg"])
}
