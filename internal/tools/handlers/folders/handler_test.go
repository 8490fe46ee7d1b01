package folders

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/docspace-mcp/internal/config"
	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
	"github.com/AltairaLabs/docspace-mcp/internal/logging"
	"github.com/AltairaLabs/docspace-mcp/internal/resolver"
	"github.com/AltairaLabs/docspace-mcp/internal/tools"
)

type mockFoldersAPI struct {
	err error
}

func (m *mockFoldersAPI) GetFolder(_ context.Context, id int) (*docspace.FolderContent, *docspace.Response, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return &docspace.FolderContent{Current: &docspace.Folder{ID: id, Title: "Projects"}, Total: 0}, nil, nil
}

func (m *mockFoldersAPI) GetMyFolder(_ context.Context) (*docspace.FolderContent, *docspace.Response, error) {
	return &docspace.FolderContent{
		Current: &docspace.Folder{ID: 1, Title: "My documents"},
		Files:   []docspace.File{{ID: 10, Title: "a.txt"}},
		Total:   1,
	}, nil, nil
}

func (m *mockFoldersAPI) CreateFolder(_ context.Context, parentID int, title string) (*docspace.Folder, *docspace.Response, error) {
	return &docspace.Folder{ID: 100, ParentID: parentID, Title: title}, nil, nil
}

func (m *mockFoldersAPI) RenameFolder(_ context.Context, id int, title string) (*docspace.Folder, *docspace.Response, error) {
	return &docspace.Folder{ID: id, Title: title}, nil, nil
}

func (m *mockFoldersAPI) DeleteFolder(_ context.Context, _ int) ([]docspace.Operation, *docspace.Response, error) {
	return []docspace.Operation{{ID: "op-folder"}}, nil, nil
}

type mockResolver struct {
	ops []docspace.Operation
}

func (m *mockResolver) Resolve(_ context.Context, ops ...docspace.Operation) (*resolver.Response, error) {
	m.ops = append(m.ops, ops...)
	return &resolver.Response{Operations: ops}, nil
}

func setup(api *mockFoldersAPI, res *mockResolver) *tools.Router {
	h := NewHandler(api, res)
	return tools.NewRouter([]tools.Toolset{h.Toolset()}, tools.WithLogger(logging.Discard()))
}

func callTool(t *testing.T, r *tools.Router, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := r.CallTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestFolderTools(t *testing.T) {
	r := setup(&mockFoldersAPI{}, &mockResolver{})

	tests := []struct {
		name string
		tool string
		args map[string]any
		want any
	}{
		{
			name: "get folder",
			tool: config.ToolGetFolder,
			args: map[string]any{"folderId": 7},
			want: &docspace.FolderContent{Current: &docspace.Folder{ID: 7, Title: "Projects"}},
		},
		{
			name: "get my folder",
			tool: config.ToolGetMyFolder,
			args: nil,
			want: &docspace.FolderContent{
				Current: &docspace.Folder{ID: 1, Title: "My documents"},
				Files:   []docspace.File{{ID: 10, Title: "a.txt"}},
				Total:   1,
			},
		},
		{
			name: "create folder",
			tool: config.ToolCreateFolder,
			args: map[string]any{"parentId": 1, "title": "Drafts"},
			want: &docspace.Folder{ID: 100, ParentID: 1, Title: "Drafts"},
		},
		{
			name: "rename folder",
			tool: config.ToolRenameFolder,
			args: map[string]any{"folderId": 100, "title": "Final"},
			want: &docspace.Folder{ID: 100, Title: "Final"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, r, tt.tool, tt.args)
			require.False(t, res.IsError, text(t, res))
			assert.Equal(t, tt.want, res.StructuredContent)
		})
	}
}

func TestDeleteFolder(t *testing.T) {
	res := &mockResolver{}
	r := setup(&mockFoldersAPI{}, res)

	out := callTool(t, r, config.ToolDeleteFolder, map[string]any{"folderId": 3})
	require.False(t, out.IsError, text(t, out))
	assert.Equal(t, config.MsgFolderDeleted, text(t, out))
	assert.Equal(t, []docspace.Operation{{ID: "op-folder"}}, res.ops)
}

func TestGetFolderError(t *testing.T) {
	r := setup(&mockFoldersAPI{err: &docspace.StatusError{StatusCode: 404, Message: "folder not found"}}, &mockResolver{})

	out := callTool(t, r, config.ToolGetFolder, map[string]any{"folderId": 3})
	assert.True(t, out.IsError)
	assert.Contains(t, text(t, out), "folder not found")
}
