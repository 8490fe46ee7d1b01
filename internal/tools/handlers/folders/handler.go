// Package folders provides the folders toolset
package folders

import (
	"context"

	"github.com/AltairaLabs/docspace-mcp/internal/config"
	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
	"github.com/AltairaLabs/docspace-mcp/internal/tools"
	"github.com/AltairaLabs/docspace-mcp/internal/types"
)

// Handler implements the folders toolset
type Handler struct {
	api      types.FoldersAPI
	resolver types.OperationResolver
}

// NewHandler creates a new folders handler
func NewHandler(api types.FoldersAPI, resolver types.OperationResolver) *Handler {
	return &Handler{api: api, resolver: resolver}
}

type folderInput struct {
	FolderID int `json:"folderId" jsonschema:"the ID of the folder"`
}

type createFolderInput struct {
	ParentID int    `json:"parentId" jsonschema:"the ID of the parent folder"`
	Title    string `json:"title" jsonschema:"the title of the new folder"`
}

type renameFolderInput struct {
	FolderID int    `json:"folderId" jsonschema:"the ID of the folder to rename"`
	Title    string `json:"title" jsonschema:"the new title of the folder"`
}

// Toolset returns the folders toolset
func (h *Handler) Toolset() tools.Toolset {
	return tools.Toolset{
		Name:        config.ToolsetFolders,
		Description: "Operations for working with folders.",
		Tools: []tools.Tool{
			tools.Must(tools.New(config.ToolGetFolder,
				"Get the content of a folder.",
				h.getFolder, tools.WithOutput[docspace.FolderContent](), tools.ReadOnly())),
			tools.Must(tools.New(config.ToolGetMyFolder,
				"Get the content of the current user's My Documents folder.",
				h.getMyFolder, tools.WithOutput[docspace.FolderContent](), tools.ReadOnly())),
			tools.Must(tools.New(config.ToolCreateFolder,
				"Create a folder.",
				h.createFolder, tools.WithOutput[docspace.Folder]())),
			tools.Must(tools.New(config.ToolRenameFolder,
				"Rename a folder.",
				h.renameFolder, tools.WithOutput[docspace.Folder]())),
			tools.Must(tools.New(config.ToolDeleteFolder,
				"Delete a folder.",
				h.deleteFolder, tools.Destructive())),
		},
	}
}

func (h *Handler) getFolder(ctx context.Context, in folderInput) (any, error) {
	c, _, err := h.api.GetFolder(ctx, in.FolderID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (h *Handler) getMyFolder(ctx context.Context, _ struct{}) (any, error) {
	c, _, err := h.api.GetMyFolder(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (h *Handler) createFolder(ctx context.Context, in createFolderInput) (any, error) {
	f, _, err := h.api.CreateFolder(ctx, in.ParentID, in.Title)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (h *Handler) renameFolder(ctx context.Context, in renameFolderInput) (any, error) {
	f, _, err := h.api.RenameFolder(ctx, in.FolderID, in.Title)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (h *Handler) deleteFolder(ctx context.Context, in folderInput) (any, error) {
	ops, _, err := h.api.DeleteFolder(ctx, in.FolderID)
	if err != nil {
		return nil, err
	}
	if _, err := h.resolver.Resolve(ctx, ops...); err != nil {
		return nil, err
	}
	return config.MsgFolderDeleted, nil
}
