// Package files provides the files toolset
package files

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AltairaLabs/docspace-mcp/internal/config"
	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
	"github.com/AltairaLabs/docspace-mcp/internal/tools"
	"github.com/AltairaLabs/docspace-mcp/internal/types"
)

var (
	errNoItems   = errors.New("at least one file or folder id is required")
	errNoArchive = errors.New("bulk download finished without an archive url")
)

// Handler implements the files toolset
type Handler struct {
	api      types.FilesAPI
	resolver types.OperationResolver
	uploader types.ContentUploader
	logger   *slog.Logger
}

// NewHandler creates a new files handler
func NewHandler(
	api types.FilesAPI,
	resolver types.OperationResolver,
	uploader types.ContentUploader,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		api:      api,
		resolver: resolver,
		uploader: uploader,
		logger:   logger,
	}
}

type fileInput struct {
	FileID int `json:"fileId" jsonschema:"the ID of the file"`
}

type updateFileInput struct {
	FileID int    `json:"fileId" jsonschema:"the ID of the file to update"`
	Title  string `json:"title" jsonschema:"the new title of the file, including the extension"`
}

type batchInput struct {
	FolderIDs           []int `json:"folderIds,omitempty" jsonschema:"the IDs of the folders to process"`
	FileIDs             []int `json:"fileIds,omitempty" jsonschema:"the IDs of the files to process"`
	DestFolderID        int   `json:"destFolderId" jsonschema:"the ID of the destination folder"`
	ConflictResolveType int   `json:"conflictResolveType,omitempty" jsonschema:"0 to skip, 1 to overwrite, 2 to duplicate on conflict"`
	DeleteAfter         bool  `json:"deleteAfter,omitempty" jsonschema:"delete the source after the operation completes"`
}

type archiveInput struct {
	FolderIDs []int `json:"folderIds,omitempty" jsonschema:"the IDs of the folders to include"`
	FileIDs   []int `json:"fileIds,omitempty" jsonschema:"the IDs of the files to include"`
}

// Archive points at a packed bulk download
type Archive struct {
	URL string `json:"url" jsonschema:"the URL the archive can be downloaded from"`
}

type uploadInput struct {
	FolderID int    `json:"folderId" jsonschema:"the ID of the folder to upload into"`
	FileName string `json:"fileName" jsonschema:"the name of the new file, including the extension"`
	Content  string `json:"content" jsonschema:"the text content of the file"`
}

// Toolset returns the files toolset
func (h *Handler) Toolset() tools.Toolset {
	return tools.Toolset{
		Name:        config.ToolsetFiles,
		Description: "Operations for working with files.",
		Tools: []tools.Tool{
			tools.Must(tools.New(config.ToolGetFileInfo,
				"Get information about a file.",
				h.getFileInfo, tools.WithOutput[docspace.File](), tools.ReadOnly())),
			tools.Must(tools.New(config.ToolUpdateFile,
				"Rename a file.",
				h.updateFile)),
			tools.Must(tools.New(config.ToolDeleteFile,
				"Delete a file.",
				h.deleteFile, tools.Destructive())),
			tools.Must(tools.New(config.ToolCopyBatchItems,
				"Copy files and folders to another folder.",
				h.copyBatchItems)),
			tools.Must(tools.New(config.ToolMoveBatchItems,
				"Move files and folders to another folder.",
				h.moveBatchItems)),
			tools.Must(tools.New(config.ToolDownloadFileAsText,
				"Download a file and return its content as text.",
				h.downloadFileAsText, tools.ReadOnly())),
			tools.Must(tools.New(config.ToolUploadFile,
				"Upload a new text file to a folder.",
				h.uploadFile)),
			tools.Must(tools.New(config.ToolDownloadAsArchive,
				"Pack files and folders into one archive and return its download URL.",
				h.downloadAsArchive, tools.WithOutput[Archive]())),
		},
	}
}

func (h *Handler) getFileInfo(ctx context.Context, in fileInput) (any, error) {
	f, _, err := h.api.GetFile(ctx, in.FileID)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (h *Handler) updateFile(ctx context.Context, in updateFileInput) (any, error) {
	if _, _, err := h.api.UpdateFile(ctx, in.FileID, in.Title); err != nil {
		return nil, err
	}
	return config.MsgFileUpdated, nil
}

func (h *Handler) deleteFile(ctx context.Context, in fileInput) (any, error) {
	ops, _, err := h.api.DeleteFile(ctx, in.FileID)
	if err != nil {
		return nil, err
	}
	return h.settle(ctx, ops, config.MsgFileDeleted)
}

func (h *Handler) copyBatchItems(ctx context.Context, in batchInput) (any, error) {
	if len(in.FileIDs) == 0 && len(in.FolderIDs) == 0 {
		return nil, errNoItems
	}
	ops, _, err := h.api.CopyBatch(ctx, in.options())
	if err != nil {
		return nil, err
	}
	return h.settle(ctx, ops, config.MsgItemsCopied)
}

func (h *Handler) moveBatchItems(ctx context.Context, in batchInput) (any, error) {
	if len(in.FileIDs) == 0 && len(in.FolderIDs) == 0 {
		return nil, errNoItems
	}
	ops, _, err := h.api.MoveBatch(ctx, in.options())
	if err != nil {
		return nil, err
	}
	return h.settle(ctx, ops, config.MsgItemsMoved)
}

func (h *Handler) downloadFileAsText(ctx context.Context, in fileInput) (any, error) {
	return h.api.DownloadFile(ctx, in.FileID)
}

func (h *Handler) downloadAsArchive(ctx context.Context, in archiveInput) (any, error) {
	if len(in.FileIDs) == 0 && len(in.FolderIDs) == 0 {
		return nil, errNoItems
	}
	ops, _, err := h.api.BulkDownload(ctx, in.FileIDs, in.FolderIDs)
	if err != nil {
		return nil, err
	}

	res, err := h.resolver.Resolve(ctx, ops...)
	if err != nil {
		return nil, err
	}
	for _, op := range res.Operations {
		if op.URL != "" {
			return Archive{URL: op.URL}, nil
		}
	}
	return nil, errNoArchive
}

func (h *Handler) uploadFile(ctx context.Context, in uploadInput) (any, error) {
	content := []byte(in.Content)

	s, _, err := h.api.CreateUploadSession(ctx, in.FolderID, in.FileName, int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("create upload session: %w", err)
	}

	if _, _, err := h.uploader.Upload(ctx, s.ID, content); err != nil {
		return nil, fmt.Errorf("upload %s: %w", in.FileName, err)
	}

	h.logger.Debug("file uploaded", "folder_id", in.FolderID, "file_name", in.FileName, "bytes", len(content))
	return config.MsgFileUploaded, nil
}

// settle waits for the operations started by a mutating call and answers
// with msg once all of them are done
func (h *Handler) settle(ctx context.Context, ops []docspace.Operation, msg string) (any, error) {
	res, err := h.resolver.Resolve(ctx, ops...)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("operations resolved", "operations", len(res.Operations), "polls", len(res.Responses))
	return msg, nil
}

func (in batchInput) options() docspace.BatchOptions {
	return docspace.BatchOptions{
		FolderIDs:           in.FolderIDs,
		FileIDs:             in.FileIDs,
		DestFolderID:        in.DestFolderID,
		ConflictResolveType: in.ConflictResolveType,
		DeleteAfter:         in.DeleteAfter,
	}
}
