package docspace

import (
	"context"
	"fmt"
	"net/http"
)

// BatchOptions describes a copy or move of files and folders
type BatchOptions struct {
	FolderIDs           []int `json:"folderIds,omitempty"`
	FileIDs             []int `json:"fileIds,omitempty"`
	DestFolderID        int   `json:"destFolderId"`
	ConflictResolveType int   `json:"conflictResolveType,omitempty"`
	DeleteAfter         bool  `json:"deleteAfter,omitempty"`
}

type deleteOptions struct {
	DeleteAfter bool `json:"deleteAfter"`
	Immediately bool `json:"immediately"`
}

// GetOperationStatuses returns every active operation of the current user
func (c *Client) GetOperationStatuses(ctx context.Context) ([]Operation, *Response, error) {
	var ops []Operation
	res, err := c.do(ctx, request{method: http.MethodGet, path: "api/2.0/files/fileops"}, &ops)
	if err != nil {
		return nil, res, err
	}
	return ops, res, nil
}

// CopyBatch starts copying files and folders
func (c *Client) CopyBatch(ctx context.Context, opts BatchOptions) ([]Operation, *Response, error) {
	return c.batch(ctx, "api/2.0/files/fileops/copy", opts)
}

// MoveBatch starts moving files and folders
func (c *Client) MoveBatch(ctx context.Context, opts BatchOptions) ([]Operation, *Response, error) {
	return c.batch(ctx, "api/2.0/files/fileops/move", opts)
}

func (c *Client) batch(ctx context.Context, path string, opts BatchOptions) ([]Operation, *Response, error) {
	var ops []Operation
	res, err := c.do(ctx, request{method: http.MethodPut, path: path, body: opts}, &ops)
	if err != nil {
		return nil, res, err
	}
	return ops, res, nil
}

// BulkDownload starts packing files and folders into one archive
func (c *Client) BulkDownload(ctx context.Context, fileIDs, folderIDs []int) ([]Operation, *Response, error) {
	body := map[string][]int{"fileIds": fileIDs, "folderIds": folderIDs}
	var ops []Operation
	res, err := c.do(ctx, request{method: http.MethodPut, path: "api/2.0/files/fileops/bulkdownload", body: body}, &ops)
	if err != nil {
		return nil, res, err
	}
	return ops, res, nil
}

func (c *Client) deleteEntry(ctx context.Context, path string) ([]Operation, *Response, error) {
	var ops []Operation
	body := deleteOptions{Immediately: false}
	res, err := c.do(ctx, request{method: http.MethodDelete, path: path, body: body}, &ops)
	if err != nil {
		return nil, res, err
	}
	return ops, res, nil
}

func filePath(id int) string   { return fmt.Sprintf("api/2.0/files/file/%d", id) }
func folderPath(id int) string { return fmt.Sprintf("api/2.0/files/folder/%d", id) }
func roomPath(id int) string   { return fmt.Sprintf("api/2.0/files/rooms/%d", id) }
