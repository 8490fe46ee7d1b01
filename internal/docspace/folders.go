package docspace

import (
	"context"
	"fmt"
	"net/http"
)

// GetFolder lists the content of a folder
func (c *Client) GetFolder(ctx context.Context, id int) (*FolderContent, *Response, error) {
	return c.folderContent(ctx, fmt.Sprintf("api/2.0/files/%d", id), nil)
}

// GetMyFolder lists the content of the current user's "My documents"
func (c *Client) GetMyFolder(ctx context.Context) (*FolderContent, *Response, error) {
	return c.folderContent(ctx, "api/2.0/files/@my", nil)
}

func (c *Client) folderContent(ctx context.Context, path string, query map[string]string) (*FolderContent, *Response, error) {
	var fc FolderContent
	res, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query}, &fc)
	if err != nil {
		return nil, res, err
	}
	return &fc, res, nil
}

// CreateFolder creates a folder inside parentID
func (c *Client) CreateFolder(ctx context.Context, parentID int, title string) (*Folder, *Response, error) {
	return c.folder(ctx, http.MethodPost, folderPath(parentID), map[string]string{"title": title})
}

// RenameFolder changes the title of a folder
func (c *Client) RenameFolder(ctx context.Context, id int, title string) (*Folder, *Response, error) {
	return c.folder(ctx, http.MethodPut, folderPath(id), map[string]string{"title": title})
}

// DeleteFolder moves a folder to the trash. The returned operations track the job.
func (c *Client) DeleteFolder(ctx context.Context, id int) ([]Operation, *Response, error) {
	return c.deleteEntry(ctx, folderPath(id))
}

func (c *Client) folder(ctx context.Context, method, path string, body any) (*Folder, *Response, error) {
	var f Folder
	res, err := c.do(ctx, request{method: method, path: path, body: body}, &f)
	if err != nil {
		return nil, res, err
	}
	return &f, res, nil
}
