package docspace

import (
	"context"
	"net/http"
	"strconv"
)

// GetFile returns file metadata
func (c *Client) GetFile(ctx context.Context, id int) (*File, *Response, error) {
	var f File
	res, err := c.do(ctx, request{method: http.MethodGet, path: filePath(id)}, &f)
	if err != nil {
		return nil, res, err
	}
	return &f, res, nil
}

// UpdateFile renames a file
func (c *Client) UpdateFile(ctx context.Context, id int, title string) (*File, *Response, error) {
	var f File
	body := map[string]string{"title": title}
	res, err := c.do(ctx, request{method: http.MethodPut, path: filePath(id), body: body}, &f)
	if err != nil {
		return nil, res, err
	}
	return &f, res, nil
}

// DeleteFile moves a file to the trash. The returned operations track the job.
func (c *Client) DeleteFile(ctx context.Context, id int) ([]Operation, *Response, error) {
	return c.deleteEntry(ctx, filePath(id))
}

// DownloadFile returns the raw content of a file, converted to text on the
// server side when the document format allows it.
func (c *Client) DownloadFile(ctx context.Context, id int) (*Response, error) {
	req := request{
		method: http.MethodGet,
		path:   "filehandler.ashx",
		query: map[string]string{
			"action":     "download",
			"fileid":     strconv.Itoa(id),
			"outputtype": ".txt",
		},
	}
	return c.do(ctx, req, nil)
}
