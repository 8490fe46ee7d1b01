package docspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// CreateUploadSession opens a chunked upload of size bytes into a folder
func (c *Client) CreateUploadSession(ctx context.Context, folderID int, fileName string, size int64) (*UploadSession, *Response, error) {
	body := map[string]any{"fileName": fileName, "fileSize": size}
	path := fmt.Sprintf("api/2.0/files/%d/upload/create_session", folderID)

	var out uploadSessionResponse
	res, err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &out)
	if err != nil {
		return nil, res, err
	}
	if out.Data.ID == "" {
		return nil, res, fmt.Errorf("POST %s: upload session id is missing", path)
	}
	return &out.Data, res, nil
}

// UploadChunk sends the next chunk of an upload session. The backend answers
// 201 Created once the last chunk has been received.
func (c *Client) UploadChunk(ctx context.Context, sessionID string, chunk []byte) (any, *Response, error) {
	req := request{
		method: http.MethodPost,
		path:   "ChunkedUploader.ashx",
		query:  map[string]string{"uid": sessionID},
		prep: func(r *resty.Request) {
			r.SetFileReader("file", "chunk", bytes.NewReader(chunk))
		},
	}

	res, err := c.do(ctx, req, nil)
	if err != nil {
		return nil, res, err
	}

	var payload any
	if len(res.Body) > 0 {
		if err := json.Unmarshal(res.Body, &payload); err != nil {
			return nil, res, fmt.Errorf("POST %s: failed to decode response: %w", req.path, err)
		}
	}
	return payload, res, nil
}
