package docspace

import (
	"context"
	"net/http"
	"strconv"
)

// ListRoomsOptions filters ListRooms
type ListRoomsOptions struct {
	Filter     string
	Count      int
	StartIndex int
}

// RoomInvitation grants one user an access level
type RoomInvitation struct {
	ID     string `json:"id"`
	Access int    `json:"access"`
}

// ListRooms lists the rooms visible to the current user
func (c *Client) ListRooms(ctx context.Context, opts ListRoomsOptions) (*FolderContent, *Response, error) {
	query := map[string]string{}
	if opts.Filter != "" {
		query["filterValue"] = opts.Filter
	}
	if opts.Count > 0 {
		query["count"] = strconv.Itoa(opts.Count)
	}
	if opts.StartIndex > 0 {
		query["startIndex"] = strconv.Itoa(opts.StartIndex)
	}
	return c.folderContent(ctx, "api/2.0/files/rooms", query)
}

// GetRoom returns room metadata
func (c *Client) GetRoom(ctx context.Context, id int) (*Folder, *Response, error) {
	return c.folder(ctx, http.MethodGet, roomPath(id), nil)
}

// CreateRoom creates a room of the given type
func (c *Client) CreateRoom(ctx context.Context, title string, roomType int) (*Folder, *Response, error) {
	body := map[string]any{"title": title, "roomType": roomType}
	return c.folder(ctx, http.MethodPost, "api/2.0/files/rooms", body)
}

// UpdateRoom renames a room
func (c *Client) UpdateRoom(ctx context.Context, id int, title string) (*Folder, *Response, error) {
	return c.folder(ctx, http.MethodPut, roomPath(id), map[string]string{"title": title})
}

// ArchiveRoom starts moving a room to the archive
func (c *Client) ArchiveRoom(ctx context.Context, id int) (*Operation, *Response, error) {
	return c.roomOperation(ctx, roomPath(id)+"/archive")
}

// UnarchiveRoom starts restoring a room from the archive
func (c *Client) UnarchiveRoom(ctx context.Context, id int) (*Operation, *Response, error) {
	return c.roomOperation(ctx, roomPath(id)+"/unarchive")
}

func (c *Client) roomOperation(ctx context.Context, path string) (*Operation, *Response, error) {
	var op Operation
	body := map[string]bool{"deleteAfter": false}
	res, err := c.do(ctx, request{method: http.MethodPut, path: path, body: body}, &op)
	if err != nil {
		return nil, res, err
	}
	return &op, res, nil
}

// GetRoomAccess lists who has access to a room
func (c *Client) GetRoomAccess(ctx context.Context, id int) ([]RoomShare, *Response, error) {
	var shares []RoomShare
	res, err := c.do(ctx, request{method: http.MethodGet, path: roomPath(id) + "/share"}, &shares)
	if err != nil {
		return nil, res, err
	}
	return shares, res, nil
}

// SetRoomAccess invites users to a room or changes their access level
func (c *Client) SetRoomAccess(ctx context.Context, id int, invitations []RoomInvitation, notify bool) (*Response, error) {
	body := map[string]any{"invitations": invitations, "notify": notify}
	return c.do(ctx, request{method: http.MethodPut, path: roomPath(id) + "/share", body: body}, nil)
}
