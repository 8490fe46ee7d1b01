// Package rooms provides the rooms toolset
package rooms

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/AltairaLabs/docspace-mcp/internal/config"
	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
	"github.com/AltairaLabs/docspace-mcp/internal/tools"
	"github.com/AltairaLabs/docspace-mcp/internal/types"
)

var roomTypes = []int{
	docspace.RoomTypeFillingForms,
	docspace.RoomTypeEditing,
	docspace.RoomTypeCustom,
	docspace.RoomTypePublic,
	docspace.RoomTypeVirtualData,
}

// Handler implements the rooms toolset
type Handler struct {
	api      types.RoomsAPI
	resolver types.OperationResolver
}

// NewHandler creates a new rooms handler
func NewHandler(api types.RoomsAPI, resolver types.OperationResolver) *Handler {
	return &Handler{api: api, resolver: resolver}
}

type listRoomsInput struct {
	Filter     string `json:"filter,omitempty" jsonschema:"text to filter room titles by"`
	Count      int    `json:"count,omitempty" jsonschema:"the maximum number of rooms to return"`
	StartIndex int    `json:"startIndex,omitempty" jsonschema:"the number of rooms to skip"`
}

type roomInput struct {
	RoomID int `json:"roomId" jsonschema:"the ID of the room"`
}

type createRoomInput struct {
	Title    string `json:"title" jsonschema:"the title of the new room"`
	RoomType int    `json:"roomType" jsonschema:"1 form filling, 2 collaboration, 5 custom, 6 public, 8 virtual data"`
}

type updateRoomInput struct {
	RoomID int    `json:"roomId" jsonschema:"the ID of the room to update"`
	Title  string `json:"title" jsonschema:"the new title of the room"`
}

type setRoomAccessInput struct {
	RoomID      int                       `json:"roomId" jsonschema:"the ID of the room"`
	Invitations []docspace.RoomInvitation `json:"invitations" jsonschema:"the users to invite and the access level to grant each of them"`
	Notify      bool                      `json:"notify,omitempty" jsonschema:"notify the users by email"`
}

// RoomAccess lists who has access to a room
type RoomAccess struct {
	Shares []docspace.RoomShare `json:"shares"`
}

// Toolset returns the rooms toolset
func (h *Handler) Toolset() tools.Toolset {
	return tools.Toolset{
		Name:        config.ToolsetRooms,
		Description: "Operations for working with rooms.",
		Tools: []tools.Tool{
			tools.Must(tools.New(config.ToolListRooms,
				"List the rooms visible to the current user.",
				h.listRooms, tools.WithOutput[docspace.FolderContent](), tools.ReadOnly())),
			tools.Must(tools.New(config.ToolGetRoomInfo,
				"Get information about a room.",
				h.getRoomInfo, tools.WithOutput[docspace.Folder](), tools.ReadOnly())),
			tools.Must(tools.New(config.ToolCreateRoom,
				"Create a room.",
				h.createRoom, tools.WithOutput[docspace.Folder]())),
			tools.Must(tools.New(config.ToolUpdateRoom,
				"Rename a room.",
				h.updateRoom, tools.WithOutput[docspace.Folder]())),
			tools.Must(tools.New(config.ToolArchiveRoom,
				"Move a room to the archive.",
				h.archiveRoom, tools.Destructive())),
			tools.Must(tools.New(config.ToolUnarchiveRoom,
				"Restore a room from the archive.",
				h.unarchiveRoom)),
			tools.Must(tools.New(config.ToolGetRoomAccessLevels,
				"List the users who have access to a room and their access levels.",
				h.getRoomAccess, tools.WithOutput[RoomAccess](), tools.ReadOnly())),
			tools.Must(tools.New(config.ToolSetRoomAccess,
				"Invite users to a room or change their access levels.",
				h.setRoomAccess)),
		},
	}
}

func (h *Handler) listRooms(ctx context.Context, in listRoomsInput) (any, error) {
	c, _, err := h.api.ListRooms(ctx, docspace.ListRoomsOptions{
		Filter:     in.Filter,
		Count:      in.Count,
		StartIndex: in.StartIndex,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (h *Handler) getRoomInfo(ctx context.Context, in roomInput) (any, error) {
	f, _, err := h.api.GetRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (h *Handler) createRoom(ctx context.Context, in createRoomInput) (any, error) {
	if !slices.Contains(roomTypes, in.RoomType) {
		return nil, fmt.Errorf("unknown room type %d", in.RoomType)
	}
	f, _, err := h.api.CreateRoom(ctx, in.Title, in.RoomType)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (h *Handler) updateRoom(ctx context.Context, in updateRoomInput) (any, error) {
	f, _, err := h.api.UpdateRoom(ctx, in.RoomID, in.Title)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (h *Handler) archiveRoom(ctx context.Context, in roomInput) (any, error) {
	op, _, err := h.api.ArchiveRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if _, err := h.resolver.Resolve(ctx, *op); err != nil {
		return nil, err
	}
	return config.MsgRoomArchived, nil
}

func (h *Handler) unarchiveRoom(ctx context.Context, in roomInput) (any, error) {
	op, _, err := h.api.UnarchiveRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if _, err := h.resolver.Resolve(ctx, *op); err != nil {
		return nil, err
	}
	return config.MsgRoomUnarchived, nil
}

func (h *Handler) getRoomAccess(ctx context.Context, in roomInput) (any, error) {
	shares, _, err := h.api.GetRoomAccess(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if shares == nil {
		shares = []docspace.RoomShare{}
	}
	return RoomAccess{Shares: shares}, nil
}

func (h *Handler) setRoomAccess(ctx context.Context, in setRoomAccessInput) (any, error) {
	if len(in.Invitations) == 0 {
		return nil, errors.New("at least one invitation is required")
	}
	for _, inv := range in.Invitations {
		if inv.Access < docspace.AccessNone || inv.Access > docspace.AccessContentCreator {
			return nil, fmt.Errorf("unknown access level %d for user %s", inv.Access, inv.ID)
		}
	}
	return h.api.SetRoomAccess(ctx, in.RoomID, in.Invitations, in.Notify)
}
