// Package types declares the collaborators the toolset handlers depend on
package types

import (
	"context"

	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
	"github.com/AltairaLabs/docspace-mcp/internal/resolver"
)

// OperationResolver waits for asynchronous DocSpace operations to finish
type OperationResolver interface {
	Resolve(ctx context.Context, ops ...docspace.Operation) (*resolver.Response, error)
}

// ContentUploader streams content into an open upload session
type ContentUploader interface {
	Upload(ctx context.Context, sessionID string, content []byte) (any, *docspace.Response, error)
}

// FilesAPI provides the file endpoints
type FilesAPI interface {
	GetFile(ctx context.Context, id int) (*docspace.File, *docspace.Response, error)
	UpdateFile(ctx context.Context, id int, title string) (*docspace.File, *docspace.Response, error)
	DeleteFile(ctx context.Context, id int) ([]docspace.Operation, *docspace.Response, error)
	DownloadFile(ctx context.Context, id int) (*docspace.Response, error)
	CopyBatch(ctx context.Context, opts docspace.BatchOptions) ([]docspace.Operation, *docspace.Response, error)
	MoveBatch(ctx context.Context, opts docspace.BatchOptions) ([]docspace.Operation, *docspace.Response, error)
	CreateUploadSession(ctx context.Context, folderID int, fileName string, size int64) (*docspace.UploadSession, *docspace.Response, error)
	BulkDownload(ctx context.Context, fileIDs, folderIDs []int) ([]docspace.Operation, *docspace.Response, error)
}

// FoldersAPI provides the folder endpoints
type FoldersAPI interface {
	GetFolder(ctx context.Context, id int) (*docspace.FolderContent, *docspace.Response, error)
	GetMyFolder(ctx context.Context) (*docspace.FolderContent, *docspace.Response, error)
	CreateFolder(ctx context.Context, parentID int, title string) (*docspace.Folder, *docspace.Response, error)
	RenameFolder(ctx context.Context, id int, title string) (*docspace.Folder, *docspace.Response, error)
	DeleteFolder(ctx context.Context, id int) ([]docspace.Operation, *docspace.Response, error)
}

// RoomsAPI provides the room endpoints
type RoomsAPI interface {
	ListRooms(ctx context.Context, opts docspace.ListRoomsOptions) (*docspace.FolderContent, *docspace.Response, error)
	GetRoom(ctx context.Context, id int) (*docspace.Folder, *docspace.Response, error)
	CreateRoom(ctx context.Context, title string, roomType int) (*docspace.Folder, *docspace.Response, error)
	UpdateRoom(ctx context.Context, id int, title string) (*docspace.Folder, *docspace.Response, error)
	ArchiveRoom(ctx context.Context, id int) (*docspace.Operation, *docspace.Response, error)
	UnarchiveRoom(ctx context.Context, id int) (*docspace.Operation, *docspace.Response, error)
	GetRoomAccess(ctx context.Context, id int) ([]docspace.RoomShare, *docspace.Response, error)
	SetRoomAccess(ctx context.Context, id int, invitations []docspace.RoomInvitation, notify bool) (*docspace.Response, error)
}

// PeopleAPI provides the people endpoints
type PeopleAPI interface {
	ListPeople(ctx context.Context, filter string, count, startIndex int) ([]docspace.User, *docspace.Response, error)
	GetSelf(ctx context.Context) (*docspace.User, *docspace.Response, error)
}

// API is the full DocSpace surface used by the toolsets
type API interface {
	FilesAPI
	FoldersAPI
	RoomsAPI
	PeopleAPI
}
