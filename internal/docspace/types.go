package docspace

// Operation is one asynchronous DocSpace job, such as a delete, move, copy,
// archive or bulk download.
type Operation struct {
	ID        string `json:"id,omitempty"`
	Operation int    `json:"operation,omitempty"`
	Progress  *int   `json:"progress,omitempty"`
	Error     string `json:"error,omitempty"`
	Processed string `json:"processed,omitempty"`
	Finished  *bool  `json:"finished,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Done reports whether the operation reached a terminal state
func (o Operation) Done() bool {
	if o.Error != "" {
		return true
	}
	if o.Progress != nil && *o.Progress == 100 {
		return true
	}
	return o.Finished != nil && *o.Finished
}

// UserRef is the short form of a user embedded in other entities
type UserRef struct {
	ID          string `json:"id" jsonschema:"user id"`
	DisplayName string `json:"displayName,omitempty" jsonschema:"user display name"`
}

// File is a document stored in DocSpace
type File struct {
	ID             int      `json:"id" jsonschema:"file id"`
	Title          string   `json:"title" jsonschema:"file title including extension"`
	FolderID       int      `json:"folderId,omitempty" jsonschema:"id of the parent folder"`
	Version        int      `json:"version,omitempty"`
	ContentLength  string   `json:"contentLength,omitempty" jsonschema:"human readable size"`
	PureContentLen int64    `json:"pureContentLength,omitempty" jsonschema:"size in bytes"`
	FileExst       string   `json:"fileExst,omitempty" jsonschema:"file extension"`
	WebURL         string   `json:"webUrl,omitempty"`
	ViewURL        string   `json:"viewUrl,omitempty"`
	Created        string   `json:"created,omitempty"`
	Updated        string   `json:"updated,omitempty"`
	CreatedBy      *UserRef `json:"createdBy,omitempty"`
}

// Folder is a folder or a room
type Folder struct {
	ID             int      `json:"id" jsonschema:"folder id"`
	Title          string   `json:"title" jsonschema:"folder title"`
	ParentID       int      `json:"parentId,omitempty" jsonschema:"id of the parent folder"`
	FilesCount     int      `json:"filesCount,omitempty"`
	FoldersCount   int      `json:"foldersCount,omitempty"`
	RoomType       int      `json:"roomType,omitempty" jsonschema:"room type, set for rooms only"`
	Private        bool     `json:"private,omitempty"`
	Created        string   `json:"created,omitempty"`
	Updated        string   `json:"updated,omitempty"`
	CreatedBy      *UserRef `json:"createdBy,omitempty"`
	RootFolderType int      `json:"rootFolderType,omitempty"`
}

// FolderContent lists the entries of a folder
type FolderContent struct {
	Current    *Folder  `json:"current,omitempty" jsonschema:"the listed folder"`
	Files      []File   `json:"files,omitempty"`
	Folders    []Folder `json:"folders,omitempty"`
	Total      int      `json:"total,omitempty" jsonschema:"total number of entries"`
	StartIndex int      `json:"startIndex,omitempty"`
	Count      int      `json:"count,omitempty"`
}

// RoomShare is one access entry of a room
type RoomShare struct {
	Access        int      `json:"access" jsonschema:"access level"`
	SharedTo      *UserRef `json:"sharedTo,omitempty"`
	IsLocked      bool     `json:"isLocked,omitempty"`
	IsOwner       bool     `json:"isOwner,omitempty"`
	CanEditAccess bool     `json:"canEditAccess,omitempty"`
}

// User is a DocSpace portal member
type User struct {
	ID          string `json:"id" jsonschema:"user id"`
	DisplayName string `json:"displayName,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	UserName    string `json:"userName,omitempty"`
	Email       string `json:"email,omitempty"`
	IsAdmin     bool   `json:"isAdmin,omitempty"`
	IsOwner     bool   `json:"isOwner,omitempty"`
	IsVisitor   bool   `json:"isVisitor,omitempty"`
	Status      int    `json:"status,omitempty"`
}

// UploadSession is an open chunked upload
type UploadSession struct {
	ID            string `json:"id"`
	Path          []int  `json:"path,omitempty"`
	Created       string `json:"created,omitempty"`
	Expired       string `json:"expired,omitempty"`
	Location      string `json:"location,omitempty"`
	BytesUploaded int64  `json:"bytes_uploaded,omitempty"`
	BytesTotal    int64  `json:"bytes_total,omitempty"`
}

type uploadSessionResponse struct {
	Success bool          `json:"success"`
	Data    UploadSession `json:"data"`
}

// Room access levels accepted by SetRoomAccess
const (
	AccessNone           = 0
	AccessReadWrite      = 1
	AccessRead           = 2
	AccessRestrict       = 3
	AccessVaries         = 4
	AccessReview         = 5
	AccessComment        = 6
	AccessFillForms      = 7
	AccessCustomFilter   = 8
	AccessRoomAdmin      = 9
	AccessEditing        = 10
	AccessContentCreator = 11
)

// Room types accepted by CreateRoom
const (
	RoomTypeFillingForms = 1
	RoomTypeEditing      = 2
	RoomTypeCustom       = 5
	RoomTypePublic       = 6
	RoomTypeVirtualData  = 8
)
