package config

// Messages returned to clients by mutating tools
const (
	MsgFileDeleted    = "File deleted."
	MsgFileUpdated    = "File updated."
	MsgFileUploaded   = "File uploaded."
	MsgItemsCopied    = "Items copied."
	MsgItemsMoved     = "Items moved."
	MsgFolderDeleted  = "Folder deleted."
	MsgRoomArchived   = "Room archived."
	MsgRoomUnarchived = "Room unarchived."
)

// Error messages used throughout the server
const (
	// ErrMisconfigured prefixes the configuration error reported in misconfigured mode
	ErrMisconfigured = "server is misconfigured"
	// ErrToolNotFound is the format string for unknown tool names
	ErrToolNotFound = "tool %q not found"
	// ErrToolsetNotFound is the format string for unknown toolset names
	ErrToolsetNotFound = "toolset %q not found"
)
