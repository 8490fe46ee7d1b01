package config

import "slices"

// Toolset names
const (
	ToolsetFiles   = "files"
	ToolsetFolders = "folders"
	ToolsetRooms   = "rooms"
	ToolsetPeople  = "people"
)

// Files toolset
const (
	ToolGetFileInfo        = "get_file_info"
	ToolUpdateFile         = "update_file"
	ToolDeleteFile         = "delete_file"
	ToolCopyBatchItems     = "copy_batch_items"
	ToolMoveBatchItems     = "move_batch_items"
	ToolDownloadFileAsText = "download_file_as_text"
	ToolUploadFile         = "upload_file"
	ToolDownloadAsArchive  = "download_as_archive"
)

// Folders toolset
const (
	ToolGetFolder    = "get_folder"
	ToolGetMyFolder  = "get_my_folder"
	ToolCreateFolder = "create_folder"
	ToolRenameFolder = "rename_folder"
	ToolDeleteFolder = "delete_folder"
)

// Rooms toolset
const (
	ToolListRooms           = "list_rooms"
	ToolGetRoomInfo         = "get_room_info"
	ToolCreateRoom          = "create_room"
	ToolUpdateRoom          = "update_room"
	ToolArchiveRoom         = "archive_room"
	ToolUnarchiveRoom       = "unarchive_room"
	ToolGetRoomAccessLevels = "get_room_access_levels"
	ToolSetRoomAccess       = "set_room_access"
)

// People toolset
const (
	ToolGetAllPeople   = "get_all_people"
	ToolGetCurrentUser = "get_current_user"
)

// Meta-tools exposed in dynamic mode
const (
	ToolListToolsets        = "list_toolsets"
	ToolListTools           = "list_tools"
	ToolGetToolInputSchema  = "get_tool_input_schema"
	ToolGetToolOutputSchema = "get_tool_output_schema"
	ToolCallTool            = "call_tool"
)

// AllToolsets returns every toolset name in presentation order
func AllToolsets() []string {
	return []string{ToolsetFiles, ToolsetFolders, ToolsetRooms, ToolsetPeople}
}

// ToolsetTools returns the tool names that belong to a toolset
func ToolsetTools(toolset string) []string {
	switch toolset {
	case ToolsetFiles:
		return []string{
			ToolGetFileInfo,
			ToolUpdateFile,
			ToolDeleteFile,
			ToolCopyBatchItems,
			ToolMoveBatchItems,
			ToolDownloadFileAsText,
			ToolUploadFile,
			ToolDownloadAsArchive,
		}
	case ToolsetFolders:
		return []string{
			ToolGetFolder,
			ToolGetMyFolder,
			ToolCreateFolder,
			ToolRenameFolder,
			ToolDeleteFolder,
		}
	case ToolsetRooms:
		return []string{
			ToolListRooms,
			ToolGetRoomInfo,
			ToolCreateRoom,
			ToolUpdateRoom,
			ToolArchiveRoom,
			ToolUnarchiveRoom,
			ToolGetRoomAccessLevels,
			ToolSetRoomAccess,
		}
	case ToolsetPeople:
		return []string{ToolGetAllPeople, ToolGetCurrentUser}
	}
	return nil
}

// AllTools returns a slice of all regular tool names
func AllTools() []string {
	var tools []string
	for _, ts := range AllToolsets() {
		tools = append(tools, ToolsetTools(ts)...)
	}
	return tools
}

// MetaTools returns the tool names listed in dynamic mode
func MetaTools() []string {
	return []string{
		ToolListToolsets,
		ToolListTools,
		ToolGetToolInputSchema,
		ToolGetToolOutputSchema,
		ToolCallTool,
	}
}

// IsToolset reports whether name is a known toolset
func IsToolset(name string) bool {
	return slices.Contains(AllToolsets(), name)
}

// IsTool reports whether name is a known regular tool
func IsTool(name string) bool {
	return slices.Contains(AllTools(), name)
}
