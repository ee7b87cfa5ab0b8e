package entities

import "time"

// Actions recorded in the activity log
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionUpload = "upload"
	ActionTag    = "tag"
)

// Resource types recorded in the activity log
const (
	ResourceWorkspace = "workspace"
	ResourceFile      = "file"
	ResourceFolder    = "folder"
	ResourceDocument  = "document"
	ResourceLink      = "link"
	ResourceTag       = "tag"
)

// ActivityEntry is a row of activity_logs.
type ActivityEntry struct {
	ID           string                 `json:"id,omitempty"`
	WorkspaceID  string                 `json:"workspace_id"`
	UserID       string                 `json:"user_id"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id"`
	Details      map[string]interface{} `json:"details,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}
