// Package queries defines the read operations of the API.
package queries

import (
	"time"

	domainservices "docspace/domain/services"
	"docspace/pkg/utils"
)

// GetWorkspaceQuery reads one workspace the user can access.
type GetWorkspaceQuery struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
}

func (q GetWorkspaceQuery) Validate() error { return utils.ValidateStruct(q) }

// ListWorkspacesQuery lists the workspaces owned by UserID.
type ListWorkspacesQuery struct {
	UserID string `json:"user_id" validate:"required"`
}

func (q ListWorkspacesQuery) Validate() error { return utils.ValidateStruct(q) }

// GetGraphDataQuery requests the laid-out file graph of a workspace.
type GetGraphDataQuery struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
}

func (q GetGraphDataQuery) Validate() error { return utils.ValidateStruct(q) }

// GetGraphDataResult is the graph of one workspace.
type GetGraphDataResult struct {
	WorkspaceID string `json:"workspace_id"`
	domainservices.GraphView
}

// ListFilesQuery lists a workspace's files, folders first.
type ListFilesQuery struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
}

func (q ListFilesQuery) Validate() error { return utils.ValidateStruct(q) }

// GetFileQuery reads one file with its content.
type GetFileQuery struct {
	FileID string `json:"file_id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

func (q GetFileQuery) Validate() error { return utils.ValidateStruct(q) }

// GetDownloadURLQuery asks for a temporary URL to an uploaded file's body.
type GetDownloadURLQuery struct {
	FileID string `json:"file_id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

func (q GetDownloadURLQuery) Validate() error { return utils.ValidateStruct(q) }

// DownloadURLResult is a presigned object URL.
type DownloadURLResult struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ListLinksQuery lists a workspace's links.
type ListLinksQuery struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
}

func (q ListLinksQuery) Validate() error { return utils.ValidateStruct(q) }

// ListTagsQuery lists a workspace's tags by name.
type ListTagsQuery struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
}

func (q ListTagsQuery) Validate() error { return utils.ValidateStruct(q) }

// GenerateTagsQuery suggests tags for Content, or for the document FileID
// when it is set.
type GenerateTagsQuery struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
	FileID      string `json:"file_id"`
	Content     string `json:"content" validate:"max=100000"`
	FileName    string `json:"filename" validate:"max=255"`
}

func (q GenerateTagsQuery) Validate() error { return utils.ValidateStruct(q) }

// GenerateTagsResult holds up to five suggested tags.
type GenerateTagsResult struct {
	Tags []string `json:"tags"`
}
