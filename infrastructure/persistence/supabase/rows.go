package supabase

import (
	"time"

	"docspace/domain/core/entities"
)

type workspaceRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       string    `json:"color"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func workspaceToRow(ws *entities.Workspace) workspaceRow {
	row := workspaceRow{
		ID:        ws.ID,
		Name:      ws.Name,
		Color:     ws.Color,
		OwnerID:   ws.OwnerID,
		CreatedAt: ws.CreatedAt,
		UpdatedAt: ws.UpdatedAt,
	}
	if ws.Description != "" {
		row.Description = &ws.Description
	}
	return row
}

func (r workspaceRow) toEntity() *entities.Workspace {
	ws := &entities.Workspace{
		ID:        r.ID,
		Name:      r.Name,
		Color:     r.Color,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Description != nil {
		ws.Description = *r.Description
	}
	if ws.Color == "" {
		ws.Color = entities.DefaultWorkspaceColor
	}
	return ws
}

type memberRow struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

func (r memberRow) toEntity() *entities.Member {
	return &entities.Member{
		ID:          r.ID,
		WorkspaceID: r.WorkspaceID,
		UserID:      r.UserID,
		Role:        entities.MemberRole(r.Role),
		JoinedAt:    r.JoinedAt,
	}
}

type fileRow struct {
	ID             string             `json:"id"`
	WorkspaceID    string             `json:"workspace_id"`
	Name           string             `json:"name"`
	IsFolder       bool               `json:"is_folder"`
	ParentFolderID *string            `json:"parent_folder_id"`
	Type           string             `json:"type"`
	Content        *entities.Document `json:"content"`
	FilePath       *string            `json:"file_path"`
	SizeBytes      *int64             `json:"size_bytes"`
	CreatedBy      string             `json:"created_by"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func fileToRow(f *entities.FileRecord) fileRow {
	return fileRow{
		ID:             f.ID,
		WorkspaceID:    f.WorkspaceID,
		Name:           f.Name,
		IsFolder:       f.IsFolder,
		ParentFolderID: f.ParentFolderID,
		Type:           string(f.Type),
		Content:        f.Content,
		FilePath:       f.FilePath,
		SizeBytes:      f.SizeBytes,
		CreatedBy:      f.CreatedBy,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func (r fileRow) toEntity() entities.FileRecord {
	t := entities.FileType(r.Type)
	if t == "" {
		t = entities.FileTypeDocument
	}
	return entities.FileRecord{
		ID:             r.ID,
		WorkspaceID:    r.WorkspaceID,
		Name:           r.Name,
		IsFolder:       r.IsFolder,
		ParentFolderID: r.ParentFolderID,
		Type:           t,
		Content:        r.Content,
		FilePath:       r.FilePath,
		SizeBytes:      r.SizeBytes,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type versionRow struct {
	ID            string            `json:"id"`
	FileID        string            `json:"file_id"`
	Content       entities.Document `json:"content"`
	VersionNumber int               `json:"version_number"`
	CreatedBy     string            `json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`
}

type linkRow struct {
	ID            string    `json:"id"`
	WorkspaceID   string    `json:"workspace_id"`
	SourceFileID  string    `json:"source_file_id"`
	TargetFileID  string    `json:"target_file_id"`
	StrengthScore *float64  `json:"strength_score"`
	LinkType      *string   `json:"link_type"`
	CreatedAt     time.Time `json:"created_at"`
}

func linkToRow(l *entities.LinkRecord) linkRow {
	strength, linkType := l.StrengthScore, l.LinkType
	return linkRow{
		ID:            l.ID,
		WorkspaceID:   l.WorkspaceID,
		SourceFileID:  l.SourceFileID,
		TargetFileID:  l.TargetFileID,
		StrengthScore: &strength,
		LinkType:      &linkType,
		CreatedAt:     l.CreatedAt,
	}
}

// toEntity fills the column defaults for rows written by other clients.
func (r linkRow) toEntity() entities.LinkRecord {
	l := entities.LinkRecord{
		ID:            r.ID,
		WorkspaceID:   r.WorkspaceID,
		SourceFileID:  r.SourceFileID,
		TargetFileID:  r.TargetFileID,
		StrengthScore: entities.DefaultLinkStrength,
		LinkType:      entities.DefaultLinkType,
		CreatedAt:     r.CreatedAt,
	}
	if r.StrengthScore != nil {
		l.StrengthScore = *r.StrengthScore
	}
	if r.LinkType != nil && *r.LinkType != "" {
		l.LinkType = *r.LinkType
	}
	return l
}

type tagRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	WorkspaceID string    `json:"workspace_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r tagRow) toEntity() *entities.Tag {
	return &entities.Tag{
		ID:          r.ID,
		Name:        r.Name,
		Color:       r.Color,
		WorkspaceID: r.WorkspaceID,
		CreatedAt:   r.CreatedAt,
	}
}

type fileTagRow struct {
	FileID string `json:"file_id"`
	TagID  string `json:"tag_id"`
}

type activityRow struct {
	WorkspaceID  string                 `json:"workspace_id"`
	UserID       string                 `json:"user_id"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id"`
	Details      map[string]interface{} `json:"details,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

type idRow struct {
	ID string `json:"id"`
}
