package ports

import (
	"context"
	"io"
	"time"

	"docspace/domain/core/entities"
)

// WorkspaceRepository persists workspaces and reads their memberships.
// Lookups of missing rows return a NOT_FOUND AppError.
type WorkspaceRepository interface {
	// Save inserts a new workspace
	Save(ctx context.Context, ws *entities.Workspace) error

	// Update writes name, description and color
	Update(ctx context.Context, ws *entities.Workspace) error

	GetByID(ctx context.Context, id string) (*entities.Workspace, error)

	// ListByOwner returns the owner's workspaces, newest first
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Workspace, error)

	// Delete removes the workspace row; the backend cascades its contents
	Delete(ctx context.Context, id string) error

	GetMember(ctx context.Context, workspaceID, userID string) (*entities.Member, error)
}

// FileRepository persists files, folders and document versions.
type FileRepository interface {
	Save(ctx context.Context, file *entities.FileRecord) error

	// Update writes name, content and updated_at
	Update(ctx context.Context, file *entities.FileRecord) error

	GetByID(ctx context.Context, id string) (*entities.FileRecord, error)

	// ListByWorkspace returns the workspace's files in storage order
	ListByWorkspace(ctx context.Context, workspaceID string) ([]entities.FileRecord, error)

	// CountChildren returns how many files have folderID as parent
	CountChildren(ctx context.Context, folderID string) (int, error)

	Delete(ctx context.Context, id string) error

	SaveVersion(ctx context.Context, version *entities.DocumentVersion) error

	// LatestVersionNumber returns 0 when the file has never been saved
	LatestVersionNumber(ctx context.Context, fileID string) (int, error)
}

// LinkRepository persists knowledge links.
type LinkRepository interface {
	Save(ctx context.Context, link *entities.LinkRecord) error
	GetByID(ctx context.Context, id string) (*entities.LinkRecord, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]entities.LinkRecord, error)
	Delete(ctx context.Context, id string) error

	// DeleteByFileID removes every link with fileID as source or target
	DeleteByFileID(ctx context.Context, fileID string) error
}

// TagRepository persists tags and their assignment to files.
type TagRepository interface {
	// FindByName returns NOT_FOUND when the workspace has no tag with that name
	FindByName(ctx context.Context, workspaceID, name string) (*entities.Tag, error)
	Save(ctx context.Context, tag *entities.Tag) error
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*entities.Tag, error)

	// AttachToFile is a no-op when the pair already exists
	AttachToFile(ctx context.Context, fileID, tagID string) error
	DeleteByFileID(ctx context.Context, fileID string) error
}

// ActivityLog records audit entries.
type ActivityLog interface {
	Record(ctx context.Context, entry entities.ActivityEntry) error
}

// ObjectStore holds uploaded file bodies.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	RemovePrefix(ctx context.Context, prefix string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Cache stores serialized query results.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// TagGenerator suggests tags for a piece of content.
type TagGenerator interface {
	GenerateTags(ctx context.Context, content, fileName string) ([]string, error)
}

// HealthChecker is implemented by dependencies /ready should probe.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
