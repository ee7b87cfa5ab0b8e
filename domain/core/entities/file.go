package entities

import (
	"path"
	"sort"
	"strings"
	"time"

	"docspace/domain/core/valueobjects"
	pkgerrors "docspace/pkg/errors"
)

// FileType is the coarse content kind stored in files.type.
type FileType string

const (
	FileTypeDocument FileType = "document"
	FileTypeImage    FileType = "image"
	FileTypePDF      FileType = "pdf"
	FileTypeVideo    FileType = "video"
	FileTypeOther    FileType = "other"
)

// FileTypeFromMIME maps an upload's content type onto a FileType.
func FileTypeFromMIME(contentType string) FileType {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch {
	case strings.HasPrefix(ct, "image/"):
		return FileTypeImage
	case strings.HasPrefix(ct, "video/"):
		return FileTypeVideo
	case ct == "application/pdf":
		return FileTypePDF
	case strings.HasPrefix(ct, "text/"), ct == "application/json":
		return FileTypeDocument
	default:
		return FileTypeOther
	}
}

// MaxFileNameLength bounds file and folder names.
const MaxFileNameLength = 255

// FileRecord is a row of the files table: a folder, a block document or an
// uploaded object.
type FileRecord struct {
	ID             string    `json:"id"`
	WorkspaceID    string    `json:"workspace_id"`
	Name           string    `json:"name"`
	IsFolder       bool      `json:"is_folder"`
	ParentFolderID *string   `json:"parent_folder_id,omitempty"`
	Type           FileType  `json:"type"`
	Content        *Document `json:"content,omitempty"`
	FilePath       *string   `json:"file_path,omitempty"`
	SizeBytes      *int64    `json:"size_bytes,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewFile creates a document or folder. Documents start with one empty text block.
func NewFile(id, workspaceID, createdBy, name string, isFolder bool, parentFolderID *string) (*FileRecord, error) {
	if workspaceID == "" {
		return nil, pkgerrors.NewValidationError("workspaceID cannot be empty")
	}
	if createdBy == "" {
		return nil, pkgerrors.NewValidationError("createdBy cannot be empty")
	}
	if id == "" {
		id = valueobjects.NewID()
	}

	now := time.Now().UTC()
	f := &FileRecord{
		ID:             id,
		WorkspaceID:    workspaceID,
		IsFolder:       isFolder,
		ParentFolderID: parentFolderID,
		Type:           FileTypeDocument,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !isFolder {
		f.Content = NewDocument()
	}
	if err := f.Rename(name); err != nil {
		return nil, err
	}
	return f, nil
}

// NewUploadedFile creates the row describing an object stored under objectKey.
func NewUploadedFile(id, workspaceID, createdBy, name, contentType, objectKey string, size int64, parentFolderID *string) (*FileRecord, error) {
	f, err := NewFile(id, workspaceID, createdBy, name, false, parentFolderID)
	if err != nil {
		return nil, err
	}
	f.Content = nil
	f.Type = FileTypeFromMIME(contentType)
	f.FilePath = &objectKey
	f.SizeBytes = &size
	return f, nil
}

// Rename validates and sets the name.
func (f *FileRecord) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.NewValidationError("file name cannot be empty")
	}
	if len([]rune(name)) > MaxFileNameLength {
		return pkgerrors.NewValidationErrorf("file name must be at most %d characters", MaxFileNameLength)
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return pkgerrors.NewValidationError("file name cannot contain path separators")
	}
	f.Name = name
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// ReplaceContent swaps the document body of a non-folder file.
func (f *FileRecord) ReplaceContent(doc *Document) error {
	if f.IsFolder {
		return pkgerrors.NewValidationError("folders have no content")
	}
	if f.FilePath != nil {
		return pkgerrors.NewValidationError("uploaded files cannot be edited as documents")
	}
	if doc == nil {
		doc = &Document{}
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	f.Content = doc
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// Extension returns the lowercase extension of the name without the dot.
func (f *FileRecord) Extension() string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(f.Name)), ".")
}

// DocumentVersion is a row of document_versions: a snapshot taken on every save.
type DocumentVersion struct {
	ID            string    `json:"id"`
	FileID        string    `json:"file_id"`
	Content       Document  `json:"content"`
	VersionNumber int       `json:"version_number"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewDocumentVersion snapshots doc as the version after previous.
func NewDocumentVersion(fileID, createdBy string, doc Document, previous int) *DocumentVersion {
	return &DocumentVersion{
		ID:            valueobjects.NewID(),
		FileID:        fileID,
		Content:       doc,
		VersionNumber: previous + 1,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now().UTC(),
	}
}

// SortFiles orders files for listing: folders first, then by case-insensitive name.
func SortFiles(files []FileRecord) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.IsFolder != b.IsFolder {
			return a.IsFolder
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.ID < b.ID
	})
}

// WorkspaceObjectPrefix is the object storage prefix holding a workspace's uploads.
func WorkspaceObjectPrefix(workspaceID string) string {
	return "workspaces/" + workspaceID + "/"
}

// ObjectKey is where the body of an uploaded file is stored.
func ObjectKey(workspaceID, fileID, name string) string {
	return WorkspaceObjectPrefix(workspaceID) + fileID + "/" + name
}
