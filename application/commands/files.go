package commands

import (
	"io"

	"docspace/domain/core/entities"
	pkgerrors "docspace/pkg/errors"
	"docspace/pkg/utils"
)

// CreateFileCommand creates an empty document or a folder.
type CreateFileCommand struct {
	FileID         string  `json:"file_id" validate:"required,uuid"`
	WorkspaceID    string  `json:"workspace_id" validate:"required"`
	ActorID        string  `json:"actor_id" validate:"required"`
	Name           string  `json:"name" validate:"required,max=255"`
	IsFolder       bool    `json:"is_folder"`
	ParentFolderID *string `json:"parent_folder_id,omitempty"`
}

func (c CreateFileCommand) Validate() error { return utils.ValidateStruct(c) }

// RenameFileCommand renames a file or folder.
type RenameFileCommand struct {
	FileID  string `json:"file_id" validate:"required"`
	ActorID string `json:"actor_id" validate:"required"`
	Name    string `json:"name" validate:"required,max=255"`
}

func (c RenameFileCommand) Validate() error { return utils.ValidateStruct(c) }

// DeleteFileCommand removes a file, its links and its tag assignments.
type DeleteFileCommand struct {
	FileID  string `json:"file_id" validate:"required"`
	ActorID string `json:"actor_id" validate:"required"`
}

func (c DeleteFileCommand) Validate() error { return utils.ValidateStruct(c) }

// SaveDocumentCommand replaces a document's blocks and appends a version.
type SaveDocumentCommand struct {
	FileID  string           `json:"file_id" validate:"required"`
	ActorID string           `json:"actor_id" validate:"required"`
	Blocks  []entities.Block `json:"blocks" validate:"max=5000,dive"`
}

func (c SaveDocumentCommand) Validate() error { return utils.ValidateStruct(c) }

// UploadFileCommand stores Body in object storage and records it as a file.
type UploadFileCommand struct {
	FileID         string    `json:"file_id" validate:"required,uuid"`
	WorkspaceID    string    `json:"workspace_id" validate:"required"`
	ActorID        string    `json:"actor_id" validate:"required"`
	Name           string    `json:"name" validate:"required,max=255"`
	ContentType    string    `json:"content_type"`
	Size           int64     `json:"size" validate:"gte=0"`
	ParentFolderID *string   `json:"parent_folder_id,omitempty"`
	Body           io.Reader `json:"-" validate:"-"`
}

func (c UploadFileCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if c.Body == nil {
		return pkgerrors.NewValidationError("body is required")
	}
	return nil
}
