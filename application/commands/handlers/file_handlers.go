package handlers

import (
	"context"

	"docspace/application/commands"
	"docspace/application/commands/bus"
	"docspace/application/ports"
	"docspace/application/services"
	"docspace/domain/core/entities"
	pkgerrors "docspace/pkg/errors"

	"go.uber.org/zap"
)

// CreateFileHandler handles CreateFileCommand
type CreateFileHandler struct {
	guard    *services.AccessGuard
	files    ports.FileRepository
	graphs   *services.GraphCache
	activity *services.ActivityRecorder
}

// NewCreateFileHandler creates a new handler instance
func NewCreateFileHandler(
	guard *services.AccessGuard,
	files ports.FileRepository,
	graphs *services.GraphCache,
	activity *services.ActivityRecorder,
) *CreateFileHandler {
	return &CreateFileHandler{guard: guard, files: files, graphs: graphs, activity: activity}
}

// Handle executes the command
func (h *CreateFileHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, err := commandAs[commands.CreateFileCommand](c)
	if err != nil {
		return err
	}

	if _, err := h.guard.RequireEdit(ctx, cmd.WorkspaceID, cmd.ActorID); err != nil {
		return err
	}
	if err := resolveParent(ctx, h.files, cmd.WorkspaceID, cmd.ParentFolderID); err != nil {
		return err
	}

	file, err := entities.NewFile(cmd.FileID, cmd.WorkspaceID, cmd.ActorID, cmd.Name, cmd.IsFolder, cmd.ParentFolderID)
	if err != nil {
		return err
	}
	if err := h.files.Save(ctx, file); err != nil {
		return err
	}

	h.graphs.Invalidate(ctx, file.WorkspaceID)
	h.activity.Record(ctx, entities.ActivityEntry{
		WorkspaceID:  file.WorkspaceID,
		UserID:       cmd.ActorID,
		Action:       entities.ActionCreate,
		ResourceType: fileResource(file),
		ResourceID:   file.ID,
		Details:      map[string]interface{}{"name": file.Name},
	})
	return nil
}

// RenameFileHandler handles RenameFileCommand
type RenameFileHandler struct {
	guard    *services.AccessGuard
	files    ports.FileRepository
	graphs   *services.GraphCache
	activity *services.ActivityRecorder
}

// NewRenameFileHandler creates a new handler instance
func NewRenameFileHandler(
	guard *services.AccessGuard,
	files ports.FileRepository,
	graphs *services.GraphCache,
	activity *services.ActivityRecorder,
) *RenameFileHandler {
	return &RenameFileHandler{guard: guard, files: files, graphs: graphs, activity: activity}
}

// Handle executes the command
func (h *RenameFileHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, err := commandAs[commands.RenameFileCommand](c)
	if err != nil {
		return err
	}

	file, err := h.files.GetByID(ctx, cmd.FileID)
	if err != nil {
		return err
	}
	if _, err := h.guard.RequireEdit(ctx, file.WorkspaceID, cmd.ActorID); err != nil {
		return err
	}

	oldName := file.Name
	if err := file.Rename(cmd.Name); err != nil {
		return err
	}
	if file.Name == oldName {
		return nil
	}
	if err := h.files.Update(ctx, file); err != nil {
		return err
	}

	h.graphs.Invalidate(ctx, file.WorkspaceID)
	h.activity.Record(ctx, entities.ActivityEntry{
		WorkspaceID:  file.WorkspaceID,
		UserID:       cmd.ActorID,
		Action:       entities.ActionUpdate,
		ResourceType: fileResource(file),
		ResourceID:   file.ID,
		Details:      map[string]interface{}{"old_name": oldName, "name": file.Name},
	})
	return nil
}

// DeleteFileHandler handles DeleteFileCommand. Folders must be empty.
type DeleteFileHandler struct {
	guard    *services.AccessGuard
	files    ports.FileRepository
	links    ports.LinkRepository
	tags     ports.TagRepository
	objects  ports.ObjectStore
	graphs   *services.GraphCache
	activity *services.ActivityRecorder
	logger   *zap.Logger
}

// NewDeleteFileHandler creates a new handler instance
func NewDeleteFileHandler(
	guard *services.AccessGuard,
	files ports.FileRepository,
	links ports.LinkRepository,
	tags ports.TagRepository,
	objects ports.ObjectStore,
	graphs *services.GraphCache,
	activity *services.ActivityRecorder,
	logger *zap.Logger,
) *DeleteFileHandler {
	return &DeleteFileHandler{
		guard:    guard,
		files:    files,
		links:    links,
		tags:     tags,
		objects:  objects,
		graphs:   graphs,
		activity: activity,
		logger:   logger,
	}
}

// Handle executes the command
func (h *DeleteFileHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, err := commandAs[commands.DeleteFileCommand](c)
	if err != nil {
		return err
	}

	file, err := h.files.GetByID(ctx, cmd.FileID)
	if err != nil {
		return err
	}
	if _, err := h.guard.RequireEdit(ctx, file.WorkspaceID, cmd.ActorID); err != nil {
		return err
	}

	if file.IsFolder {
		children, err := h.files.CountChildren(ctx, file.ID)
		if err != nil {
			return err
		}
		if children > 0 {
			return pkgerrors.NewConflictError("folder is not empty").
				WithDetails(map[string]interface{}{"children": children})
		}
	}

	if err := h.links.DeleteByFileID(ctx, file.ID); err != nil {
		return err
	}
	if err := h.tags.DeleteByFileID(ctx, file.ID); err != nil {
		return err
	}
	if err := h.files.Delete(ctx, file.ID); err != nil {
		return err
	}

	if file.FilePath != nil && h.objects != nil {
		if err := h.objects.Remove(ctx, *file.FilePath); err != nil {
			h.logger.Warn("Failed to remove uploaded object",
				zap.String("file_id", file.ID),
				zap.String("key", *file.FilePath),
				zap.Error(err),
			)
		}
	}

	h.graphs.Invalidate(ctx, file.WorkspaceID)
	h.activity.Record(ctx, entities.ActivityEntry{
		WorkspaceID:  file.WorkspaceID,
		UserID:       cmd.ActorID,
		Action:       entities.ActionDelete,
		ResourceType: fileResource(file),
		ResourceID:   file.ID,
		Details:      map[string]interface{}{"name": file.Name},
	})
	return nil
}

// SaveDocumentHandler handles SaveDocumentCommand
type SaveDocumentHandler struct {
	guard    *services.AccessGuard
	files    ports.FileRepository
	activity *services.ActivityRecorder
	logger   *zap.Logger
}

// NewSaveDocumentHandler creates a new handler instance
func NewSaveDocumentHandler(
	guard *services.AccessGuard,
	files ports.FileRepository,
	activity *services.ActivityRecorder,
	logger *zap.Logger,
) *SaveDocumentHandler {
	return &SaveDocumentHandler{guard: guard, files: files, activity: activity, logger: logger}
}

// Handle executes the command
func (h *SaveDocumentHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, err := commandAs[commands.SaveDocumentCommand](c)
	if err != nil {
		return err
	}

	file, err := h.files.GetByID(ctx, cmd.FileID)
	if err != nil {
		return err
	}
	if _, err := h.guard.RequireEdit(ctx, file.WorkspaceID, cmd.ActorID); err != nil {
		return err
	}

	doc := &entities.Document{Blocks: cmd.Blocks}
	if doc.Blocks == nil {
		doc.Blocks = []entities.Block{}
	}
	if err := file.ReplaceContent(doc); err != nil {
		return err
	}
	if err := h.files.Update(ctx, file); err != nil {
		return err
	}

	latest, err := h.files.LatestVersionNumber(ctx, file.ID)
	if err != nil {
		return err
	}
	version := entities.NewDocumentVersion(file.ID, cmd.ActorID, *doc, latest)
	if err := h.files.SaveVersion(ctx, version); err != nil {
		return err
	}

	h.logger.Debug("Document saved",
		zap.String("file_id", file.ID),
		zap.Int("version", version.VersionNumber),
		zap.Int("blocks", len(doc.Blocks)),
	)
	h.activity.Record(ctx, entities.ActivityEntry{
		WorkspaceID:  file.WorkspaceID,
		UserID:       cmd.ActorID,
		Action:       entities.ActionUpdate,
		ResourceType: entities.ResourceDocument,
		ResourceID:   file.ID,
		Details:      map[string]interface{}{"version_number": version.VersionNumber},
	})
	return nil
}

// UploadFileHandler handles UploadFileCommand. The object is written first and
// removed again if the row cannot be saved.
type UploadFileHandler struct {
	guard     *services.AccessGuard
	files     ports.FileRepository
	objects   ports.ObjectStore
	maxUpload int64
	graphs    *services.GraphCache
	activity  *services.ActivityRecorder
	logger    *zap.Logger
}

// NewUploadFileHandler creates a new handler instance. maxUpload <= 0 disables the size limit.
func NewUploadFileHandler(
	guard *services.AccessGuard,
	files ports.FileRepository,
	objects ports.ObjectStore,
	maxUpload int64,
	graphs *services.GraphCache,
	activity *services.ActivityRecorder,
	logger *zap.Logger,
) *UploadFileHandler {
	return &UploadFileHandler{
		guard:     guard,
		files:     files,
		objects:   objects,
		maxUpload: maxUpload,
		graphs:    graphs,
		activity:  activity,
		logger:    logger,
	}
}

// Handle executes the command
func (h *UploadFileHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, err := commandAs[commands.UploadFileCommand](c)
	if err != nil {
		return err
	}

	if h.maxUpload > 0 && cmd.Size > h.maxUpload {
		return pkgerrors.NewTooLargeError(h.maxUpload)
	}
	if _, err := h.guard.RequireEdit(ctx, cmd.WorkspaceID, cmd.ActorID); err != nil {
		return err
	}
	if err := resolveParent(ctx, h.files, cmd.WorkspaceID, cmd.ParentFolderID); err != nil {
		return err
	}

	key := entities.ObjectKey(cmd.WorkspaceID, cmd.FileID, cmd.Name)
	file, err := entities.NewUploadedFile(cmd.FileID, cmd.WorkspaceID, cmd.ActorID, cmd.Name,
		cmd.ContentType, key, cmd.Size, cmd.ParentFolderID)
	if err != nil {
		return err
	}

	if err := h.objects.Put(ctx, key, cmd.Body, cmd.Size, cmd.ContentType); err != nil {
		return err
	}
	if err := h.files.Save(ctx, file); err != nil {
		if rmErr := h.objects.Remove(ctx, key); rmErr != nil {
			h.logger.Error("Failed to remove orphaned upload",
				zap.String("key", key),
				zap.Error(rmErr),
			)
		}
		return err
	}

	h.graphs.Invalidate(ctx, file.WorkspaceID)
	h.activity.Record(ctx, entities.ActivityEntry{
		WorkspaceID:  file.WorkspaceID,
		UserID:       cmd.ActorID,
		Action:       entities.ActionUpload,
		ResourceType: entities.ResourceFile,
		ResourceID:   file.ID,
		Details: map[string]interface{}{
			"name":       file.Name,
			"size_bytes": cmd.Size,
			"type":       string(file.Type),
		},
	})
	return nil
}
