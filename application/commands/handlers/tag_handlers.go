package handlers

import (
	"context"

	"docspace/application/commands"
	"docspace/application/commands/bus"
	"docspace/application/ports"
	"docspace/application/services"
	"docspace/domain/core/entities"
	pkgerrors "docspace/pkg/errors"
)

// ApplyTagsHandler handles ApplyTagsCommand. Applying the same tags twice is a no-op.
type ApplyTagsHandler struct {
	guard    *services.AccessGuard
	files    ports.FileRepository
	tags     ports.TagRepository
	activity *services.ActivityRecorder
}

// NewApplyTagsHandler creates a new handler instance
func NewApplyTagsHandler(
	guard *services.AccessGuard,
	files ports.FileRepository,
	tags ports.TagRepository,
	activity *services.ActivityRecorder,
) *ApplyTagsHandler {
	return &ApplyTagsHandler{guard: guard, files: files, tags: tags, activity: activity}
}

// Handle executes the command
func (h *ApplyTagsHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, err := commandAs[commands.ApplyTagsCommand](c)
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

	applied := make([]string, 0, len(cmd.Tags))
	seen := make(map[string]bool, len(cmd.Tags))
	for _, raw := range cmd.Tags {
		name := entities.NormalizeTagName(raw)
		if seen[name] {
			continue
		}
		seen[name] = true

		tag, err := h.findOrCreate(ctx, file.WorkspaceID, raw)
		if err != nil {
			return err
		}
		if err := h.tags.AttachToFile(ctx, file.ID, tag.ID); err != nil {
			return err
		}
		applied = append(applied, tag.Name)
	}

	h.activity.Record(ctx, entities.ActivityEntry{
		WorkspaceID:  file.WorkspaceID,
		UserID:       cmd.ActorID,
		Action:       entities.ActionTag,
		ResourceType: fileResource(file),
		ResourceID:   file.ID,
		Details:      map[string]interface{}{"tags": applied},
	})
	return nil
}

func (h *ApplyTagsHandler) findOrCreate(ctx context.Context, workspaceID, raw string) (*entities.Tag, error) {
	tag, err := entities.NewTag(workspaceID, raw, "")
	if err != nil {
		return nil, err
	}

	existing, err := h.tags.FindByName(ctx, workspaceID, tag.Name)
	if err == nil {
		return existing, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	if err := h.tags.Save(ctx, tag); err != nil {
		// Lost a race with a concurrent insert of the same name.
		if pkgerrors.IsConflict(err) {
			return h.tags.FindByName(ctx, workspaceID, tag.Name)
		}
		return nil, err
	}
	return tag, nil
}
