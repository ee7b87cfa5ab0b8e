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

// CreateLinkHandler handles CreateLinkCommand
type CreateLinkHandler struct {
	guard    *services.AccessGuard
	files    ports.FileRepository
	links    ports.LinkRepository
	graphs   *services.GraphCache
	activity *services.ActivityRecorder
}

// NewCreateLinkHandler creates a new handler instance
func NewCreateLinkHandler(
	guard *services.AccessGuard,
	files ports.FileRepository,
	links ports.LinkRepository,
	graphs *services.GraphCache,
	activity *services.ActivityRecorder,
) *CreateLinkHandler {
	return &CreateLinkHandler{guard: guard, files: files, links: links, graphs: graphs, activity: activity}
}

// Handle executes the command
func (h *CreateLinkHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, err := commandAs[commands.CreateLinkCommand](c)
	if err != nil {
		return err
	}

	if _, err := h.guard.RequireEdit(ctx, cmd.WorkspaceID, cmd.ActorID); err != nil {
		return err
	}

	link, err := entities.NewLink(cmd.LinkID, cmd.WorkspaceID, cmd.SourceFileID, cmd.TargetFileID, cmd.Strength, cmd.LinkType)
	if err != nil {
		return err
	}
	for _, id := range []string{link.SourceFileID, link.TargetFileID} {
		file, err := h.files.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if file.WorkspaceID != link.WorkspaceID {
			return pkgerrors.NewValidationError("both files must belong to the workspace")
		}
	}

	if err := h.links.Save(ctx, link); err != nil {
		return err
	}

	h.graphs.Invalidate(ctx, link.WorkspaceID)
	h.activity.Record(ctx, entities.ActivityEntry{
		WorkspaceID:  link.WorkspaceID,
		UserID:       cmd.ActorID,
		Action:       entities.ActionCreate,
		ResourceType: entities.ResourceLink,
		ResourceID:   link.ID,
		Details: map[string]interface{}{
			"source_file_id": link.SourceFileID,
			"target_file_id": link.TargetFileID,
			"strength_score": link.StrengthScore,
		},
	})
	return nil
}

// DeleteLinkHandler handles DeleteLinkCommand
type DeleteLinkHandler struct {
	guard    *services.AccessGuard
	links    ports.LinkRepository
	graphs   *services.GraphCache
	activity *services.ActivityRecorder
}

// NewDeleteLinkHandler creates a new handler instance
func NewDeleteLinkHandler(
	guard *services.AccessGuard,
	links ports.LinkRepository,
	graphs *services.GraphCache,
	activity *services.ActivityRecorder,
) *DeleteLinkHandler {
	return &DeleteLinkHandler{guard: guard, links: links, graphs: graphs, activity: activity}
}

// Handle executes the command
func (h *DeleteLinkHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, err := commandAs[commands.DeleteLinkCommand](c)
	if err != nil {
		return err
	}

	link, err := h.links.GetByID(ctx, cmd.LinkID)
	if err != nil {
		return err
	}
	if _, err := h.guard.RequireEdit(ctx, link.WorkspaceID, cmd.ActorID); err != nil {
		return err
	}
	if err := h.links.Delete(ctx, link.ID); err != nil {
		return err
	}

	h.graphs.Invalidate(ctx, link.WorkspaceID)
	h.activity.Record(ctx, entities.ActivityEntry{
		WorkspaceID:  link.WorkspaceID,
		UserID:       cmd.ActorID,
		Action:       entities.ActionDelete,
		ResourceType: entities.ResourceLink,
		ResourceID:   link.ID,
	})
	return nil
}
