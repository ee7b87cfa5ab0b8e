package handlers

import (
	"context"

	"docspace/application/commands"
	"docspace/application/commands/bus"
	"docspace/application/ports"
	"docspace/application/services"
	"docspace/domain/core/entities"
	"docspace/pkg/observability"

	"go.uber.org/zap"
)

// CreateWorkspaceHandler handles CreateWorkspaceCommand
type CreateWorkspaceHandler struct {
	workspaces ports.WorkspaceRepository
	activity   *services.ActivityRecorder
	logger     *zap.Logger
}

// NewCreateWorkspaceHandler creates a new handler instance
func NewCreateWorkspaceHandler(
	workspaces ports.WorkspaceRepository,
	activity *services.ActivityRecorder,
	logger *zap.Logger,
) *CreateWorkspaceHandler {
	return &CreateWorkspaceHandler{workspaces: workspaces, activity: activity, logger: logger}
}

// Handle executes the command
func (h *CreateWorkspaceHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, err := commandAs[commands.CreateWorkspaceCommand](c)
	if err != nil {
		return err
	}

	ws, err := entities.NewWorkspace(cmd.WorkspaceID, cmd.OwnerID, cmd.Name, cmd.Description, cmd.Color)
	if err != nil {
		return err
	}
	if err := h.workspaces.Save(ctx, ws); err != nil {
		return err
	}

	h.logger.Info("Workspace created",
		zap.String("workspace_id", ws.ID),
		zap.String("owner_id", ws.OwnerID),
	)
	h.activity.Record(ctx, entities.ActivityEntry{
		WorkspaceID:  ws.ID,
		UserID:       cmd.OwnerID,
		Action:       entities.ActionCreate,
		ResourceType: entities.ResourceWorkspace,
		ResourceID:   ws.ID,
		Details:      map[string]interface{}{"name": ws.Name},
	})
	return nil
}

// UpdateWorkspaceHandler handles UpdateWorkspaceCommand. Only the owner may update.
type UpdateWorkspaceHandler struct {
	guard      *services.AccessGuard
	workspaces ports.WorkspaceRepository
	graphs     *services.GraphCache
	activity   *services.ActivityRecorder
}

// NewUpdateWorkspaceHandler creates a new handler instance
func NewUpdateWorkspaceHandler(
	guard *services.AccessGuard,
	workspaces ports.WorkspaceRepository,
	graphs *services.GraphCache,
	activity *services.ActivityRecorder,
) *UpdateWorkspaceHandler {
	return &UpdateWorkspaceHandler{guard: guard, workspaces: workspaces, graphs: graphs, activity: activity}
}

// Handle executes the command
func (h *UpdateWorkspaceHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, err := commandAs[commands.UpdateWorkspaceCommand](c)
	if err != nil {
		return err
	}

	ws, err := h.guard.RequireOwner(ctx, cmd.WorkspaceID, cmd.ActorID)
	if err != nil {
		return err
	}

	changed := make([]string, 0, 3)
	if cmd.Name != nil {
		if err := ws.Rename(*cmd.Name); err != nil {
			return err
		}
		changed = append(changed, "name")
	}
	if cmd.Description != nil {
		ws.Describe(*cmd.Description)
		changed = append(changed, "description")
	}
	if cmd.Color != nil {
		if err := ws.Recolor(*cmd.Color); err != nil {
			return err
		}
		changed = append(changed, "color")
	}
	if len(changed) == 0 {
		return nil
	}

	if err := h.workspaces.Update(ctx, ws); err != nil {
		return err
	}
	h.graphs.Invalidate(ctx, ws.ID)
	h.activity.Record(ctx, entities.ActivityEntry{
		WorkspaceID:  ws.ID,
		UserID:       cmd.ActorID,
		Action:       entities.ActionUpdate,
		ResourceType: entities.ResourceWorkspace,
		ResourceID:   ws.ID,
		Details:      map[string]interface{}{"fields": changed},
	})
	return nil
}

// DeleteWorkspaceHandler handles DeleteWorkspaceCommand. The database cascades
// the workspace's rows, including its activity log, so the deletion is only
// logged and counted.
type DeleteWorkspaceHandler struct {
	guard      *services.AccessGuard
	workspaces ports.WorkspaceRepository
	objects    ports.ObjectStore
	graphs     *services.GraphCache
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewDeleteWorkspaceHandler creates a new handler instance
func NewDeleteWorkspaceHandler(
	guard *services.AccessGuard,
	workspaces ports.WorkspaceRepository,
	objects ports.ObjectStore,
	graphs *services.GraphCache,
	metrics *observability.Collector,
	logger *zap.Logger,
) *DeleteWorkspaceHandler {
	return &DeleteWorkspaceHandler{
		guard:      guard,
		workspaces: workspaces,
		objects:    objects,
		graphs:     graphs,
		metrics:    metrics,
		logger:     logger,
	}
}

// Handle executes the command
func (h *DeleteWorkspaceHandler) Handle(ctx context.Context, c bus.Command) error {
	cmd, err := commandAs[commands.DeleteWorkspaceCommand](c)
	if err != nil {
		return err
	}

	ws, err := h.guard.RequireOwner(ctx, cmd.WorkspaceID, cmd.ActorID)
	if err != nil {
		return err
	}

	if err := h.workspaces.Delete(ctx, ws.ID); err != nil {
		return err
	}
	h.graphs.Invalidate(ctx, ws.ID)

	if h.objects != nil {
		if err := h.objects.RemovePrefix(ctx, entities.WorkspaceObjectPrefix(ws.ID)); err != nil {
			h.logger.Warn("Failed to remove workspace objects",
				zap.String("workspace_id", ws.ID),
				zap.Error(err),
			)
		}
	}

	if h.metrics != nil {
		h.metrics.RecordMutation(entities.ResourceWorkspace, entities.ActionDelete)
	}
	h.logger.Info("Workspace deleted",
		zap.String("workspace_id", ws.ID),
		zap.String("actor_id", cmd.ActorID),
	)
	return nil
}
