package services

import (
	"context"

	"docspace/application/ports"
	"docspace/domain/core/entities"
	pkgerrors "docspace/pkg/errors"
)

// AccessLevel is what a caller needs to be allowed to do in a workspace.
type AccessLevel int

const (
	AccessRead AccessLevel = iota
	AccessEdit
	AccessOwner
)

// AccessGuard answers workspace permission checks. Owners can do anything;
// members are limited by their role.
type AccessGuard struct {
	workspaces ports.WorkspaceRepository
}

// NewAccessGuard creates a guard over the workspace repository.
func NewAccessGuard(workspaces ports.WorkspaceRepository) *AccessGuard {
	return &AccessGuard{workspaces: workspaces}
}

// Require loads the workspace and checks that userID holds level on it.
func (g *AccessGuard) Require(ctx context.Context, workspaceID, userID string, level AccessLevel) (*entities.Workspace, error) {
	if userID == "" {
		return nil, pkgerrors.NewUnauthorizedError("")
	}

	ws, err := g.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if ws.IsOwner(userID) {
		return ws, nil
	}
	if level == AccessOwner {
		return nil, pkgerrors.NewForbiddenError("only the workspace owner can do this")
	}

	member, err := g.workspaces.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, pkgerrors.NewForbiddenError("you do not have access to this workspace")
		}
		return nil, err
	}

	if level == AccessEdit && !member.Role.CanEdit() {
		return nil, pkgerrors.NewForbiddenError("your role does not allow changes to this workspace")
	}
	return ws, nil
}

// RequireRead is Require with AccessRead.
func (g *AccessGuard) RequireRead(ctx context.Context, workspaceID, userID string) (*entities.Workspace, error) {
	return g.Require(ctx, workspaceID, userID, AccessRead)
}

// RequireEdit is Require with AccessEdit.
func (g *AccessGuard) RequireEdit(ctx context.Context, workspaceID, userID string) (*entities.Workspace, error) {
	return g.Require(ctx, workspaceID, userID, AccessEdit)
}

// RequireOwner is Require with AccessOwner.
func (g *AccessGuard) RequireOwner(ctx context.Context, workspaceID, userID string) (*entities.Workspace, error) {
	return g.Require(ctx, workspaceID, userID, AccessOwner)
}
