// Package handlers implements the command handlers registered on the command bus.
package handlers

import (
	"context"
	"errors"
	"fmt"

	"docspace/application/commands/bus"
	"docspace/application/ports"
	"docspace/domain/core/entities"
	pkgerrors "docspace/pkg/errors"
)

// ErrInvalidCommandType is returned when a handler receives a command it does not handle.
var ErrInvalidCommandType = errors.New("invalid command type")

// commandAs accepts both T and *T so callers can send either.
func commandAs[T any](cmd bus.Command) (T, error) {
	switch c := any(cmd).(type) {
	case T:
		return c, nil
	case *T:
		if c != nil {
			return *c, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %T", ErrInvalidCommandType, cmd)
}

// resolveParent checks that parentID names a folder in workspaceID.
func resolveParent(ctx context.Context, files ports.FileRepository, workspaceID string, parentID *string) error {
	if parentID == nil || *parentID == "" {
		return nil
	}
	parent, err := files.GetByID(ctx, *parentID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return pkgerrors.NewValidationError("parent folder does not exist")
		}
		return err
	}
	if parent.WorkspaceID != workspaceID || !parent.IsFolder {
		return pkgerrors.NewValidationError("parent must be a folder in the same workspace")
	}
	return nil
}

func fileResource(f *entities.FileRecord) string {
	if f.IsFolder {
		return entities.ResourceFolder
	}
	return entities.ResourceFile
}
