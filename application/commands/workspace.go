// Package commands defines the state-changing operations of the API.
package commands

import (
	"docspace/pkg/utils"
)

// CreateWorkspaceCommand creates a workspace owned by OwnerID.
type CreateWorkspaceCommand struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
	OwnerID     string `json:"owner_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

func (c CreateWorkspaceCommand) Validate() error { return utils.ValidateStruct(c) }

// UpdateWorkspaceCommand changes the fields that are set.
type UpdateWorkspaceCommand struct {
	WorkspaceID string  `json:"workspace_id" validate:"required"`
	ActorID     string  `json:"actor_id" validate:"required"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

func (c UpdateWorkspaceCommand) Validate() error { return utils.ValidateStruct(c) }

// DeleteWorkspaceCommand removes a workspace with everything in it.
type DeleteWorkspaceCommand struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	ActorID     string `json:"actor_id" validate:"required"`
}

func (c DeleteWorkspaceCommand) Validate() error { return utils.ValidateStruct(c) }
