package commands

import "docspace/pkg/utils"

// CreateLinkCommand links two files of a workspace. A nil Strength takes the default.
type CreateLinkCommand struct {
	LinkID       string   `json:"link_id" validate:"required,uuid"`
	WorkspaceID  string   `json:"workspace_id" validate:"required"`
	ActorID      string   `json:"actor_id" validate:"required"`
	SourceFileID string   `json:"source_file_id" validate:"required"`
	TargetFileID string   `json:"target_file_id" validate:"required"`
	Strength     *float64 `json:"strength_score,omitempty"`
	LinkType     string   `json:"link_type" validate:"max=50"`
}

func (c CreateLinkCommand) Validate() error { return utils.ValidateStruct(c) }

// DeleteLinkCommand removes a link.
type DeleteLinkCommand struct {
	LinkID  string `json:"link_id" validate:"required"`
	ActorID string `json:"actor_id" validate:"required"`
}

func (c DeleteLinkCommand) Validate() error { return utils.ValidateStruct(c) }
