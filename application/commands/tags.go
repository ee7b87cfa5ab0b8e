package commands

import "docspace/pkg/utils"

// ApplyTagsCommand attaches tags to a file, creating the missing ones.
type ApplyTagsCommand struct {
	FileID  string   `json:"file_id" validate:"required"`
	ActorID string   `json:"actor_id" validate:"required"`
	Tags    []string `json:"tags" validate:"required,min=1,max=20,dive,required,max=50"`
}

func (c ApplyTagsCommand) Validate() error { return utils.ValidateStruct(c) }
