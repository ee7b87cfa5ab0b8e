package entities

import (
	"regexp"
	"strings"
	"time"

	"docspace/domain/core/valueobjects"
	pkgerrors "docspace/pkg/errors"
)

// DefaultTagColor is used for tags created from generated suggestions.
const DefaultTagColor = "#6b7280"

// Tag is a workspace-scoped label. Names are unique per workspace.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	WorkspaceID string    `json:"workspace_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileTag is a row of file_tags.
type FileTag struct {
	ID     string `json:"id"`
	FileID string `json:"file_id"`
	TagID  string `json:"tag_id"`
}

var (
	tagStrip = regexp.MustCompile(`[^\w\s-]`)
	tagSpace = regexp.MustCompile(`\s+`)
)

// NormalizeTagName lowercases a tag, strips punctuation other than hyphens
// and joins words with hyphens. It returns "" when nothing usable remains.
func NormalizeTagName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = tagStrip.ReplaceAllString(name, "")
	name = tagSpace.ReplaceAllString(strings.TrimSpace(name), "-")
	return name
}

// NewTag creates a tag with a normalized name.
func NewTag(workspaceID, name, color string) (*Tag, error) {
	if workspaceID == "" {
		return nil, pkgerrors.NewValidationError("workspaceID cannot be empty")
	}
	normalized := NormalizeTagName(name)
	if normalized == "" {
		return nil, pkgerrors.NewValidationErrorf("tag %q is empty after normalization", name)
	}
	if len(normalized) > 50 {
		return nil, pkgerrors.NewValidationError("tag name must be at most 50 characters")
	}
	if color == "" {
		color = DefaultTagColor
	}
	if !IsHexColor(color) {
		return nil, pkgerrors.NewValidationError("tag color must be a hex color")
	}
	return &Tag{
		ID:          valueobjects.NewID(),
		Name:        normalized,
		Color:       strings.ToLower(color),
		WorkspaceID: workspaceID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
