package entities

import (
	"strings"
	"time"

	"docspace/domain/core/valueobjects"
	pkgerrors "docspace/pkg/errors"
)

// DefaultWorkspaceColor is used when a workspace is created without a color.
const DefaultWorkspaceColor = "#3b82f6"

// Workspace groups files, links and tags owned by one user.
type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewWorkspace creates a workspace owned by ownerID.
func NewWorkspace(id, ownerID, name, description, color string) (*Workspace, error) {
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("ownerID cannot be empty")
	}
	if id == "" {
		id = valueobjects.NewID()
	}

	now := time.Now().UTC()
	ws := &Workspace{
		ID:        id,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ws.Rename(name); err != nil {
		return nil, err
	}
	ws.Description = strings.TrimSpace(description)
	if err := ws.Recolor(color); err != nil {
		return nil, err
	}
	return ws, nil
}

// Rename changes the display name.
func (w *Workspace) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.NewValidationError("workspace name cannot be empty")
	}
	if len([]rune(name)) > 100 {
		return pkgerrors.NewValidationError("workspace name must be at most 100 characters")
	}
	w.Name = name
	w.touch()
	return nil
}

// Describe replaces the description.
func (w *Workspace) Describe(description string) {
	w.Description = strings.TrimSpace(description)
	w.touch()
}

// Recolor sets a #RRGGBB color. An empty color resets to the default.
func (w *Workspace) Recolor(color string) error {
	if color == "" {
		color = DefaultWorkspaceColor
	}
	if !IsHexColor(color) {
		return pkgerrors.NewValidationError("color must be a hex color like #3b82f6")
	}
	w.Color = strings.ToLower(color)
	w.touch()
	return nil
}

// IsOwner reports whether userID owns the workspace.
func (w *Workspace) IsOwner(userID string) bool {
	return userID != "" && w.OwnerID == userID
}

func (w *Workspace) touch() {
	w.UpdatedAt = time.Now().UTC()
}

// MemberRole is the role a user holds in a shared workspace.
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleEditor MemberRole = "editor"
	RoleViewer MemberRole = "viewer"
)

// Member is a row of workspace_members.
type Member struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	UserID      string     `json:"user_id"`
	Role        MemberRole `json:"role"`
	JoinedAt    time.Time  `json:"joined_at"`
}

// CanManage reports whether the role may change workspace settings.
func (r MemberRole) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanEdit reports whether the role may change workspace content.
func (r MemberRole) CanEdit() bool {
	return r.CanManage() || r == RoleEditor
}

// IsValid reports whether r is a known role.
func (r MemberRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// IsHexColor reports whether s has the form #RRGGBB.
func IsHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
