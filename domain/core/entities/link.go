package entities

import (
	"math"
	"strings"
	"time"

	"docspace/domain/core/valueobjects"
	pkgerrors "docspace/pkg/errors"
)

const (
	// DefaultLinkStrength is used when a link is created without a score.
	DefaultLinkStrength = 0.5
	// DefaultLinkType is used when a link is created without a type.
	DefaultLinkType = "related"
)

// LinkRecord is a row of knowledge_links: a directed, weighted relation
// between two files of the same workspace.
type LinkRecord struct {
	ID            string    `json:"id"`
	WorkspaceID   string    `json:"workspace_id"`
	SourceFileID  string    `json:"source_file_id"`
	TargetFileID  string    `json:"target_file_id"`
	StrengthScore float64   `json:"strength_score"`
	LinkType      string    `json:"link_type"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewLink validates and creates a link. A nil strength takes the default.
func NewLink(id, workspaceID, sourceFileID, targetFileID string, strength *float64, linkType string) (*LinkRecord, error) {
	if workspaceID == "" {
		return nil, pkgerrors.NewValidationError("workspaceID cannot be empty")
	}
	if sourceFileID == "" || targetFileID == "" {
		return nil, pkgerrors.NewValidationError("link endpoints cannot be empty")
	}
	if sourceFileID == targetFileID {
		return nil, pkgerrors.NewValidationError("a file cannot link to itself")
	}

	score := DefaultLinkStrength
	if strength != nil {
		score = *strength
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, pkgerrors.NewValidationError("strength must be a finite number")
	}

	linkType = strings.TrimSpace(linkType)
	if linkType == "" {
		linkType = DefaultLinkType
	}
	if id == "" {
		id = valueobjects.NewID()
	}

	return &LinkRecord{
		ID:            id,
		WorkspaceID:   workspaceID,
		SourceFileID:  sourceFileID,
		TargetFileID:  targetFileID,
		StrengthScore: score,
		LinkType:      linkType,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Touches reports whether fileID is either endpoint.
func (l LinkRecord) Touches(fileID string) bool {
	return l.SourceFileID == fileID || l.TargetFileID == fileID
}
