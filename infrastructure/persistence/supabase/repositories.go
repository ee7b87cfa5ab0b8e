package supabase

import (
	"context"
	"time"

	"docspace/application/ports"
	"docspace/domain/core/entities"
	pkgerrors "docspace/pkg/errors"
)

// WorkspaceRepository implements ports.WorkspaceRepository
type WorkspaceRepository struct{ s *Store }

func (r *WorkspaceRepository) Save(ctx context.Context, ws *entities.Workspace) error {
	var rows []workspaceRow
	req := r.s.db.From(tableWorkspaces).Insert(workspaceToRow(ws), false, "", returnRows, "")
	return r.s.exec(ctx, "insert workspace", req, &rows)
}

func (r *WorkspaceRepository) Update(ctx context.Context, ws *entities.Workspace) error {
	row := workspaceToRow(ws)
	patch := map[string]interface{}{
		"name":        row.Name,
		"description": row.Description,
		"color":       row.Color,
		"updated_at":  row.UpdatedAt,
	}
	var rows []workspaceRow
	req := r.s.db.From(tableWorkspaces).Update(patch, returnRows, "").Eq("id", ws.ID)
	if err := r.s.exec(ctx, "update workspace", req, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return pkgerrors.NewNotFoundError("workspace")
	}
	return nil
}

func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (*entities.Workspace, error) {
	var rows []workspaceRow
	req := r.s.db.From(tableWorkspaces).Select("*", "", false).Eq("id", id).Limit(1, "")
	if err := r.s.exec(ctx, "get workspace", req, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewNotFoundError("workspace")
	}
	return rows[0].toEntity(), nil
}

func (r *WorkspaceRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Workspace, error) {
	var rows []workspaceRow
	req := r.s.db.From(tableWorkspaces).Select("*", "", false).Eq("owner_id", ownerID).Order("created_at", desc())
	if err := r.s.exec(ctx, "list workspaces", req, &rows); err != nil {
		return nil, err
	}
	out := make([]*entities.Workspace, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	var rows []idRow
	req := r.s.db.From(tableWorkspaces).Delete(returnRows, "").Eq("id", id)
	if err := r.s.exec(ctx, "delete workspace", req, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return pkgerrors.NewNotFoundError("workspace")
	}
	return nil
}

func (r *WorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID string) (*entities.Member, error) {
	var rows []memberRow
	req := r.s.db.From(tableMembers).Select("*", "", false).
		Eq("workspace_id", workspaceID).
		Eq("user_id", userID).
		Limit(1, "")
	if err := r.s.exec(ctx, "get member", req, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewNotFoundError("workspace member")
	}
	return rows[0].toEntity(), nil
}

// FileRepository implements ports.FileRepository
type FileRepository struct{ s *Store }

func (r *FileRepository) Save(ctx context.Context, f *entities.FileRecord) error {
	var rows []fileRow
	req := r.s.db.From(tableFiles).Insert(fileToRow(f), false, "", returnRows, "")
	return r.s.exec(ctx, "insert file", req, &rows)
}

func (r *FileRepository) Update(ctx context.Context, f *entities.FileRecord) error {
	patch := map[string]interface{}{
		"name":       f.Name,
		"content":    f.Content,
		"updated_at": f.UpdatedAt,
	}
	var rows []idRow
	req := r.s.db.From(tableFiles).Update(patch, returnRows, "").Eq("id", f.ID)
	if err := r.s.exec(ctx, "update file", req, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return pkgerrors.NewNotFoundError("file")
	}
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*entities.FileRecord, error) {
	var rows []fileRow
	req := r.s.db.From(tableFiles).Select("*", "", false).Eq("id", id).Limit(1, "")
	if err := r.s.exec(ctx, "get file", req, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewNotFoundError("file")
	}
	f := rows[0].toEntity()
	return &f, nil
}

func (r *FileRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]entities.FileRecord, error) {
	var rows []fileRow
	req := r.s.db.From(tableFiles).Select("*", "", false).Eq("workspace_id", workspaceID).Order("created_at", asc())
	if err := r.s.exec(ctx, "list files", req, &rows); err != nil {
		return nil, err
	}
	out := make([]entities.FileRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *FileRepository) CountChildren(ctx context.Context, folderID string) (int, error) {
	var rows []idRow
	req := r.s.db.From(tableFiles).Select("id", "", false).Eq("parent_folder_id", folderID)
	if err := r.s.exec(ctx, "count children", req, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	var rows []idRow
	req := r.s.db.From(tableFiles).Delete(returnRows, "").Eq("id", id)
	if err := r.s.exec(ctx, "delete file", req, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return pkgerrors.NewNotFoundError("file")
	}
	return nil
}

func (r *FileRepository) SaveVersion(ctx context.Context, v *entities.DocumentVersion) error {
	row := versionRow{
		ID:            v.ID,
		FileID:        v.FileID,
		Content:       v.Content,
		VersionNumber: v.VersionNumber,
		CreatedBy:     v.CreatedBy,
		CreatedAt:     v.CreatedAt,
	}
	var rows []idRow
	req := r.s.db.From(tableVersions).Insert(row, false, "", returnRows, "")
	return r.s.exec(ctx, "insert document version", req, &rows)
}

func (r *FileRepository) LatestVersionNumber(ctx context.Context, fileID string) (int, error) {
	var rows []struct {
		VersionNumber int `json:"version_number"`
	}
	req := r.s.db.From(tableVersions).Select("version_number", "", false).
		Eq("file_id", fileID).
		Order("version_number", desc()).
		Limit(1, "")
	if err := r.s.exec(ctx, "latest document version", req, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].VersionNumber, nil
}

// LinkRepository implements ports.LinkRepository
type LinkRepository struct{ s *Store }

func (r *LinkRepository) Save(ctx context.Context, l *entities.LinkRecord) error {
	var rows []idRow
	req := r.s.db.From(tableLinks).Insert(linkToRow(l), false, "", returnRows, "")
	return r.s.exec(ctx, "insert link", req, &rows)
}

func (r *LinkRepository) GetByID(ctx context.Context, id string) (*entities.LinkRecord, error) {
	var rows []linkRow
	req := r.s.db.From(tableLinks).Select("*", "", false).Eq("id", id).Limit(1, "")
	if err := r.s.exec(ctx, "get link", req, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewNotFoundError("link")
	}
	l := rows[0].toEntity()
	return &l, nil
}

func (r *LinkRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]entities.LinkRecord, error) {
	var rows []linkRow
	req := r.s.db.From(tableLinks).Select("*", "", false).Eq("workspace_id", workspaceID).Order("created_at", asc())
	if err := r.s.exec(ctx, "list links", req, &rows); err != nil {
		return nil, err
	}
	out := make([]entities.LinkRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *LinkRepository) Delete(ctx context.Context, id string) error {
	var rows []idRow
	req := r.s.db.From(tableLinks).Delete(returnRows, "").Eq("id", id)
	if err := r.s.exec(ctx, "delete link", req, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return pkgerrors.NewNotFoundError("link")
	}
	return nil
}

func (r *LinkRepository) DeleteByFileID(ctx context.Context, fileID string) error {
	for _, column := range []string{"source_file_id", "target_file_id"} {
		var rows []idRow
		req := r.s.db.From(tableLinks).Delete(returnRows, "").Eq(column, fileID)
		if err := r.s.exec(ctx, "delete file links", req, &rows); err != nil {
			return err
		}
	}
	return nil
}

// TagRepository implements ports.TagRepository
type TagRepository struct{ s *Store }

func (r *TagRepository) FindByName(ctx context.Context, workspaceID, name string) (*entities.Tag, error) {
	var rows []tagRow
	req := r.s.db.From(tableTags).Select("*", "", false).
		Eq("workspace_id", workspaceID).
		Eq("name", name).
		Limit(1, "")
	if err := r.s.exec(ctx, "find tag", req, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, pkgerrors.NewNotFoundError("tag")
	}
	return rows[0].toEntity(), nil
}

func (r *TagRepository) Save(ctx context.Context, t *entities.Tag) error {
	row := tagRow{ID: t.ID, Name: t.Name, Color: t.Color, WorkspaceID: t.WorkspaceID, CreatedAt: t.CreatedAt}
	var rows []idRow
	req := r.s.db.From(tableTags).Insert(row, false, "", returnRows, "")
	return r.s.exec(ctx, "insert tag", req, &rows)
}

func (r *TagRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*entities.Tag, error) {
	var rows []tagRow
	req := r.s.db.From(tableTags).Select("*", "", false).Eq("workspace_id", workspaceID).Order("name", asc())
	if err := r.s.exec(ctx, "list tags", req, &rows); err != nil {
		return nil, err
	}
	out := make([]*entities.Tag, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// AttachToFile upserts on (file_id, tag_id).
func (r *TagRepository) AttachToFile(ctx context.Context, fileID, tagID string) error {
	var rows []fileTagRow
	req := r.s.db.From(tableFileTags).Insert(fileTagRow{FileID: fileID, TagID: tagID}, true, "file_id,tag_id", returnRows, "")
	return r.s.exec(ctx, "attach tag", req, &rows)
}

func (r *TagRepository) DeleteByFileID(ctx context.Context, fileID string) error {
	var rows []fileTagRow
	req := r.s.db.From(tableFileTags).Delete(returnRows, "").Eq("file_id", fileID)
	return r.s.exec(ctx, "detach tags", req, &rows)
}

// ActivityLog implements ports.ActivityLog
type ActivityLog struct{ s *Store }

func (a *ActivityLog) Record(ctx context.Context, e entities.ActivityEntry) error {
	row := activityRow{
		WorkspaceID:  e.WorkspaceID,
		UserID:       e.UserID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Details:      e.Details,
		CreatedAt:    e.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	var rows []idRow
	req := a.s.db.From(tableActivity).Insert(row, false, "", returnRows, "")
	return a.s.exec(ctx, "insert activity", req, &rows)
}

var (
	_ ports.WorkspaceRepository = (*WorkspaceRepository)(nil)
	_ ports.FileRepository      = (*FileRepository)(nil)
	_ ports.LinkRepository      = (*LinkRepository)(nil)
	_ ports.TagRepository       = (*TagRepository)(nil)
	_ ports.ActivityLog         = (*ActivityLog)(nil)
	_ ports.HealthChecker       = (*Store)(nil)
)
