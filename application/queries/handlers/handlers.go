// Package handlers implements the query handlers registered on the query bus.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docspace/application/ports"
	"docspace/application/queries"
	"docspace/application/queries/bus"
	"docspace/application/services"
	"docspace/domain/core/entities"
	pkgerrors "docspace/pkg/errors"
)

// ErrInvalidQueryType is returned when a handler receives a query it does not handle.
var ErrInvalidQueryType = errors.New("invalid query type")

func queryAs[T any](q bus.Query) (T, error) {
	switch v := any(q).(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %T", ErrInvalidQueryType, q)
}

// GetWorkspaceHandler handles GetWorkspaceQuery
type GetWorkspaceHandler struct {
	guard *services.AccessGuard
}

func NewGetWorkspaceHandler(guard *services.AccessGuard) *GetWorkspaceHandler {
	return &GetWorkspaceHandler{guard: guard}
}

func (h *GetWorkspaceHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, err := queryAs[queries.GetWorkspaceQuery](query)
	if err != nil {
		return nil, err
	}
	return h.guard.RequireRead(ctx, q.WorkspaceID, q.UserID)
}

// ListWorkspacesHandler handles ListWorkspacesQuery
type ListWorkspacesHandler struct {
	workspaces ports.WorkspaceRepository
}

func NewListWorkspacesHandler(workspaces ports.WorkspaceRepository) *ListWorkspacesHandler {
	return &ListWorkspacesHandler{workspaces: workspaces}
}

func (h *ListWorkspacesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, err := queryAs[queries.ListWorkspacesQuery](query)
	if err != nil {
		return nil, err
	}
	return h.workspaces.ListByOwner(ctx, q.UserID)
}

// ListFilesHandler handles ListFilesQuery
type ListFilesHandler struct {
	guard *services.AccessGuard
	files ports.FileRepository
}

func NewListFilesHandler(guard *services.AccessGuard, files ports.FileRepository) *ListFilesHandler {
	return &ListFilesHandler{guard: guard, files: files}
}

func (h *ListFilesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, err := queryAs[queries.ListFilesQuery](query)
	if err != nil {
		return nil, err
	}
	if _, err := h.guard.RequireRead(ctx, q.WorkspaceID, q.UserID); err != nil {
		return nil, err
	}

	files, err := h.files.ListByWorkspace(ctx, q.WorkspaceID)
	if err != nil {
		return nil, err
	}
	entities.SortFiles(files)
	return files, nil
}

// GetFileHandler handles GetFileQuery
type GetFileHandler struct {
	guard *services.AccessGuard
	files ports.FileRepository
}

func NewGetFileHandler(guard *services.AccessGuard, files ports.FileRepository) *GetFileHandler {
	return &GetFileHandler{guard: guard, files: files}
}

func (h *GetFileHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, err := queryAs[queries.GetFileQuery](query)
	if err != nil {
		return nil, err
	}
	return readableFile(ctx, h.guard, h.files, q.FileID, q.UserID)
}

// GetDownloadURLHandler handles GetDownloadURLQuery
type GetDownloadURLHandler struct {
	guard   *services.AccessGuard
	files   ports.FileRepository
	objects ports.ObjectStore
	expiry  time.Duration
}

func NewGetDownloadURLHandler(guard *services.AccessGuard, files ports.FileRepository, objects ports.ObjectStore, expiry time.Duration) *GetDownloadURLHandler {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &GetDownloadURLHandler{guard: guard, files: files, objects: objects, expiry: expiry}
}

func (h *GetDownloadURLHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, err := queryAs[queries.GetDownloadURLQuery](query)
	if err != nil {
		return nil, err
	}

	file, err := readableFile(ctx, h.guard, h.files, q.FileID, q.UserID)
	if err != nil {
		return nil, err
	}
	if file.FilePath == nil {
		return nil, pkgerrors.NewValidationError("file has no uploaded content")
	}

	url, err := h.objects.PresignGet(ctx, *file.FilePath, h.expiry)
	if err != nil {
		return nil, err
	}
	return &queries.DownloadURLResult{URL: url, ExpiresAt: time.Now().UTC().Add(h.expiry)}, nil
}

// ListLinksHandler handles ListLinksQuery
type ListLinksHandler struct {
	guard *services.AccessGuard
	links ports.LinkRepository
}

func NewListLinksHandler(guard *services.AccessGuard, links ports.LinkRepository) *ListLinksHandler {
	return &ListLinksHandler{guard: guard, links: links}
}

func (h *ListLinksHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, err := queryAs[queries.ListLinksQuery](query)
	if err != nil {
		return nil, err
	}
	if _, err := h.guard.RequireRead(ctx, q.WorkspaceID, q.UserID); err != nil {
		return nil, err
	}
	return h.links.ListByWorkspace(ctx, q.WorkspaceID)
}

// ListTagsHandler handles ListTagsQuery
type ListTagsHandler struct {
	guard *services.AccessGuard
	tags  ports.TagRepository
}

func NewListTagsHandler(guard *services.AccessGuard, tags ports.TagRepository) *ListTagsHandler {
	return &ListTagsHandler{guard: guard, tags: tags}
}

func (h *ListTagsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, err := queryAs[queries.ListTagsQuery](query)
	if err != nil {
		return nil, err
	}
	if _, err := h.guard.RequireRead(ctx, q.WorkspaceID, q.UserID); err != nil {
		return nil, err
	}
	return h.tags.ListByWorkspace(ctx, q.WorkspaceID)
}

// GenerateTagsHandler handles GenerateTagsQuery
type GenerateTagsHandler struct {
	guard     *services.AccessGuard
	files     ports.FileRepository
	generator ports.TagGenerator
}

func NewGenerateTagsHandler(guard *services.AccessGuard, files ports.FileRepository, generator ports.TagGenerator) *GenerateTagsHandler {
	return &GenerateTagsHandler{guard: guard, files: files, generator: generator}
}

func (h *GenerateTagsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, err := queryAs[queries.GenerateTagsQuery](query)
	if err != nil {
		return nil, err
	}
	if _, err := h.guard.RequireRead(ctx, q.WorkspaceID, q.UserID); err != nil {
		return nil, err
	}

	content, fileName := q.Content, q.FileName
	if q.FileID != "" {
		file, err := h.files.GetByID(ctx, q.FileID)
		if err != nil {
			return nil, err
		}
		if file.WorkspaceID != q.WorkspaceID {
			return nil, pkgerrors.NewNotFoundError("file")
		}
		if content == "" {
			content = file.Content.PlainText()
		}
		if fileName == "" {
			fileName = file.Name
		}
	}
	if content == "" && fileName == "" {
		return nil, pkgerrors.NewValidationError("content or file is required")
	}

	tags, err := h.generator.GenerateTags(ctx, content, fileName)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return &queries.GenerateTagsResult{Tags: tags}, nil
}

func readableFile(ctx context.Context, guard *services.AccessGuard, files ports.FileRepository, fileID, userID string) (*entities.FileRecord, error) {
	file, err := files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if _, err := guard.RequireRead(ctx, file.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return file, nil
}
