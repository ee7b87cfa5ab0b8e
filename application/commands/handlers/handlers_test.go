package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"docspace/application/commands"
	"docspace/application/commands/bus"
	"docspace/application/services"
	"docspace/domain/core/entities"
	"docspace/domain/core/valueobjects"
	domainservices "docspace/domain/services"
	"docspace/infrastructure/cache"
	"docspace/infrastructure/persistence/memory"
	pkgerrors "docspace/pkg/errors"
	"docspace/pkg/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	ownerID    = "owner-1"
	editorID   = "editor-1"
	viewerID   = "viewer-1"
	strangerID = "stranger-1"
)

type fixture struct {
	store    *memory.Store
	cache    *cache.LRUCache
	graphs   *services.GraphCache
	graphGen string
	guard    *services.AccessGuard
	activity *services.ActivityRecorder
	metrics  *observability.Collector
	logger   *zap.Logger
	ws       *entities.Workspace
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	lru, err := cache.NewLRUCache(16)
	require.NoError(t, err)
	metrics := observability.NewCollector("test")
	logger := zap.NewNop()

	ws, err := entities.NewWorkspace(valueobjects.NewID(), ownerID, "Research", "", "")
	require.NoError(t, err)
	require.NoError(t, store.Workspaces().Save(context.Background(), ws))
	store.AddMember(ws.ID, editorID, entities.RoleEditor)
	store.AddMember(ws.ID, viewerID, entities.RoleViewer)

	return &fixture{
		store:    store,
		cache:    lru,
		graphs:   services.NewGraphCache(lru, time.Minute, metrics, logger),
		guard:    services.NewAccessGuard(store.Workspaces()),
		activity: services.NewActivityRecorder(store.ActivityLog(), metrics, logger),
		metrics:  metrics,
		logger:   logger,
		ws:       ws,
	}
}

func (f *fixture) createFile(t *testing.T, name string, isFolder bool, parent *string) *entities.FileRecord {
	t.Helper()
	file, err := entities.NewFile(valueobjects.NewID(), f.ws.ID, ownerID, name, isFolder, parent)
	require.NoError(t, err)
	require.NoError(t, f.store.Files().Save(context.Background(), file))
	return file
}

func (f *fixture) primeGraphCache(t *testing.T) {
	t.Helper()
	_, gen, _ := f.graphs.Load(context.Background(), f.ws.ID)
	f.graphs.Store(context.Background(), f.ws.ID, gen, domainservices.GraphView{Empty: true})
	_, f.graphGen, _ = f.graphs.Load(context.Background(), f.ws.ID)
	_, ok, err := f.cache.Get(context.Background(), services.GraphCacheKey(f.ws.ID, f.graphGen))
	require.NoError(t, err)
	require.True(t, ok)
}

func (f *fixture) assertGraphInvalidated(t *testing.T) {
	t.Helper()
	_, ok, err := f.cache.Get(context.Background(), services.GraphCacheKey(f.ws.ID, f.graphGen))
	require.NoError(t, err)
	assert.False(t, ok, "graph cache entry should be invalidated")
	_, gen, ok := f.graphs.Load(context.Background(), f.ws.ID)
	assert.False(t, ok)
	assert.NotEqual(t, f.graphGen, gen, "graph generation should rotate")
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStore) RemovePrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

func (m *MockObjectStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func TestCommandAs_AcceptsValueAndPointer(t *testing.T) {
	cmd := commands.DeleteLinkCommand{LinkID: "l", ActorID: "u"}

	got, err := commandAs[commands.DeleteLinkCommand](cmd)
	require.NoError(t, err)
	assert.Equal(t, cmd, got)

	got, err = commandAs[commands.DeleteLinkCommand](&cmd)
	require.NoError(t, err)
	assert.Equal(t, cmd, got)

	_, err = commandAs[commands.DeleteLinkCommand](commands.DeleteFileCommand{})
	assert.ErrorIs(t, err, ErrInvalidCommandType)
}

func TestCreateWorkspaceHandler(t *testing.T) {
	f := newFixture(t)
	h := NewCreateWorkspaceHandler(f.store.Workspaces(), f.activity, f.logger)
	id := valueobjects.NewID()

	err := h.Handle(context.Background(), commands.CreateWorkspaceCommand{
		WorkspaceID: id,
		OwnerID:     ownerID,
		Name:        "  Notes ",
		Color:       "#FF0000",
	})
	require.NoError(t, err)

	ws, err := f.store.Workspaces().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Notes", ws.Name)
	assert.Equal(t, "#ff0000", ws.Color)

	activity := f.store.Activity()
	require.Len(t, activity, 1)
	assert.Equal(t, entities.ActionCreate, activity[0].Action)
	assert.Equal(t, entities.ResourceWorkspace, activity[0].ResourceType)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Mutations.WithLabelValues("workspace", "create")))
}

func TestCreateWorkspaceHandler_InvalidCommandType(t *testing.T) {
	f := newFixture(t)
	h := NewCreateWorkspaceHandler(f.store.Workspaces(), f.activity, f.logger)

	err := h.Handle(context.Background(), commands.DeleteWorkspaceCommand{})
	assert.ErrorIs(t, err, ErrInvalidCommandType)
}

func TestUpdateWorkspaceHandler(t *testing.T) {
	name := "Renamed"
	color := "#00FF00"

	t.Run("owner updates", func(t *testing.T) {
		f := newFixture(t)
		f.primeGraphCache(t)
		h := NewUpdateWorkspaceHandler(f.guard, f.store.Workspaces(), f.graphs, f.activity)

		err := h.Handle(context.Background(), commands.UpdateWorkspaceCommand{
			WorkspaceID: f.ws.ID, ActorID: ownerID, Name: &name, Color: &color,
		})
		require.NoError(t, err)

		ws, _ := f.store.Workspaces().GetByID(context.Background(), f.ws.ID)
		assert.Equal(t, "Renamed", ws.Name)
		assert.Equal(t, "#00ff00", ws.Color)
		f.assertGraphInvalidated(t)
		require.Len(t, f.store.Activity(), 1)
	})

	t.Run("editor is forbidden", func(t *testing.T) {
		f := newFixture(t)
		h := NewUpdateWorkspaceHandler(f.guard, f.store.Workspaces(), f.graphs, f.activity)

		err := h.Handle(context.Background(), commands.UpdateWorkspaceCommand{
			WorkspaceID: f.ws.ID, ActorID: editorID, Name: &name,
		})
		assert.True(t, pkgerrors.IsForbidden(err))
	})

	t.Run("nothing to change", func(t *testing.T) {
		f := newFixture(t)
		h := NewUpdateWorkspaceHandler(f.guard, f.store.Workspaces(), f.graphs, f.activity)

		err := h.Handle(context.Background(), commands.UpdateWorkspaceCommand{WorkspaceID: f.ws.ID, ActorID: ownerID})
		require.NoError(t, err)
		assert.Empty(t, f.store.Activity())
	})
}

func TestDeleteWorkspaceHandler(t *testing.T) {
	t.Run("removes workspace and objects", func(t *testing.T) {
		f := newFixture(t)
		f.createFile(t, "a.md", false, nil)
		objects := new(MockObjectStore)
		objects.On("RemovePrefix", mock.Anything, "workspaces/"+f.ws.ID+"/").Return(nil)
		h := NewDeleteWorkspaceHandler(f.guard, f.store.Workspaces(), objects, f.graphs, f.metrics, f.logger)

		err := h.Handle(context.Background(), commands.DeleteWorkspaceCommand{WorkspaceID: f.ws.ID, ActorID: ownerID})
		require.NoError(t, err)

		_, err = f.store.Workspaces().GetByID(context.Background(), f.ws.ID)
		assert.True(t, pkgerrors.IsNotFound(err))
		files, _ := f.store.Files().ListByWorkspace(context.Background(), f.ws.ID)
		assert.Empty(t, files)
		assert.Empty(t, f.store.Activity())
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Mutations.WithLabelValues("workspace", "delete")))
		objects.AssertExpectations(t)
	})

	t.Run("object cleanup failure does not fail the delete", func(t *testing.T) {
		f := newFixture(t)
		objects := new(MockObjectStore)
		objects.On("RemovePrefix", mock.Anything, mock.Anything).Return(errors.New("bucket gone"))
		h := NewDeleteWorkspaceHandler(f.guard, f.store.Workspaces(), objects, f.graphs, f.metrics, f.logger)

		err := h.Handle(context.Background(), commands.DeleteWorkspaceCommand{WorkspaceID: f.ws.ID, ActorID: ownerID})
		assert.NoError(t, err)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		f := newFixture(t)
		objects := new(MockObjectStore)
		h := NewDeleteWorkspaceHandler(f.guard, f.store.Workspaces(), objects, f.graphs, f.metrics, f.logger)

		err := h.Handle(context.Background(), commands.DeleteWorkspaceCommand{WorkspaceID: f.ws.ID, ActorID: editorID})
		assert.True(t, pkgerrors.IsForbidden(err))
		objects.AssertNotCalled(t, "RemovePrefix", mock.Anything, mock.Anything)
	})
}

func TestCreateFileHandler(t *testing.T) {
	t.Run("creates document with an empty block", func(t *testing.T) {
		f := newFixture(t)
		f.primeGraphCache(t)
		h := NewCreateFileHandler(f.guard, f.store.Files(), f.graphs, f.activity)
		id := valueobjects.NewID()

		err := h.Handle(context.Background(), commands.CreateFileCommand{
			FileID: id, WorkspaceID: f.ws.ID, ActorID: editorID, Name: "notes.md",
		})
		require.NoError(t, err)

		file, err := f.store.Files().GetByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, file.Content)
		assert.Len(t, file.Content.Blocks, 1)
		assert.Equal(t, editorID, file.CreatedBy)
		f.assertGraphInvalidated(t)
	})

	t.Run("viewer cannot create", func(t *testing.T) {
		f := newFixture(t)
		h := NewCreateFileHandler(f.guard, f.store.Files(), f.graphs, f.activity)

		err := h.Handle(context.Background(), commands.CreateFileCommand{
			FileID: valueobjects.NewID(), WorkspaceID: f.ws.ID, ActorID: viewerID, Name: "x",
		})
		assert.True(t, pkgerrors.IsForbidden(err))
	})

	t.Run("stranger cannot create", func(t *testing.T) {
		f := newFixture(t)
		h := NewCreateFileHandler(f.guard, f.store.Files(), f.graphs, f.activity)

		err := h.Handle(context.Background(), commands.CreateFileCommand{
			FileID: valueobjects.NewID(), WorkspaceID: f.ws.ID, ActorID: strangerID, Name: "x",
		})
		assert.True(t, pkgerrors.IsForbidden(err))
	})

	t.Run("parent must be a folder", func(t *testing.T) {
		f := newFixture(t)
		doc := f.createFile(t, "doc", false, nil)
		h := NewCreateFileHandler(f.guard, f.store.Files(), f.graphs, f.activity)

		err := h.Handle(context.Background(), commands.CreateFileCommand{
			FileID: valueobjects.NewID(), WorkspaceID: f.ws.ID, ActorID: ownerID, Name: "child", ParentFolderID: &doc.ID,
		})
		assert.True(t, pkgerrors.IsValidation(err))

		missing := valueobjects.NewID()
		err = h.Handle(context.Background(), commands.CreateFileCommand{
			FileID: valueobjects.NewID(), WorkspaceID: f.ws.ID, ActorID: ownerID, Name: "child", ParentFolderID: &missing,
		})
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("inside folder", func(t *testing.T) {
		f := newFixture(t)
		folder := f.createFile(t, "docs", true, nil)
		h := NewCreateFileHandler(f.guard, f.store.Files(), f.graphs, f.activity)

		err := h.Handle(context.Background(), commands.CreateFileCommand{
			FileID: valueobjects.NewID(), WorkspaceID: f.ws.ID, ActorID: ownerID, Name: "child", ParentFolderID: &folder.ID,
		})
		require.NoError(t, err)
		n, _ := f.store.Files().CountChildren(context.Background(), folder.ID)
		assert.Equal(t, 1, n)
	})
}

func TestRenameFileHandler(t *testing.T) {
	f := newFixture(t)
	file := f.createFile(t, "old.md", false, nil)
	f.primeGraphCache(t)
	h := NewRenameFileHandler(f.guard, f.store.Files(), f.graphs, f.activity)

	require.NoError(t, h.Handle(context.Background(), commands.RenameFileCommand{
		FileID: file.ID, ActorID: ownerID, Name: "new.md",
	}))

	got, _ := f.store.Files().GetByID(context.Background(), file.ID)
	assert.Equal(t, "new.md", got.Name)
	f.assertGraphInvalidated(t)

	activity := f.store.Activity()
	require.Len(t, activity, 1)
	assert.Equal(t, "old.md", activity[0].Details["old_name"])

	err := h.Handle(context.Background(), commands.RenameFileCommand{FileID: file.ID, ActorID: ownerID, Name: "a/b"})
	assert.True(t, pkgerrors.IsValidation(err))

	err = h.Handle(context.Background(), commands.RenameFileCommand{FileID: "missing", ActorID: ownerID, Name: "x"})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestDeleteFileHandler(t *testing.T) {
	t.Run("cascades links and tags and removes object", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		a := f.createFile(t, "a", false, nil)
		b := f.createFile(t, "b", false, nil)
		key := entities.ObjectKey(f.ws.ID, a.ID, "a")
		a.FilePath = &key
		require.NoError(t, f.store.Files().Update(ctx, a))

		link, err := entities.NewLink("", f.ws.ID, a.ID, b.ID, nil, "")
		require.NoError(t, err)
		require.NoError(t, f.store.Links().Save(ctx, link))
		tag, err := entities.NewTag(f.ws.ID, "go", "")
		require.NoError(t, err)
		require.NoError(t, f.store.Tags().Save(ctx, tag))
		require.NoError(t, f.store.Tags().AttachToFile(ctx, a.ID, tag.ID))

		objects := new(MockObjectStore)
		objects.On("Remove", mock.Anything, key).Return(nil)
		f.primeGraphCache(t)
		h := NewDeleteFileHandler(f.guard, f.store.Files(), f.store.Links(), f.store.Tags(), objects, f.graphs, f.activity, f.logger)

		require.NoError(t, h.Handle(ctx, commands.DeleteFileCommand{FileID: a.ID, ActorID: editorID}))

		_, err = f.store.Files().GetByID(ctx, a.ID)
		assert.True(t, pkgerrors.IsNotFound(err))
		links, _ := f.store.Links().ListByWorkspace(ctx, f.ws.ID)
		assert.Empty(t, links)
		assert.Empty(t, f.store.FileTagIDs(a.ID))
		f.assertGraphInvalidated(t)
		objects.AssertExpectations(t)
	})

	t.Run("non empty folder is a conflict", func(t *testing.T) {
		f := newFixture(t)
		folder := f.createFile(t, "docs", true, nil)
		f.createFile(t, "child", false, &folder.ID)
		h := NewDeleteFileHandler(f.guard, f.store.Files(), f.store.Links(), f.store.Tags(), nil, f.graphs, f.activity, f.logger)

		err := h.Handle(context.Background(), commands.DeleteFileCommand{FileID: folder.ID, ActorID: ownerID})
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("viewer cannot delete", func(t *testing.T) {
		f := newFixture(t)
		file := f.createFile(t, "a", false, nil)
		h := NewDeleteFileHandler(f.guard, f.store.Files(), f.store.Links(), f.store.Tags(), nil, f.graphs, f.activity, f.logger)

		err := h.Handle(context.Background(), commands.DeleteFileCommand{FileID: file.ID, ActorID: viewerID})
		assert.True(t, pkgerrors.IsForbidden(err))
	})
}

func TestSaveDocumentHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	file := f.createFile(t, "doc", false, nil)
	h := NewSaveDocumentHandler(f.guard, f.store.Files(), f.activity, f.logger)

	blocks := []entities.Block{
		{ID: "b1", Type: entities.BlockHeading, Content: "Title"},
		{ID: "b2", Type: entities.BlockText, Content: "Body"},
	}
	require.NoError(t, h.Handle(ctx, commands.SaveDocumentCommand{FileID: file.ID, ActorID: ownerID, Blocks: blocks}))
	require.NoError(t, h.Handle(ctx, commands.SaveDocumentCommand{FileID: file.ID, ActorID: ownerID, Blocks: blocks[:1]}))

	got, _ := f.store.Files().GetByID(ctx, file.ID)
	require.NotNil(t, got.Content)
	assert.Len(t, got.Content.Blocks, 1)

	versions := f.store.Versions(file.ID)
	require.Len(t, versions, 2)
	assert.Equal(t, 1, versions[0].VersionNumber)
	assert.Equal(t, 2, versions[1].VersionNumber)
	assert.Len(t, versions[0].Content.Blocks, 2)

	t.Run("duplicate block ids", func(t *testing.T) {
		dup := []entities.Block{{ID: "x", Type: entities.BlockText}, {ID: "x", Type: entities.BlockText}}
		err := h.Handle(ctx, commands.SaveDocumentCommand{FileID: file.ID, ActorID: ownerID, Blocks: dup})
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("folders have no content", func(t *testing.T) {
		folder := f.createFile(t, "dir", true, nil)
		err := h.Handle(ctx, commands.SaveDocumentCommand{FileID: folder.ID, ActorID: ownerID, Blocks: blocks})
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestUploadFileHandler(t *testing.T) {
	t.Run("stores object then row", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.primeGraphCache(t)
		h := NewUploadFileHandler(f.guard, f.store.Files(), f.store.Objects(), 1024, f.graphs, f.activity, f.logger)
		id := valueobjects.NewID()

		err := h.Handle(ctx, commands.UploadFileCommand{
			FileID: id, WorkspaceID: f.ws.ID, ActorID: ownerID, Name: "photo.png",
			ContentType: "image/png", Size: 4, Body: bytes.NewReader([]byte("\x89PNG")),
		})
		require.NoError(t, err)

		file, err := f.store.Files().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entities.FileTypeImage, file.Type)
		require.NotNil(t, file.FilePath)
		assert.Equal(t, "workspaces/"+f.ws.ID+"/"+id+"/photo.png", *file.FilePath)
		require.NotNil(t, file.SizeBytes)
		assert.EqualValues(t, 4, *file.SizeBytes)

		body, ok := f.store.Object(*file.FilePath)
		require.True(t, ok)
		assert.Equal(t, "\x89PNG", string(body))
		f.assertGraphInvalidated(t)
		assert.Equal(t, entities.ActionUpload, f.store.Activity()[0].Action)
	})

	t.Run("too large", func(t *testing.T) {
		f := newFixture(t)
		objects := new(MockObjectStore)
		h := NewUploadFileHandler(f.guard, f.store.Files(), objects, 3, f.graphs, f.activity, f.logger)

		err := h.Handle(context.Background(), commands.UploadFileCommand{
			FileID: valueobjects.NewID(), WorkspaceID: f.ws.ID, ActorID: ownerID, Name: "a",
			Size: 4, Body: bytes.NewReader([]byte("abcd")),
		})
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeTooLarge))
		objects.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removes object when row insert fails", func(t *testing.T) {
		f := newFixture(t)
		existing := f.createFile(t, "taken", false, nil)
		objects := new(MockObjectStore)
		key := entities.ObjectKey(f.ws.ID, existing.ID, "a.pdf")
		objects.On("Put", mock.Anything, key, mock.Anything, int64(3), "application/pdf").Return(nil)
		objects.On("Remove", mock.Anything, key).Return(nil)
		h := NewUploadFileHandler(f.guard, f.store.Files(), objects, 0, f.graphs, f.activity, f.logger)

		err := h.Handle(context.Background(), commands.UploadFileCommand{
			FileID: existing.ID, WorkspaceID: f.ws.ID, ActorID: ownerID, Name: "a.pdf",
			ContentType: "application/pdf", Size: 3, Body: bytes.NewReader([]byte("pdf")),
		})
		assert.True(t, pkgerrors.IsConflict(err))
		objects.AssertExpectations(t)
		assert.Empty(t, f.store.Activity())
	})

	t.Run("object store failure", func(t *testing.T) {
		f := newFixture(t)
		objects := new(MockObjectStore)
		objects.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(pkgerrors.NewStorageError("put", errors.New("down")))
		h := NewUploadFileHandler(f.guard, f.store.Files(), objects, 0, f.graphs, f.activity, f.logger)
		id := valueobjects.NewID()

		err := h.Handle(context.Background(), commands.UploadFileCommand{
			FileID: id, WorkspaceID: f.ws.ID, ActorID: ownerID, Name: "a", Size: 1, Body: bytes.NewReader([]byte("a")),
		})
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeStorage))
		_, err = f.store.Files().GetByID(context.Background(), id)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestCreateLinkHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createFile(t, "a", false, nil)
	b := f.createFile(t, "b", false, nil)
	h := NewCreateLinkHandler(f.guard, f.store.Files(), f.store.Links(), f.graphs, f.activity)

	t.Run("defaults", func(t *testing.T) {
		f.primeGraphCache(t)
		id := valueobjects.NewID()
		require.NoError(t, h.Handle(ctx, commands.CreateLinkCommand{
			LinkID: id, WorkspaceID: f.ws.ID, ActorID: ownerID, SourceFileID: a.ID, TargetFileID: b.ID,
		}))

		link, err := f.store.Links().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultLinkStrength, link.StrengthScore)
		assert.Equal(t, entities.DefaultLinkType, link.LinkType)
		f.assertGraphInvalidated(t)
	})

	t.Run("self link", func(t *testing.T) {
		err := h.Handle(ctx, commands.CreateLinkCommand{
			LinkID: valueobjects.NewID(), WorkspaceID: f.ws.ID, ActorID: ownerID, SourceFileID: a.ID, TargetFileID: a.ID,
		})
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("file from another workspace", func(t *testing.T) {
		other, err := entities.NewWorkspace("", ownerID, "Other", "", "")
		require.NoError(t, err)
		require.NoError(t, f.store.Workspaces().Save(ctx, other))
		foreign, err := entities.NewFile("", other.ID, ownerID, "c", false, nil)
		require.NoError(t, err)
		require.NoError(t, f.store.Files().Save(ctx, foreign))

		err = h.Handle(ctx, commands.CreateLinkCommand{
			LinkID: valueobjects.NewID(), WorkspaceID: f.ws.ID, ActorID: ownerID, SourceFileID: a.ID, TargetFileID: foreign.ID,
		})
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("missing file", func(t *testing.T) {
		err := h.Handle(ctx, commands.CreateLinkCommand{
			LinkID: valueobjects.NewID(), WorkspaceID: f.ws.ID, ActorID: ownerID, SourceFileID: a.ID, TargetFileID: "nope",
		})
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestDeleteLinkHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createFile(t, "a", false, nil)
	b := f.createFile(t, "b", false, nil)
	link, err := entities.NewLink("", f.ws.ID, a.ID, b.ID, nil, "")
	require.NoError(t, err)
	require.NoError(t, f.store.Links().Save(ctx, link))
	h := NewDeleteLinkHandler(f.guard, f.store.Links(), f.graphs, f.activity)

	err = h.Handle(ctx, commands.DeleteLinkCommand{LinkID: link.ID, ActorID: viewerID})
	assert.True(t, pkgerrors.IsForbidden(err))

	f.primeGraphCache(t)
	require.NoError(t, h.Handle(ctx, commands.DeleteLinkCommand{LinkID: link.ID, ActorID: ownerID}))
	_, err = f.store.Links().GetByID(ctx, link.ID)
	assert.True(t, pkgerrors.IsNotFound(err))
	f.assertGraphInvalidated(t)
}

func TestApplyTagsHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	file := f.createFile(t, "a", false, nil)
	h := NewApplyTagsHandler(f.guard, f.store.Files(), f.store.Tags(), f.activity)

	cmd := commands.ApplyTagsCommand{FileID: file.ID, ActorID: editorID, Tags: []string{"Machine Learning", "go", "GO"}}
	require.NoError(t, h.Handle(ctx, cmd))
	require.NoError(t, h.Handle(ctx, cmd))

	tags, err := f.store.Tags().ListByWorkspace(ctx, f.ws.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Name)
	assert.Equal(t, "machine-learning", tags[1].Name)
	assert.Equal(t, entities.DefaultTagColor, tags[0].Color)
	assert.Len(t, f.store.FileTagIDs(file.ID), 2)

	activity := f.store.Activity()
	require.Len(t, activity, 2)
	assert.Equal(t, []string{"machine-learning", "go"}, activity[0].Details["tags"])

	err = h.Handle(ctx, commands.ApplyTagsCommand{FileID: file.ID, ActorID: ownerID, Tags: []string{"!!!"}})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestHandlersOnBus(t *testing.T) {
	f := newFixture(t)
	b := bus.NewCommandBus()
	require.NoError(t, b.Register(commands.CreateFileCommand{}, NewCreateFileHandler(f.guard, f.store.Files(), f.graphs, f.activity)))

	err := b.Send(context.Background(), commands.CreateFileCommand{
		FileID: valueobjects.NewID(), WorkspaceID: f.ws.ID, ActorID: ownerID, Name: "via-bus",
	})
	require.NoError(t, err)

	err = b.Send(context.Background(), commands.CreateFileCommand{WorkspaceID: f.ws.ID, ActorID: ownerID, Name: "x"})
	assert.True(t, pkgerrors.IsValidation(err), "missing file id fails validation")

	err = b.Send(context.Background(), commands.CreateFileCommand{
		FileID: valueobjects.NewID(), WorkspaceID: f.ws.ID, ActorID: viewerID, Name: "x",
	})
	assert.True(t, pkgerrors.IsForbidden(err), "AppError survives bus wrapping")
}
