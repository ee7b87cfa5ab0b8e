package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"docspace/domain/core/entities"
	pkgerrors "docspace/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWorkspace(t *testing.T, s *Store, id, owner string) {
	t.Helper()
	require.NoError(t, s.Workspaces().Save(context.Background(), &entities.Workspace{
		ID: id, Name: id, OwnerID: owner, CreatedAt: time.Now().UTC(),
	}))
}

func TestStore_WorkspaceDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedWorkspace(t, s, "ws-1", "owner")
	seedWorkspace(t, s, "ws-2", "owner")
	s.AddMember("ws-1", "bob", entities.RoleEditor)

	files := s.Files()
	require.NoError(t, files.Save(ctx, &entities.FileRecord{ID: "a", WorkspaceID: "ws-1", Name: "a.md"}))
	require.NoError(t, files.Save(ctx, &entities.FileRecord{ID: "b", WorkspaceID: "ws-1", Name: "b.md"}))
	require.NoError(t, files.Save(ctx, &entities.FileRecord{ID: "c", WorkspaceID: "ws-2", Name: "c.md"}))
	require.NoError(t, s.Links().Save(ctx, &entities.LinkRecord{ID: "l1", WorkspaceID: "ws-1", SourceFileID: "a", TargetFileID: "b"}))
	require.NoError(t, s.Tags().Save(ctx, &entities.Tag{ID: "t1", WorkspaceID: "ws-1", Name: "graph"}))
	require.NoError(t, s.Tags().AttachToFile(ctx, "a", "t1"))

	require.NoError(t, s.Workspaces().Delete(ctx, "ws-1"))

	_, err := s.Workspaces().GetMember(ctx, "ws-1", "bob")
	assert.True(t, pkgerrors.IsNotFound(err))
	left, err := files.ListByWorkspace(ctx, "ws-1")
	require.NoError(t, err)
	assert.Empty(t, left)
	links, err := s.Links().ListByWorkspace(ctx, "ws-1")
	require.NoError(t, err)
	assert.Empty(t, links)
	assert.Empty(t, s.FileTagIDs("a"))

	other, err := files.ListByWorkspace(ctx, "ws-2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "c", other[0].ID)

	assert.True(t, pkgerrors.IsNotFound(s.Workspaces().Delete(ctx, "ws-1")))
}

func TestStore_FilesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedWorkspace(t, s, "ws", "owner")

	for _, id := range []string{"z", "m", "a"} {
		require.NoError(t, s.Files().Save(ctx, &entities.FileRecord{ID: id, WorkspaceID: "ws", Name: id}))
	}
	require.NoError(t, s.Files().Delete(ctx, "m"))

	files, err := s.Files().ListByWorkspace(ctx, "ws")
	require.NoError(t, err)
	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = f.ID
	}
	assert.Equal(t, []string{"z", "a"}, ids)

	err = s.Files().Save(ctx, &entities.FileRecord{ID: "orphan", WorkspaceID: "missing", Name: "x"})
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
}

func TestStore_Constraints(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedWorkspace(t, s, "ws", "owner")

	assert.True(t, pkgerrors.IsConflict(s.Workspaces().Save(ctx, &entities.Workspace{ID: "ws"})))

	require.NoError(t, s.Tags().Save(ctx, &entities.Tag{ID: "t1", WorkspaceID: "ws", Name: "graph"}))
	assert.True(t, pkgerrors.IsConflict(s.Tags().Save(ctx, &entities.Tag{ID: "t2", WorkspaceID: "ws", Name: "graph"})))

	v := &entities.DocumentVersion{ID: "v1", FileID: "f", VersionNumber: 1}
	require.NoError(t, s.Files().SaveVersion(ctx, v))
	assert.True(t, pkgerrors.IsConflict(s.Files().SaveVersion(ctx, &entities.DocumentVersion{ID: "v2", FileID: "f", VersionNumber: 1})))
	latest, err := s.Files().LatestVersionNumber(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, 1, latest)
}

func TestObjectStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	objects := s.Objects()

	require.NoError(t, objects.Put(ctx, "workspaces/ws/f1/a.pdf", strings.NewReader("pdf"), 3, "application/pdf"))
	require.NoError(t, objects.Put(ctx, "workspaces/ws/f2/b.png", strings.NewReader("png"), 3, "image/png"))
	require.NoError(t, objects.Put(ctx, "workspaces/other/f3/c.txt", strings.NewReader("txt"), 3, "text/plain"))

	url, err := objects.PresignGet(ctx, "workspaces/ws/f1/a.pdf", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "memory://workspaces/ws/f1/a.pdf?expires=900", url)

	require.NoError(t, objects.RemovePrefix(ctx, "workspaces/ws/"))
	_, ok := s.Object("workspaces/ws/f1/a.pdf")
	assert.False(t, ok)
	_, ok = s.Object("workspaces/other/f3/c.txt")
	assert.True(t, ok)

	_, err = objects.PresignGet(ctx, "workspaces/ws/f1/a.pdf", time.Minute)
	assert.True(t, pkgerrors.IsNotFound(err))
}
