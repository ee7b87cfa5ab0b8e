package entities

import (
	"math"
	"testing"

	pkgerrors "docspace/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkspace(t *testing.T) {
	ws, err := NewWorkspace("", "owner-1", "  Research  ", "notes", "")
	require.NoError(t, err)
	assert.NotEmpty(t, ws.ID)
	assert.Equal(t, "Research", ws.Name)
	assert.Equal(t, DefaultWorkspaceColor, ws.Color)
	assert.True(t, ws.IsOwner("owner-1"))
	assert.False(t, ws.IsOwner(""))

	_, err = NewWorkspace("", "owner-1", "", "", "")
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewWorkspace("", "owner-1", "ok", "", "blue")
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewWorkspace("", "", "ok", "", "")
	assert.True(t, pkgerrors.IsValidation(err))

	require.NoError(t, ws.Recolor("#F59E0B"))
	assert.Equal(t, "#f59e0b", ws.Color)
}

func TestMemberRole(t *testing.T) {
	assert.True(t, RoleOwner.CanManage())
	assert.True(t, RoleAdmin.CanManage())
	assert.False(t, RoleEditor.CanManage())
	assert.True(t, RoleEditor.CanEdit())
	assert.False(t, RoleViewer.CanEdit())
	assert.False(t, MemberRole("guest").IsValid())
}

func TestNewFile(t *testing.T) {
	doc, err := NewFile("", "ws", "user", "notes.md", false, nil)
	require.NoError(t, err)
	assert.Equal(t, FileTypeDocument, doc.Type)
	require.NotNil(t, doc.Content)
	assert.Len(t, doc.Content.Blocks, 1)
	assert.Equal(t, "md", doc.Extension())

	folder, err := NewFile("", "ws", "user", "Projects", true, nil)
	require.NoError(t, err)
	assert.Nil(t, folder.Content)
	assert.True(t, pkgerrors.IsValidation(folder.ReplaceContent(&Document{})))

	for _, name := range []string{"", "a/b", "..", string(make([]rune, MaxFileNameLength+1))} {
		_, err := NewFile("", "ws", "user", name, false, nil)
		assert.Error(t, err, "name %q", name)
	}
}

func TestNewUploadedFile(t *testing.T) {
	f, err := NewUploadedFile("id-1", "ws", "user", "photo.png", "image/png", "workspaces/ws/id-1/photo.png", 2048, nil)
	require.NoError(t, err)
	assert.Equal(t, FileTypeImage, f.Type)
	assert.Nil(t, f.Content)
	require.NotNil(t, f.FilePath)
	assert.Equal(t, "workspaces/ws/id-1/photo.png", *f.FilePath)
	assert.Equal(t, int64(2048), *f.SizeBytes)
	assert.True(t, pkgerrors.IsValidation(f.ReplaceContent(NewDocument())))
}

func TestFileTypeFromMIME(t *testing.T) {
	tests := map[string]FileType{
		"image/jpeg":               FileTypeImage,
		"video/mp4":                FileTypeVideo,
		"application/pdf":          FileTypePDF,
		"text/markdown; charset=x": FileTypeDocument,
		"application/json":         FileTypeDocument,
		"application/zip":          FileTypeOther,
		"":                         FileTypeOther,
	}
	for ct, want := range tests {
		assert.Equal(t, want, FileTypeFromMIME(ct), ct)
	}
}

func TestSortFiles(t *testing.T) {
	files := []FileRecord{
		{ID: "1", Name: "zeta.md"},
		{ID: "2", Name: "Beta", IsFolder: true},
		{ID: "3", Name: "alpha.md"},
		{ID: "4", Name: "archive", IsFolder: true},
	}
	SortFiles(files)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"archive", "Beta", "alpha.md", "zeta.md"}, names)
}

func TestNewLink(t *testing.T) {
	link, err := NewLink("", "ws", "a", "b", nil, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultLinkStrength, link.StrengthScore)
	assert.Equal(t, DefaultLinkType, link.LinkType)
	assert.True(t, link.Touches("a"))
	assert.False(t, link.Touches("c"))

	over := 1.7
	link, err = NewLink("", "ws", "a", "b", &over, "cites")
	require.NoError(t, err)
	assert.Equal(t, 1.7, link.StrengthScore)

	_, err = NewLink("", "ws", "a", "a", nil, "")
	assert.True(t, pkgerrors.IsValidation(err))

	nan := math.NaN()
	_, err = NewLink("", "ws", "a", "b", &nan, "")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNormalizeTagName(t *testing.T) {
	assert.Equal(t, "machine-learning", NormalizeTagName("  Machine   Learning! "))
	assert.Equal(t, "c-sharp", NormalizeTagName("C-Sharp"))
	assert.Equal(t, "", NormalizeTagName("!!!"))

	tag, err := NewTag("ws", "Deep Work", "")
	require.NoError(t, err)
	assert.Equal(t, "deep-work", tag.Name)
	assert.Equal(t, DefaultTagColor, tag.Color)

	_, err = NewTag("ws", "???", "")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "workspaces/ws-1/", WorkspaceObjectPrefix("ws-1"))
	assert.Equal(t, "workspaces/ws-1/f-1/report.pdf", ObjectKey("ws-1", "f-1", "report.pdf"))
}
