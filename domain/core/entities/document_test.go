package entities

import (
	"testing"

	pkgerrors "docspace/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(d *Document) []string {
	out := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		out[i] = b.ID
	}
	return out
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument()
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, BlockText, doc.Blocks[0].Type)
	assert.Empty(t, doc.Blocks[0].Content)
	assert.NotEmpty(t, doc.Blocks[0].ID)
}

func TestDocument_BlockOperations(t *testing.T) {
	doc := &Document{Blocks: []Block{
		{ID: "a", Type: BlockHeading, Content: "Title"},
		{ID: "b", Type: BlockText, Content: "Body"},
	}}

	added, err := doc.AddBlock(BlockCode)
	require.NoError(t, err)
	assert.Equal(t, BlockCode, added.Type)
	assert.Equal(t, []string{"a", "b", added.ID}, ids(doc))

	_, err = doc.AddBlock("table")
	assert.True(t, pkgerrors.IsValidation(err))

	require.NoError(t, doc.UpdateBlock("b", "Updated"))
	assert.Equal(t, "Updated", doc.Blocks[1].Content)
	assert.True(t, pkgerrors.IsNotFound(doc.UpdateBlock("missing", "x")))

	require.NoError(t, doc.MoveBlock(added.ID, 0))
	assert.Equal(t, []string{added.ID, "a", "b"}, ids(doc))
	require.NoError(t, doc.MoveBlock(added.ID, 2))
	assert.Equal(t, []string{"a", "b", added.ID}, ids(doc))
	assert.True(t, pkgerrors.IsValidation(doc.MoveBlock("a", 3)))

	require.NoError(t, doc.ChangeBlockType("b", BlockQuote))
	assert.Equal(t, BlockQuote, doc.Blocks[1].Type)

	require.NoError(t, doc.DeleteBlock("a"))
	assert.Equal(t, []string{"b", added.ID}, ids(doc))
	assert.True(t, pkgerrors.IsNotFound(doc.DeleteBlock("a")))
}

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		blocks  []Block
		wantErr string
	}{
		{name: "empty document", blocks: nil},
		{name: "valid", blocks: []Block{{ID: "1", Type: BlockList}, {ID: "2", Type: BlockQuote}}},
		{name: "duplicate id", blocks: []Block{{ID: "1", Type: BlockText}, {ID: "1", Type: BlockText}}, wantErr: "duplicate block id"},
		{name: "empty id", blocks: []Block{{Type: BlockText}}, wantErr: "empty id"},
		{name: "unknown type", blocks: []Block{{ID: "1", Type: "image"}}, wantErr: "unknown type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Document{Blocks: tt.blocks}).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDocument_PlainText(t *testing.T) {
	doc := &Document{Blocks: []Block{
		{ID: "1", Type: BlockHeading, Content: " Go "},
		{ID: "2", Type: BlockText, Content: ""},
		{ID: "3", Type: BlockCode, Content: "fmt.Println()"},
	}}
	assert.Equal(t, "Go\nfmt.Println()", doc.PlainText())

	var nilDoc *Document
	assert.Empty(t, nilDoc.PlainText())
}
