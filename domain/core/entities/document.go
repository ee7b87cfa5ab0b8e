package entities

import (
	"strings"

	"docspace/domain/core/valueobjects"
	pkgerrors "docspace/pkg/errors"
)

// BlockType is the kind of a document block
type BlockType string

const (
	BlockText    BlockType = "text"
	BlockHeading BlockType = "heading"
	BlockList    BlockType = "list"
	BlockCode    BlockType = "code"
	BlockQuote   BlockType = "quote"
)

// IsValid reports whether t is a known block type.
func (t BlockType) IsValid() bool {
	switch t {
	case BlockText, BlockHeading, BlockList, BlockCode, BlockQuote:
		return true
	}
	return false
}

// Block is one editable unit of a document.
type Block struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
}

// Document is the content stored in files.content for document files.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// NewDocument returns the content of a freshly created document: one empty text block.
func NewDocument() *Document {
	return &Document{Blocks: []Block{{ID: valueobjects.NewID(), Type: BlockText}}}
}

// Validate checks block types and id uniqueness.
func (d *Document) Validate() error {
	seen := make(map[string]struct{}, len(d.Blocks))
	for i, b := range d.Blocks {
		if b.ID == "" {
			return pkgerrors.NewValidationErrorf("block %d has an empty id", i)
		}
		if _, dup := seen[b.ID]; dup {
			return pkgerrors.NewValidationErrorf("duplicate block id %q", b.ID)
		}
		seen[b.ID] = struct{}{}
		if !b.Type.IsValid() {
			return pkgerrors.NewValidationErrorf("block %q has unknown type %q", b.ID, b.Type)
		}
	}
	return nil
}

// AddBlock appends an empty block of the given type and returns it.
func (d *Document) AddBlock(t BlockType) (Block, error) {
	if !t.IsValid() {
		return Block{}, pkgerrors.NewValidationErrorf("unknown block type %q", t)
	}
	b := Block{ID: valueobjects.NewID(), Type: t}
	d.Blocks = append(d.Blocks, b)
	return b, nil
}

// UpdateBlock replaces the content of one block.
func (d *Document) UpdateBlock(id, content string) error {
	i := d.indexOf(id)
	if i < 0 {
		return pkgerrors.NewNotFoundError("block")
	}
	d.Blocks[i].Content = content
	return nil
}

// ChangeBlockType switches the kind of one block and keeps its content.
func (d *Document) ChangeBlockType(id string, t BlockType) error {
	if !t.IsValid() {
		return pkgerrors.NewValidationErrorf("unknown block type %q", t)
	}
	i := d.indexOf(id)
	if i < 0 {
		return pkgerrors.NewNotFoundError("block")
	}
	d.Blocks[i].Type = t
	return nil
}

// DeleteBlock removes one block.
func (d *Document) DeleteBlock(id string) error {
	i := d.indexOf(id)
	if i < 0 {
		return pkgerrors.NewNotFoundError("block")
	}
	d.Blocks = append(d.Blocks[:i], d.Blocks[i+1:]...)
	return nil
}

// MoveBlock moves a block to position index, shifting the others.
func (d *Document) MoveBlock(id string, index int) error {
	i := d.indexOf(id)
	if i < 0 {
		return pkgerrors.NewNotFoundError("block")
	}
	if index < 0 || index >= len(d.Blocks) {
		return pkgerrors.NewValidationErrorf("block index %d out of range", index)
	}
	b := d.Blocks[i]
	d.Blocks = append(d.Blocks[:i], d.Blocks[i+1:]...)
	d.Blocks = append(d.Blocks[:index], append([]Block{b}, d.Blocks[index:]...)...)
	return nil
}

// PlainText joins the block contents, one block per line.
func (d *Document) PlainText() string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		if s := strings.TrimSpace(b.Content); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func (d *Document) indexOf(id string) int {
	for i, b := range d.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}
