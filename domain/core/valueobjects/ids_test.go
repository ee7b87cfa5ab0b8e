package valueobjects

import (
	"testing"

	pkgerrors "docspace/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)

	parsed, err := ParseID("file", a)
	require.NoError(t, err)
	assert.Equal(t, a, parsed)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("workspace", "  6B0F2F4E-0B7A-4C8E-9A53-1D8F7C1F2A10 ")
	require.NoError(t, err)
	assert.Equal(t, "6b0f2f4e-0b7a-4c8e-9a53-1d8f7c1f2a10", id)

	_, err = ParseID("workspace", "")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "workspace ID cannot be empty")

	_, err = ParseID("link", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link ID must be a valid UUID")
}

func TestMustParseID(t *testing.T) {
	assert.Panics(t, func() { MustParseID("file", "nope") })
	assert.NotPanics(t, func() { MustParseID("file", NewID()) })
}
