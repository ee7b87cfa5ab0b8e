package valueobjects

import (
	"strings"

	pkgerrors "docspace/pkg/errors"

	"github.com/google/uuid"
)

// NewID returns a random identifier in the UUID format every table uses for
// its primary key.
func NewID() string {
	return uuid.New().String()
}

// ParseID checks that s is a UUID and returns it in canonical lowercase form.
// kind names the identifier in the error message ("workspace", "file", ...).
func ParseID(kind, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", pkgerrors.NewValidationErrorf("%s ID cannot be empty", kind)
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", pkgerrors.NewValidationErrorf("%s ID must be a valid UUID", kind)
	}
	return parsed.String(), nil
}

// MustParseID panics on an invalid identifier. Intended for tests and fixtures.
func MustParseID(kind, s string) string {
	id, err := ParseID(kind, s)
	if err != nil {
		panic(err)
	}
	return id
}
