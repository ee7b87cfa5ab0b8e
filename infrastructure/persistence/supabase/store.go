// Package supabase implements the repository ports on Supabase's PostgREST API.
package supabase

import (
	"context"
	"strings"

	pkgerrors "docspace/pkg/errors"

	"github.com/supabase-community/postgrest-go"
	sb "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

const (
	tableWorkspaces = "workspaces"
	tableMembers    = "workspace_members"
	tableFiles      = "files"
	tableVersions   = "document_versions"
	tableLinks      = "knowledge_links"
	tableTags       = "tags"
	tableFileTags   = "file_tags"
	tableActivity   = "activity_logs"

	returnRows = "representation"
)

// Postgres error codes surfaced by PostgREST.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Store groups the Supabase-backed repositories over one client.
type Store struct {
	db     *sb.Client
	logger *zap.Logger
}

// NewStore creates a Supabase client for url using the service key.
func NewStore(url, key string, logger *zap.Logger) (*Store, error) {
	client, err := sb.NewClient(url, key, nil)
	if err != nil {
		return nil, pkgerrors.NewExternalError("supabase", err)
	}
	return NewStoreWithClient(client, logger), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *sb.Client, logger *zap.Logger) *Store {
	return &Store{db: client, logger: logger}
}

// Client returns the underlying Supabase client.
func (s *Store) Client() *sb.Client { return s.db }

func (s *Store) Workspaces() *WorkspaceRepository { return &WorkspaceRepository{s: s} }
func (s *Store) Files() *FileRepository           { return &FileRepository{s: s} }
func (s *Store) Links() *LinkRepository           { return &LinkRepository{s: s} }
func (s *Store) Tags() *TagRepository             { return &TagRepository{s: s} }
func (s *Store) ActivityLog() *ActivityLog        { return &ActivityLog{s: s} }

// Ping implements ports.HealthChecker with a one-row read.
func (s *Store) Ping(ctx context.Context) error {
	var rows []struct {
		ID string `json:"id"`
	}
	return s.exec(ctx, "ping", s.db.From(tableWorkspaces).Select("id", "", false).Limit(1, ""), &rows)
}

// exec runs a prepared request. The PostgREST client is not context aware, so
// ctx is only checked before the request is sent.
func (s *Store) exec(ctx context.Context, op string, req *postgrest.FilterBuilder, dst interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := req.ExecuteTo(dst); err != nil {
		s.logger.Debug("Supabase request failed", zap.String("operation", op), zap.Error(err))
		return mapError(op, err)
	}
	return nil
}

func mapError(op string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, codeUniqueViolation):
		return pkgerrors.NewConflictError("resource already exists").WithCause(err)
	case strings.Contains(msg, codeForeignKeyViolation):
		return pkgerrors.NewValidationError("referenced resource does not exist").WithCause(err)
	default:
		return pkgerrors.NewDatabaseError(op, err)
	}
}

func desc() *postgrest.OrderOpts { return &postgrest.OrderOpts{Ascending: false} }
func asc() *postgrest.OrderOpts  { return &postgrest.OrderOpts{Ascending: true} }
