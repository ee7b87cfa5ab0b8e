// Package memory implements the repository ports in process. It backs local
// development without Supabase and the application tests.
package memory

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"docspace/application/ports"
	"docspace/domain/core/entities"
	"docspace/domain/core/valueobjects"
	pkgerrors "docspace/pkg/errors"
)

// Store holds every table. Use the accessor methods to get port implementations.
type Store struct {
	mu         sync.RWMutex
	workspaces map[string]entities.Workspace
	members    map[string]entities.Member // key workspaceID/userID
	files      map[string]entities.FileRecord
	fileOrder  []string
	versions   map[string][]entities.DocumentVersion
	links      map[string]entities.LinkRecord
	linkOrder  []string
	tags       map[string]entities.Tag
	fileTags   map[string]map[string]struct{} // fileID -> tagIDs
	activity   []entities.ActivityEntry
	objects    map[string][]byte
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		workspaces: make(map[string]entities.Workspace),
		members:    make(map[string]entities.Member),
		files:      make(map[string]entities.FileRecord),
		versions:   make(map[string][]entities.DocumentVersion),
		links:      make(map[string]entities.LinkRecord),
		tags:       make(map[string]entities.Tag),
		fileTags:   make(map[string]map[string]struct{}),
		objects:    make(map[string][]byte),
	}
}

func (s *Store) Workspaces() *WorkspaceRepository { return &WorkspaceRepository{s: s} }
func (s *Store) Files() *FileRepository           { return &FileRepository{s: s} }
func (s *Store) Links() *LinkRepository           { return &LinkRepository{s: s} }
func (s *Store) Tags() *TagRepository             { return &TagRepository{s: s} }
func (s *Store) ActivityLog() *ActivityLog        { return &ActivityLog{s: s} }
func (s *Store) Objects() *ObjectStore            { return &ObjectStore{s: s} }

// Ping implements ports.HealthChecker.
func (s *Store) Ping(context.Context) error { return nil }

// AddMember inserts a workspace_members row.
func (s *Store) AddMember(workspaceID, userID string, role entities.MemberRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[workspaceID+"/"+userID] = entities.Member{
		ID:          valueobjects.NewID(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
	}
}

// Activity returns a copy of the recorded activity entries.
func (s *Store) Activity() []entities.ActivityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.ActivityEntry(nil), s.activity...)
}

// FileTagIDs returns the tags attached to a file, sorted.
func (s *Store) FileTagIDs(fileID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.fileTags[fileID]))
	for id := range s.fileTags[fileID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Object returns a stored object body.
func (s *Store) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	return b, ok
}

// Versions returns the saved versions of a file.
func (s *Store) Versions(fileID string) []entities.DocumentVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.DocumentVersion(nil), s.versions[fileID]...)
}

// WorkspaceRepository implements ports.WorkspaceRepository
type WorkspaceRepository struct{ s *Store }

func (r *WorkspaceRepository) Save(_ context.Context, ws *entities.Workspace) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.workspaces[ws.ID]; exists {
		return pkgerrors.NewConflictError("workspace already exists")
	}
	r.s.workspaces[ws.ID] = *ws
	return nil
}

func (r *WorkspaceRepository) Update(_ context.Context, ws *entities.Workspace) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.workspaces[ws.ID]; !exists {
		return pkgerrors.NewNotFoundError("workspace")
	}
	r.s.workspaces[ws.ID] = *ws
	return nil
}

func (r *WorkspaceRepository) GetByID(_ context.Context, id string) (*entities.Workspace, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ws, ok := r.s.workspaces[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("workspace")
	}
	return &ws, nil
}

func (r *WorkspaceRepository) ListByOwner(_ context.Context, ownerID string) ([]*entities.Workspace, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entities.Workspace, 0)
	for _, ws := range r.s.workspaces {
		if ws.OwnerID == ownerID {
			ws := ws
			out = append(out, &ws)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes the workspace and cascades to its rows like the database does.
func (r *WorkspaceRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workspaces[id]; !ok {
		return pkgerrors.NewNotFoundError("workspace")
	}
	delete(r.s.workspaces, id)
	for k, m := range r.s.members {
		if m.WorkspaceID == id {
			delete(r.s.members, k)
		}
	}
	for fid, f := range r.s.files {
		if f.WorkspaceID == id {
			r.s.deleteFileLocked(fid)
		}
	}
	for lid, l := range r.s.links {
		if l.WorkspaceID == id {
			r.s.deleteLinkLocked(lid)
		}
	}
	for tid, t := range r.s.tags {
		if t.WorkspaceID == id {
			delete(r.s.tags, tid)
		}
	}
	return nil
}

func (r *WorkspaceRepository) GetMember(_ context.Context, workspaceID, userID string) (*entities.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.members[workspaceID+"/"+userID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("workspace member")
	}
	return &m, nil
}

// FileRepository implements ports.FileRepository
type FileRepository struct{ s *Store }

func (r *FileRepository) Save(_ context.Context, f *entities.FileRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.files[f.ID]; exists {
		return pkgerrors.NewConflictError("file already exists")
	}
	if _, ok := r.s.workspaces[f.WorkspaceID]; !ok {
		return pkgerrors.NewDatabaseError("insert file", fmt.Errorf("workspace %s does not exist", f.WorkspaceID))
	}
	r.s.files[f.ID] = cloneFile(*f)
	r.s.fileOrder = append(r.s.fileOrder, f.ID)
	return nil
}

func (r *FileRepository) Update(_ context.Context, f *entities.FileRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.files[f.ID]; !ok {
		return pkgerrors.NewNotFoundError("file")
	}
	r.s.files[f.ID] = cloneFile(*f)
	return nil
}

func (r *FileRepository) GetByID(_ context.Context, id string) (*entities.FileRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.files[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("file")
	}
	f = cloneFile(f)
	return &f, nil
}

func (r *FileRepository) ListByWorkspace(_ context.Context, workspaceID string) ([]entities.FileRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entities.FileRecord, 0)
	for _, id := range r.s.fileOrder {
		if f := r.s.files[id]; f.WorkspaceID == workspaceID {
			out = append(out, cloneFile(f))
		}
	}
	return out, nil
}

func (r *FileRepository) CountChildren(_ context.Context, folderID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, f := range r.s.files {
		if f.ParentFolderID != nil && *f.ParentFolderID == folderID {
			n++
		}
	}
	return n, nil
}

func (r *FileRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.files[id]; !ok {
		return pkgerrors.NewNotFoundError("file")
	}
	r.s.deleteFileLocked(id)
	return nil
}

func (r *FileRepository) SaveVersion(_ context.Context, v *entities.DocumentVersion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.versions[v.FileID] {
		if existing.VersionNumber == v.VersionNumber {
			return pkgerrors.NewConflictError("document version already exists")
		}
	}
	r.s.versions[v.FileID] = append(r.s.versions[v.FileID], *v)
	return nil
}

func (r *FileRepository) LatestVersionNumber(_ context.Context, fileID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	latest := 0
	for _, v := range r.s.versions[fileID] {
		if v.VersionNumber > latest {
			latest = v.VersionNumber
		}
	}
	return latest, nil
}

// LinkRepository implements ports.LinkRepository
type LinkRepository struct{ s *Store }

func (r *LinkRepository) Save(_ context.Context, l *entities.LinkRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.links[l.ID]; exists {
		return pkgerrors.NewConflictError("link already exists")
	}
	r.s.links[l.ID] = *l
	r.s.linkOrder = append(r.s.linkOrder, l.ID)
	return nil
}

func (r *LinkRepository) GetByID(_ context.Context, id string) (*entities.LinkRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.links[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("link")
	}
	return &l, nil
}

func (r *LinkRepository) ListByWorkspace(_ context.Context, workspaceID string) ([]entities.LinkRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entities.LinkRecord, 0)
	for _, id := range r.s.linkOrder {
		if l := r.s.links[id]; l.WorkspaceID == workspaceID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *LinkRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.links[id]; !ok {
		return pkgerrors.NewNotFoundError("link")
	}
	r.s.deleteLinkLocked(id)
	return nil
}

func (r *LinkRepository) DeleteByFileID(_ context.Context, fileID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, l := range r.s.links {
		if l.Touches(fileID) {
			r.s.deleteLinkLocked(id)
		}
	}
	return nil
}

// TagRepository implements ports.TagRepository
type TagRepository struct{ s *Store }

func (r *TagRepository) FindByName(_ context.Context, workspaceID, name string) (*entities.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tags {
		if t.WorkspaceID == workspaceID && t.Name == name {
			return &t, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("tag")
}

func (r *TagRepository) Save(_ context.Context, t *entities.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.tags {
		if existing.WorkspaceID == t.WorkspaceID && existing.Name == t.Name {
			return pkgerrors.NewConflictError("tag already exists")
		}
	}
	r.s.tags[t.ID] = *t
	return nil
}

func (r *TagRepository) ListByWorkspace(_ context.Context, workspaceID string) ([]*entities.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entities.Tag, 0)
	for _, t := range r.s.tags {
		if t.WorkspaceID == workspaceID {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TagRepository) AttachToFile(_ context.Context, fileID, tagID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.fileTags[fileID] == nil {
		r.s.fileTags[fileID] = make(map[string]struct{})
	}
	r.s.fileTags[fileID][tagID] = struct{}{}
	return nil
}

func (r *TagRepository) DeleteByFileID(_ context.Context, fileID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.fileTags, fileID)
	return nil
}

// ActivityLog implements ports.ActivityLog
type ActivityLog struct{ s *Store }

func (a *ActivityLog) Record(_ context.Context, entry entities.ActivityEntry) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = valueobjects.NewID()
	}
	a.s.activity = append(a.s.activity, entry)
	return nil
}

// ObjectStore implements ports.ObjectStore
type ObjectStore struct{ s *Store }

func (o *ObjectStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return pkgerrors.NewStorageError("put", err)
	}
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	o.s.objects[key] = data
	return nil
}

func (o *ObjectStore) Remove(_ context.Context, key string) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	delete(o.s.objects, key)
	return nil
}

func (o *ObjectStore) RemovePrefix(_ context.Context, prefix string) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	for k := range o.s.objects {
		if strings.HasPrefix(k, prefix) {
			delete(o.s.objects, k)
		}
	}
	return nil
}

func (o *ObjectStore) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()
	if _, ok := o.s.objects[key]; !ok {
		return "", pkgerrors.NewNotFoundError("object")
	}
	return fmt.Sprintf("memory://%s?expires=%d", key, int(expiry.Seconds())), nil
}

func (s *Store) deleteFileLocked(id string) {
	delete(s.files, id)
	delete(s.versions, id)
	delete(s.fileTags, id)
	s.fileOrder = removeID(s.fileOrder, id)
}

func (s *Store) deleteLinkLocked(id string) {
	delete(s.links, id)
	s.linkOrder = removeID(s.linkOrder, id)
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func cloneFile(f entities.FileRecord) entities.FileRecord {
	if f.Content != nil {
		doc := entities.Document{Blocks: append([]entities.Block(nil), f.Content.Blocks...)}
		f.Content = &doc
	}
	return f
}

var (
	_ ports.WorkspaceRepository = (*WorkspaceRepository)(nil)
	_ ports.FileRepository      = (*FileRepository)(nil)
	_ ports.LinkRepository      = (*LinkRepository)(nil)
	_ ports.TagRepository       = (*TagRepository)(nil)
	_ ports.ActivityLog         = (*ActivityLog)(nil)
	_ ports.ObjectStore         = (*ObjectStore)(nil)
	_ ports.HealthChecker       = (*Store)(nil)
)
