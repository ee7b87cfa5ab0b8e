package handlers

import (
	"errors"
	"net/http"

	"docspace/application/commands"
	"docspace/application/commands/bus"
	"docspace/application/queries"
	querybus "docspace/application/queries/bus"
	"docspace/domain/core/entities"
	"docspace/pkg/common"
	pkgerrors "docspace/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// multipart parts beyond this are spooled to disk by net/http
const multipartMemory = 8 << 20

// FileHandler handles file, folder and document requests
type FileHandler struct {
	base
	maxUpload int64
}

// NewFileHandler creates a new file handler. maxUpload bounds multipart bodies.
func NewFileHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, maxUpload int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{base: newBase(commandBus, queryBus, errs, logger), maxUpload: maxUpload}
}

// CreateFileRequest is the body of POST /workspaces/{workspaceID}/files
type CreateFileRequest struct {
	Name           string  `json:"name" validate:"required,max=255"`
	IsFolder       bool    `json:"is_folder"`
	ParentFolderID *string `json:"parent_folder_id,omitempty"`
}

// RenameFileRequest is the body of PATCH /files/{fileID}
type RenameFileRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// SaveDocumentRequest is the body of PUT /files/{fileID}/content
type SaveDocumentRequest struct {
	Blocks []entities.Block `json:"blocks" validate:"max=5000"`
}

// ListFiles handles GET /workspaces/{workspaceID}/files
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	files, err := querybus.AskAs[[]entities.FileRecord](r.Context(), h.queryBus, queries.ListFilesQuery{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
		UserID:      userID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondList(w, requestID(r), files, len(files))
}

// CreateFile handles POST /workspaces/{workspaceID}/files
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req CreateFileRequest
	if !h.decode(w, r, &req) {
		return
	}

	fileID := uuid.New().String()
	if !h.send(w, r, commands.CreateFileCommand{
		FileID:         fileID,
		WorkspaceID:    chi.URLParam(r, "workspaceID"),
		ActorID:        userID,
		Name:           req.Name,
		IsFolder:       req.IsFolder,
		ParentFolderID: req.ParentFolderID,
	}) {
		return
	}

	h.respondQuery(w, r, http.StatusCreated, queries.GetFileQuery{FileID: fileID, UserID: userID})
}

// UploadFile handles POST /workspaces/{workspaceID}/files/upload. The body is
// multipart with a "file" part and an optional "parent_folder_id" field.
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errors.Handle(w, r, pkgerrors.NewTooLargeError(h.maxUpload))
			return
		}
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid multipart body").WithCause(err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	part, header, err := r.FormFile("file")
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("file part is required").WithCause(err))
		return
	}
	defer part.Close()

	var parent *string
	if p := r.FormValue("parent_folder_id"); p != "" {
		parent = &p
	}

	fileID := uuid.New().String()
	if !h.send(w, r, commands.UploadFileCommand{
		FileID:         fileID,
		WorkspaceID:    chi.URLParam(r, "workspaceID"),
		ActorID:        userID,
		Name:           header.Filename,
		ContentType:    header.Header.Get("Content-Type"),
		Size:           header.Size,
		ParentFolderID: parent,
		Body:           part,
	}) {
		return
	}

	h.respondQuery(w, r, http.StatusCreated, queries.GetFileQuery{FileID: fileID, UserID: userID})
}

// GetFile handles GET /files/{fileID}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	h.respondQuery(w, r, http.StatusOK, queries.GetFileQuery{FileID: chi.URLParam(r, "fileID"), UserID: userID})
}

// RenameFile handles PATCH /files/{fileID}
func (h *FileHandler) RenameFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req RenameFileRequest
	if !h.decode(w, r, &req) {
		return
	}

	fileID := chi.URLParam(r, "fileID")
	if !h.send(w, r, commands.RenameFileCommand{FileID: fileID, ActorID: userID, Name: req.Name}) {
		return
	}
	h.respondQuery(w, r, http.StatusOK, queries.GetFileQuery{FileID: fileID, UserID: userID})
}

// DeleteFile handles DELETE /files/{fileID}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if !h.send(w, r, commands.DeleteFileCommand{FileID: chi.URLParam(r, "fileID"), ActorID: userID}) {
		return
	}
	common.RespondNoContent(w)
}

// SaveDocument handles PUT /files/{fileID}/content
func (h *FileHandler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req SaveDocumentRequest
	if !h.decode(w, r, &req) {
		return
	}

	fileID := chi.URLParam(r, "fileID")
	if !h.send(w, r, commands.SaveDocumentCommand{FileID: fileID, ActorID: userID, Blocks: req.Blocks}) {
		return
	}
	h.respondQuery(w, r, http.StatusOK, queries.GetFileQuery{FileID: fileID, UserID: userID})
}

// GetDownloadURL handles GET /files/{fileID}/download
func (h *FileHandler) GetDownloadURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	h.respondQuery(w, r, http.StatusOK, queries.GetDownloadURLQuery{FileID: chi.URLParam(r, "fileID"), UserID: userID})
}
