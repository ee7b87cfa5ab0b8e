package handlers

import (
	"net/http"

	"docspace/application/commands"
	"docspace/application/commands/bus"
	"docspace/application/queries"
	querybus "docspace/application/queries/bus"
	"docspace/domain/core/entities"
	"docspace/pkg/common"
	pkgerrors "docspace/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TagHandler handles tag requests
type TagHandler struct {
	base
}

// NewTagHandler creates a new tag handler
func NewTagHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *TagHandler {
	return &TagHandler{base: newBase(commandBus, queryBus, errs, logger)}
}

// ApplyTagsRequest is the body of POST /files/{fileID}/tags
type ApplyTagsRequest struct {
	Tags []string `json:"tags" validate:"required,min=1,max=20,dive,required,max=50"`
}

// GenerateTagsRequest is the body of POST /workspaces/{workspaceID}/tags/generate
type GenerateTagsRequest struct {
	FileID   string `json:"file_id"`
	Content  string `json:"content" validate:"max=100000"`
	FileName string `json:"filename" validate:"max=255"`
}

// ListTags handles GET /workspaces/{workspaceID}/tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	tags, err := querybus.AskAs[[]*entities.Tag](r.Context(), h.queryBus, queries.ListTagsQuery{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
		UserID:      userID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondList(w, requestID(r), tags, len(tags))
}

// ApplyTags handles POST /files/{fileID}/tags
func (h *TagHandler) ApplyTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req ApplyTagsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.send(w, r, commands.ApplyTagsCommand{
		FileID:  chi.URLParam(r, "fileID"),
		ActorID: userID,
		Tags:    req.Tags,
	}) {
		return
	}
	common.RespondNoContent(w)
}

// GenerateTags handles POST /workspaces/{workspaceID}/tags/generate
func (h *TagHandler) GenerateTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req GenerateTagsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respondQuery(w, r, http.StatusOK, queries.GenerateTagsQuery{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
		UserID:      userID,
		FileID:      req.FileID,
		Content:     req.Content,
		FileName:    req.FileName,
	})
}
