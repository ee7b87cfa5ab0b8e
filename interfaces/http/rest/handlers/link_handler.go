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
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LinkHandler handles knowledge link requests
type LinkHandler struct {
	base
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{base: newBase(commandBus, queryBus, errs, logger)}
}

// CreateLinkRequest is the body of POST /workspaces/{workspaceID}/links
type CreateLinkRequest struct {
	SourceFileID string   `json:"source_file_id" validate:"required"`
	TargetFileID string   `json:"target_file_id" validate:"required"`
	Strength     *float64 `json:"strength_score,omitempty"`
	LinkType     string   `json:"link_type" validate:"max=50"`
}

// ListLinks handles GET /workspaces/{workspaceID}/links
func (h *LinkHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	links, err := querybus.AskAs[[]entities.LinkRecord](r.Context(), h.queryBus, queries.ListLinksQuery{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
		UserID:      userID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondList(w, requestID(r), links, len(links))
}

// CreateLink handles POST /workspaces/{workspaceID}/links
func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req CreateLinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	workspaceID := chi.URLParam(r, "workspaceID")
	linkID := uuid.New().String()
	if !h.send(w, r, commands.CreateLinkCommand{
		LinkID:       linkID,
		WorkspaceID:  workspaceID,
		ActorID:      userID,
		SourceFileID: req.SourceFileID,
		TargetFileID: req.TargetFileID,
		Strength:     req.Strength,
		LinkType:     req.LinkType,
	}) {
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"id": linkID})
}

// DeleteLink handles DELETE /links/{linkID}
func (h *LinkHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if !h.send(w, r, commands.DeleteLinkCommand{LinkID: chi.URLParam(r, "linkID"), ActorID: userID}) {
		return
	}
	common.RespondNoContent(w)
}
