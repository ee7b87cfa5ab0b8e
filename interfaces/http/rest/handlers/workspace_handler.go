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

// WorkspaceHandler handles workspace-related HTTP requests
type WorkspaceHandler struct {
	base
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{base: newBase(commandBus, queryBus, errs, logger)}
}

// CreateWorkspaceRequest is the body of POST /workspaces
type CreateWorkspaceRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateWorkspaceRequest is the body of PATCH /workspaces/{workspaceID}
type UpdateWorkspaceRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// CreateWorkspace handles POST /workspaces
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req CreateWorkspaceRequest
	if !h.decode(w, r, &req) {
		return
	}

	workspaceID := uuid.New().String()
	if !h.send(w, r, commands.CreateWorkspaceCommand{
		WorkspaceID: workspaceID,
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}) {
		return
	}

	h.respondQuery(w, r, http.StatusCreated, queries.GetWorkspaceQuery{WorkspaceID: workspaceID, UserID: userID})
}

// ListWorkspaces handles GET /workspaces
func (h *WorkspaceHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	workspaces, err := querybus.AskAs[[]*entities.Workspace](r.Context(), h.queryBus, queries.ListWorkspacesQuery{UserID: userID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondList(w, requestID(r), workspaces, len(workspaces))
}

// GetWorkspace handles GET /workspaces/{workspaceID}
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	h.respondQuery(w, r, http.StatusOK, queries.GetWorkspaceQuery{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
		UserID:      userID,
	})
}

// UpdateWorkspace handles PATCH /workspaces/{workspaceID}
func (h *WorkspaceHandler) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req UpdateWorkspaceRequest
	if !h.decode(w, r, &req) {
		return
	}

	workspaceID := chi.URLParam(r, "workspaceID")
	if !h.send(w, r, commands.UpdateWorkspaceCommand{
		WorkspaceID: workspaceID,
		ActorID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}) {
		return
	}

	h.respondQuery(w, r, http.StatusOK, queries.GetWorkspaceQuery{WorkspaceID: workspaceID, UserID: userID})
}

// DeleteWorkspace handles DELETE /workspaces/{workspaceID}
func (h *WorkspaceHandler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if !h.send(w, r, commands.DeleteWorkspaceCommand{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
		ActorID:     userID,
	}) {
		return
	}
	common.RespondNoContent(w)
}
