package handlers

import (
	"bytes"
	"net/http"

	"docspace/application/queries"
	querybus "docspace/application/queries/bus"
	"docspace/pkg/common"
	pkgerrors "docspace/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GraphHandler serves the laid-out workspace graph
type GraphHandler struct {
	base
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{base: newBase(nil, queryBus, errs, logger)}
}

func (h *GraphHandler) graph(w http.ResponseWriter, r *http.Request) (*queries.GetGraphDataResult, bool) {
	userID, ok := h.userID(w, r)
	if !ok {
		return nil, false
	}
	result, err := querybus.AskAs[*queries.GetGraphDataResult](r.Context(), h.queryBus, queries.GetGraphDataQuery{
		WorkspaceID: chi.URLParam(r, "workspaceID"),
		UserID:      userID,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return nil, false
	}
	return result, true
}

// GetGraphData handles GET /workspaces/{workspaceID}/graph
func (h *GraphHandler) GetGraphData(w http.ResponseWriter, r *http.Request) {
	result, ok := h.graph(w, r)
	if !ok {
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetGraphSVG handles GET /workspaces/{workspaceID}/graph.svg
func (h *GraphHandler) GetGraphSVG(w http.ResponseWriter, r *http.Request) {
	result, ok := h.graph(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := RenderGraphSVG(&buf, result.GraphView); err != nil {
		h.logger.Error("Failed to render graph", zap.String("workspace_id", result.WorkspaceID), zap.Error(err))
		h.errors.Handle(w, r, pkgerrors.NewInternalError("failed to render graph").WithCause(err))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "private, max-age=0")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
