package handlers

import (
	"context"

	"docspace/application/ports"
	"docspace/application/queries"
	"docspace/application/queries/bus"
	"docspace/application/services"
	"docspace/domain/core/entities"
	domainservices "docspace/domain/services"
	"docspace/pkg/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GetGraphDataHandler loads a workspace snapshot and lays it out as a graph.
type GetGraphDataHandler struct {
	guard   *services.AccessGuard
	files   ports.FileRepository
	links   ports.LinkRepository
	engine  *domainservices.GraphLayoutEngine
	graphs  *services.GraphCache
	tracer  *observability.Tracer
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewGetGraphDataHandler creates a new graph data handler
func NewGetGraphDataHandler(
	guard *services.AccessGuard,
	files ports.FileRepository,
	links ports.LinkRepository,
	engine *domainservices.GraphLayoutEngine,
	graphs *services.GraphCache,
	tracer *observability.Tracer,
	metrics *observability.Collector,
	logger *zap.Logger,
) *GetGraphDataHandler {
	return &GetGraphDataHandler{
		guard:   guard,
		files:   files,
		links:   links,
		engine:  engine,
		graphs:  graphs,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle executes the graph data query
func (h *GetGraphDataHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, err := queryAs[queries.GetGraphDataQuery](query)
	if err != nil {
		return nil, err
	}
	if _, err := h.guard.RequireRead(ctx, q.WorkspaceID, q.UserID); err != nil {
		return nil, err
	}

	cached, gen, ok := h.graphs.Load(ctx, q.WorkspaceID)
	if ok {
		return &queries.GetGraphDataResult{WorkspaceID: q.WorkspaceID, GraphView: cached}, nil
	}

	var (
		files []entities.FileRecord
		links []entities.LinkRecord
	)
	err = h.tracer.TraceFunction(ctx, "graph_snapshot", func(ctx context.Context) error {
		h.tracer.AddAnnotation(ctx, "workspace_id", q.WorkspaceID)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			files, err = h.files.ListByWorkspace(gctx, q.WorkspaceID)
			return err
		})
		g.Go(func() error {
			var err error
			links, err = h.links.ListByWorkspace(gctx, q.WorkspaceID)
			return err
		})
		return g.Wait()
	})
	if err != nil {
		h.logger.Error("Failed to load workspace snapshot",
			zap.String("workspace_id", q.WorkspaceID),
			zap.Error(err),
		)
		return nil, err
	}

	view, err := h.engine.BuildGraph(files, links)
	if err != nil {
		h.logger.Error("Failed to build graph",
			zap.String("workspace_id", q.WorkspaceID),
			zap.Int("files", len(files)),
			zap.Int("links", len(links)),
			zap.Error(err),
		)
		return nil, err
	}

	dropped := len(links) - len(view.Edges)
	if dropped > 0 {
		h.logger.Debug("Dropped links with unknown endpoints",
			zap.String("workspace_id", q.WorkspaceID),
			zap.Int("dropped", dropped),
		)
	}
	if h.metrics != nil {
		h.metrics.RecordGraphBuild(len(view.Nodes), dropped)
	}

	h.graphs.Store(ctx, q.WorkspaceID, gen, view)
	return &queries.GetGraphDataResult{WorkspaceID: q.WorkspaceID, GraphView: view}, nil
}
