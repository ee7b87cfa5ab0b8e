// Package rest exposes the command and query buses over HTTP.
package rest

import (
	"context"
	"net/http"
	"sort"
	"time"

	"docspace/application/commands/bus"
	"docspace/application/ports"
	querybus "docspace/application/queries/bus"
	"docspace/interfaces/http/rest/handlers"
	"docspace/interfaces/http/rest/middleware"
	"docspace/pkg/auth"
	"docspace/pkg/common"
	pkgerrors "docspace/pkg/errors"
	"docspace/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const readyTimeout = 3 * time.Second

// RouterConfig holds what the router needs beyond the buses.
type RouterConfig struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	Debug          bool
	EnableMetrics  bool
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus  *bus.CommandBus
	queryBus    *querybus.QueryBus
	verifier    auth.TokenVerifier
	rateLimiter auth.RateLimiter
	health      map[string]ports.HealthChecker
	metrics     *observability.Collector
	config      RouterConfig
	errors      *pkgerrors.ErrorHandler
	logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	verifier auth.TokenVerifier,
	rateLimiter auth.RateLimiter,
	health map[string]ports.HealthChecker,
	metrics *observability.Collector,
	config RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:  commandBus,
		queryBus:    queryBus,
		verifier:    verifier,
		rateLimiter: rateLimiter,
		health:      health,
		metrics:     metrics,
		config:      config,
		errors:      pkgerrors.NewErrorHandler(logger, config.Debug),
		logger:      logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	origins := rt.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil && rt.config.EnableMetrics {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	workspaceHandler := handlers.NewWorkspaceHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
	fileHandler := handlers.NewFileHandler(rt.commandBus, rt.queryBus, rt.errors, rt.config.MaxUploadBytes, rt.logger)
	linkHandler := handlers.NewLinkHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
	tagHandler := handlers.NewTagHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
	graphHandler := handlers.NewGraphHandler(rt.queryBus, rt.errors, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.verifier, rt.rateLimiter, rt.errors, rt.metrics, rt.logger))
		if rt.config.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(rt.config.RequestTimeout))
		}

		r.Route("/workspaces", func(r chi.Router) {
			r.Post("/", workspaceHandler.CreateWorkspace)
			r.Get("/", workspaceHandler.ListWorkspaces)

			r.Route("/{workspaceID}", func(r chi.Router) {
				r.Get("/", workspaceHandler.GetWorkspace)
				r.Patch("/", workspaceHandler.UpdateWorkspace)
				r.Delete("/", workspaceHandler.DeleteWorkspace)

				r.Get("/files", fileHandler.ListFiles)
				r.Post("/files", fileHandler.CreateFile)
				r.Post("/files/upload", fileHandler.UploadFile)

				r.Get("/links", linkHandler.ListLinks)
				r.Post("/links", linkHandler.CreateLink)

				r.Get("/tags", tagHandler.ListTags)
				r.Post("/tags/generate", tagHandler.GenerateTags)

				r.Get("/graph", graphHandler.GetGraphData)
				r.Get("/graph.svg", graphHandler.GetGraphSVG)
			})
		})

		r.Route("/files/{fileID}", func(r chi.Router) {
			r.Get("/", fileHandler.GetFile)
			r.Patch("/", fileHandler.RenameFile)
			r.Delete("/", fileHandler.DeleteFile)
			r.Put("/content", fileHandler.SaveDocument)
			r.Get("/download", fileHandler.GetDownloadURL)
			r.Post("/tags", tagHandler.ApplyTags)
		})

		r.Delete("/links/{linkID}", linkHandler.DeleteLink)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck pings every dependency and reports each one.
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	names := make([]string, 0, len(rt.health))
	for name := range rt.health {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	status := http.StatusOK
	for _, name := range names {
		if err := rt.health[name].Ping(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	common.RespondJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
}
