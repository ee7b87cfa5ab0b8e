package di

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"docspace/application/commands"
	"docspace/application/commands/bus"
	commandhandlers "docspace/application/commands/handlers"
	"docspace/application/ports"
	"docspace/application/queries"
	querybus "docspace/application/queries/bus"
	queryhandlers "docspace/application/queries/handlers"
	"docspace/application/services"
	domainservices "docspace/domain/services"
	"docspace/infrastructure/cache"
	"docspace/infrastructure/config"
	"docspace/infrastructure/persistence/memory"
	"docspace/infrastructure/persistence/supabase"
	"docspace/infrastructure/storage/objectstore"
	"docspace/infrastructure/tagging"
	"docspace/pkg/auth"
	"docspace/pkg/observability"

	"github.com/redis/go-redis/v9"
	sb "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

const (
	serviceName     = "docspace-api"
	cacheKeyPrefix  = "docspace:"
	rateLimitPrefix = "docspace:ratelimit:"

	slowQueryThreshold = time.Second
)

// Repositories is the persistence backend selected by configuration.
type Repositories struct {
	Workspaces ports.WorkspaceRepository
	Files      ports.FileRepository
	Links      ports.LinkRepository
	Tags       ports.TagRepository
	Activity   ports.ActivityLog
	Health     ports.HealthChecker

	// set only when running on the in-memory backend
	memory *memory.Store
}

// CacheBackend is the query cache plus the Redis client behind it, if any.
type CacheBackend struct {
	Cache  ports.Cache
	Health ports.HealthChecker
	Redis  *redis.Client
}

// HealthChecks maps dependency names to their readiness probes.
type HealthChecks map[string]ports.HealthChecker

// ProvideLogLevel creates the level shared by the logger and the config watcher.
func ProvideLogLevel(cfg *config.Config) zap.AtomicLevel {
	return zap.NewAtomicLevelAt(cfg.Level())
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName)), nil
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("docspace")
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideSupabaseClient returns nil when Supabase is not configured.
func ProvideSupabaseClient(cfg *config.Config) (*sb.Client, error) {
	if cfg.Supabase.URL == "" || cfg.Supabase.ServiceKey == "" {
		return nil, nil
	}
	client, err := sb.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return client, nil
}

// ProvideRepositories selects Supabase when a client exists and memory otherwise.
func ProvideRepositories(cfg *config.Config, client *sb.Client, logger *zap.Logger) (*Repositories, error) {
	if client != nil {
		store := supabase.NewStoreWithClient(client, logger)
		logger.Info("Using Supabase persistence", zap.String("url", cfg.Supabase.URL))
		return &Repositories{
			Workspaces: store.Workspaces(),
			Files:      store.Files(),
			Links:      store.Links(),
			Tags:       store.Tags(),
			Activity:   store.ActivityLog(),
			Health:     store,
		}, nil
	}

	if cfg.IsProduction() {
		return nil, errors.New("supabase persistence is required in production")
	}
	logger.Warn("Supabase not configured, using in-memory persistence")
	store := memory.NewStore()
	return &Repositories{
		Workspaces: store.Workspaces(),
		Files:      store.Files(),
		Links:      store.Links(),
		Tags:       store.Tags(),
		Activity:   store.ActivityLog(),
		Health:     store,
		memory:     store,
	}, nil
}

// ProvideObjectStore uses the S3-compatible bucket when configured. The
// in-memory backend falls back to in-process objects.
func ProvideObjectStore(cfg *config.Config, repos *Repositories, logger *zap.Logger) (ports.ObjectStore, error) {
	if cfg.UseObjectStorage() {
		return objectstore.NewStore(objectstore.Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		}, logger)
	}
	if repos.memory == nil {
		return nil, errors.New("STORAGE_ENDPOINT is required with supabase persistence")
	}
	logger.Warn("Object storage not configured, keeping uploads in memory")
	return repos.memory.Objects(), nil
}

// ProvideCacheBackend connects to Redis when REDIS_URL is set.
func ProvideCacheBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*CacheBackend, func(), error) {
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cacheKeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := rc.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}
		return &CacheBackend{Cache: rc, Health: rc, Redis: rc.Client()}, cleanup, nil
	}

	lru, err := cache.NewLRUCache(cfg.Cache.LRUSize)
	if err != nil {
		return nil, nil, err
	}
	return &CacheBackend{Cache: lru, Health: lru}, func() {}, nil
}

// ProvideCache exposes the selected cache as the port
func ProvideCache(backend *CacheBackend) ports.Cache {
	return backend.Cache
}

// ProvideRateLimiter shares limits across instances through Redis when it is
// available. It returns nil when limiting is disabled.
func ProvideRateLimiter(cfg *config.Config, backend *CacheBackend) auth.RateLimiter {
	rpm := cfg.RateLimit.RequestsPerMinute
	if rpm <= 0 {
		return nil
	}
	if backend.Redis != nil {
		return auth.NewRedisRateLimiter(backend.Redis, rpm, time.Minute, rateLimitPrefix)
	}
	return auth.NewUserRateLimiter(rpm)
}

// ProvideTokenVerifier validates tokens locally when the JWT secret is known
// and asks Supabase auth otherwise.
func ProvideTokenVerifier(cfg *config.Config, client *sb.Client) (auth.TokenVerifier, error) {
	if cfg.Supabase.JWTSecret != "" {
		return auth.NewJWTValidator(auth.JWTConfig{
			SecretKey: cfg.Supabase.JWTSecret,
			Issuer:    cfg.Supabase.JWTIssuer,
			Audience:  []string{"authenticated"},
		})
	}
	if client != nil {
		return auth.NewSupabaseVerifier(client), nil
	}
	return nil, errors.New("SUPABASE_JWT_SECRET or SUPABASE_URL is required for authentication")
}

// ProvideHealthChecks lists what /ready probes.
func ProvideHealthChecks(repos *Repositories, backend *CacheBackend, objects ports.ObjectStore) HealthChecks {
	checks := HealthChecks{
		"database": repos.Health,
		"cache":    backend.Health,
	}
	if hc, ok := objects.(ports.HealthChecker); ok && repos.memory == nil {
		checks["storage"] = hc
	}
	return checks
}

// ProvideLayoutEngine creates the graph layout engine from configuration
func ProvideLayoutEngine(cfg *config.Config) (*domainservices.GraphLayoutEngine, error) {
	return domainservices.NewGraphLayoutEngine(cfg.Layout)
}

// ProvideAccessGuard creates the workspace access checker
func ProvideAccessGuard(repos *Repositories) *services.AccessGuard {
	return services.NewAccessGuard(repos.Workspaces)
}

// ProvideActivityRecorder creates the best-effort activity recorder
func ProvideActivityRecorder(repos *Repositories, metrics *observability.Collector, logger *zap.Logger) *services.ActivityRecorder {
	return services.NewActivityRecorder(repos.Activity, metrics, logger)
}

// ProvideGraphCache creates the graph view cache
func ProvideGraphCache(cfg *config.Config, c ports.Cache, metrics *observability.Collector, logger *zap.Logger) *services.GraphCache {
	return services.NewGraphCache(c, cfg.Cache.TTL, metrics, logger)
}

// ProvideTagGenerator wraps the remote tag service, when configured, with the
// local keyword fallback.
func ProvideTagGenerator(cfg *config.Config, metrics *observability.Collector, logger *zap.Logger) ports.TagGenerator {
	var remote ports.TagGenerator
	if cfg.Tags.ServiceURL != "" {
		remote = tagging.NewClient(cfg.Tags.ServiceURL, cfg.Tags.Timeout, tagging.DefaultBreakerConfig(), logger)
	}
	return services.NewTagSuggester(remote, metrics, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	cfg *config.Config,
	repos *Repositories,
	objects ports.ObjectStore,
	guard *services.AccessGuard,
	graphs *services.GraphCache,
	activity *services.ActivityRecorder,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(bus.MetricsMiddleware(metrics), bus.LoggingMiddleware(logger))

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreateWorkspaceCommand{}, commandhandlers.NewCreateWorkspaceHandler(repos.Workspaces, activity, logger)},
		{commands.UpdateWorkspaceCommand{}, commandhandlers.NewUpdateWorkspaceHandler(guard, repos.Workspaces, graphs, activity)},
		{commands.DeleteWorkspaceCommand{}, commandhandlers.NewDeleteWorkspaceHandler(guard, repos.Workspaces, objects, graphs, metrics, logger)},
		{commands.CreateFileCommand{}, commandhandlers.NewCreateFileHandler(guard, repos.Files, graphs, activity)},
		{commands.RenameFileCommand{}, commandhandlers.NewRenameFileHandler(guard, repos.Files, graphs, activity)},
		{commands.DeleteFileCommand{}, commandhandlers.NewDeleteFileHandler(guard, repos.Files, repos.Links, repos.Tags, objects, graphs, activity, logger)},
		{commands.SaveDocumentCommand{}, commandhandlers.NewSaveDocumentHandler(guard, repos.Files, activity, logger)},
		{commands.UploadFileCommand{}, commandhandlers.NewUploadFileHandler(guard, repos.Files, objects, cfg.Storage.MaxUploadBytes, graphs, activity, logger)},
		{commands.CreateLinkCommand{}, commandhandlers.NewCreateLinkHandler(guard, repos.Files, repos.Links, graphs, activity)},
		{commands.DeleteLinkCommand{}, commandhandlers.NewDeleteLinkHandler(guard, repos.Links, graphs, activity)},
		{commands.ApplyTagsCommand{}, commandhandlers.NewApplyTagsHandler(guard, repos.Files, repos.Tags, activity)},
	}
	for _, r := range registrations {
		if err := commandBus.Register(r.cmd, r.handler); err != nil {
			return nil, err
		}
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	cfg *config.Config,
	repos *Repositories,
	objects ports.ObjectStore,
	guard *services.AccessGuard,
	engine *domainservices.GraphLayoutEngine,
	graphs *services.GraphCache,
	generator ports.TagGenerator,
	tracer *observability.Tracer,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.MetricsMiddleware(metrics),
		querybus.SlowQueryMiddleware(slowQueryThreshold, logger),
	)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetWorkspaceQuery{}, queryhandlers.NewGetWorkspaceHandler(guard)},
		{queries.ListWorkspacesQuery{}, queryhandlers.NewListWorkspacesHandler(repos.Workspaces)},
		{queries.GetGraphDataQuery{}, queryhandlers.NewGetGraphDataHandler(guard, repos.Files, repos.Links, engine, graphs, tracer, metrics, logger)},
		{queries.ListFilesQuery{}, queryhandlers.NewListFilesHandler(guard, repos.Files)},
		{queries.GetFileQuery{}, queryhandlers.NewGetFileHandler(guard, repos.Files)},
		{queries.GetDownloadURLQuery{}, queryhandlers.NewGetDownloadURLHandler(guard, repos.Files, objects, cfg.Storage.PresignExpiry)},
		{queries.ListLinksQuery{}, queryhandlers.NewListLinksHandler(guard, repos.Links)},
		{queries.ListTagsQuery{}, queryhandlers.NewListTagsHandler(guard, repos.Tags)},
		{queries.GenerateTagsQuery{}, queryhandlers.NewGenerateTagsHandler(guard, repos.Files, generator)},
	}
	for _, r := range registrations {
		if err := queryBus.Register(r.query, r.handler); err != nil {
			return nil, err
		}
	}
	return queryBus, nil
}

// ProvideLogLevelWatcher follows log_level in the YAML config file. It
// returns nil when no config file is in use.
func ProvideLogLevelWatcher(cfg *config.Config, level zap.AtomicLevel, logger *zap.Logger) (*config.LogLevelWatcher, error) {
	if cfg.ConfigFile == "" {
		return nil, nil
	}
	if _, err := os.Stat(cfg.ConfigFile); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	return config.NewLogLevelWatcher(cfg.ConfigFile, level, logger)
}
