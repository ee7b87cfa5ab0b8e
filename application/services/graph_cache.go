package services

import (
	"context"
	"encoding/json"
	"time"

	"docspace/application/ports"
	domainservices "docspace/domain/services"
	"docspace/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GraphCache keeps computed graph views per workspace, keyed by a generation
// token. Views are stored under the generation observed by Load, and
// Invalidate rotates the token, so a view built from a snapshot that raced a
// mutation is written under a key no later Load reads.
type GraphCache struct {
	cache   ports.Cache
	ttl     time.Duration
	metrics *observability.Collector
	logger  *zap.Logger
	newGen  func() string
}

// NewGraphCache wraps cache. A nil cache makes every method a no-op.
func NewGraphCache(cache ports.Cache, ttl time.Duration, metrics *observability.Collector, logger *zap.Logger) *GraphCache {
	return &GraphCache{cache: cache, ttl: ttl, metrics: metrics, logger: logger, newGen: uuid.NewString}
}

// GraphGenerationKey holds the current generation token of a workspace.
func GraphGenerationKey(workspaceID string) string {
	return "graph:" + workspaceID + ":gen"
}

// GraphCacheKey is the cache key of a workspace's graph view at generation gen.
func GraphCacheKey(workspaceID, gen string) string {
	return "graph:" + workspaceID + ":" + gen
}

// Load returns the generation to pass to Store and the cached view, if any.
// Cache errors count as misses and yield an empty generation.
func (c *GraphCache) Load(ctx context.Context, workspaceID string) (domainservices.GraphView, string, bool) {
	if c == nil || c.cache == nil {
		return domainservices.GraphView{}, "", false
	}

	gen, err := c.generation(ctx, workspaceID)
	if err != nil {
		c.logger.Warn("Graph cache generation read failed", zap.String("workspace_id", workspaceID), zap.Error(err))
		c.miss()
		return domainservices.GraphView{}, "", false
	}
	if gen == "" {
		// Never invalidated, or the token was evicted.
		gen = c.newGen()
		if err := c.cache.Set(ctx, GraphGenerationKey(workspaceID), []byte(gen), 0); err != nil {
			c.logger.Warn("Graph cache generation write failed", zap.String("workspace_id", workspaceID), zap.Error(err))
			c.miss()
			return domainservices.GraphView{}, "", false
		}
		c.miss()
		return domainservices.GraphView{}, gen, false
	}

	data, ok, err := c.cache.Get(ctx, GraphCacheKey(workspaceID, gen))
	if err != nil {
		c.logger.Warn("Graph cache read failed", zap.String("workspace_id", workspaceID), zap.Error(err))
	}
	if !ok || err != nil {
		c.miss()
		return domainservices.GraphView{}, gen, false
	}

	var view domainservices.GraphView
	if err := json.Unmarshal(data, &view); err != nil {
		c.logger.Warn("Discarding undecodable graph cache entry", zap.String("workspace_id", workspaceID), zap.Error(err))
		c.miss()
		return domainservices.GraphView{}, gen, false
	}
	if c.metrics != nil {
		c.metrics.CacheHits.Inc()
	}
	return view, gen, true
}

// Store caches view under gen for the configured TTL. It does nothing when
// gen is empty or the workspace has been invalidated since gen was loaded.
func (c *GraphCache) Store(ctx context.Context, workspaceID, gen string, view domainservices.GraphView) {
	if c == nil || c.cache == nil || gen == "" {
		return
	}
	current, err := c.generation(ctx, workspaceID)
	if err != nil {
		c.logger.Warn("Graph cache generation read failed", zap.String("workspace_id", workspaceID), zap.Error(err))
		return
	}
	if current != gen {
		c.logger.Debug("Skipping stale graph view",
			zap.String("workspace_id", workspaceID),
			zap.String("generation", gen),
			zap.String("current", current),
		)
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		c.logger.Warn("Failed to encode graph view", zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, GraphCacheKey(workspaceID, gen), data, c.ttl); err != nil {
		c.logger.Warn("Graph cache write failed", zap.String("workspace_id", workspaceID), zap.Error(err))
	}
}

// Invalidate rotates the workspace's generation and drops the view cached
// under the previous one.
func (c *GraphCache) Invalidate(ctx context.Context, workspaceID string) {
	if c == nil || c.cache == nil {
		return
	}
	prev, err := c.generation(ctx, workspaceID)
	if err != nil {
		c.logger.Warn("Graph cache generation read failed", zap.String("workspace_id", workspaceID), zap.Error(err))
	}
	if err := c.cache.Set(ctx, GraphGenerationKey(workspaceID), []byte(c.newGen()), 0); err != nil {
		c.logger.Warn("Graph cache invalidation failed", zap.String("workspace_id", workspaceID), zap.Error(err))
		// Without a new generation the old view must not survive.
		if prev != "" {
			_ = c.cache.Delete(ctx, GraphCacheKey(workspaceID, prev))
		}
		return
	}
	if prev != "" {
		if err := c.cache.Delete(ctx, GraphCacheKey(workspaceID, prev)); err != nil {
			c.logger.Debug("Failed to drop superseded graph view", zap.String("workspace_id", workspaceID), zap.Error(err))
		}
	}
}

func (c *GraphCache) generation(ctx context.Context, workspaceID string) (string, error) {
	data, ok, err := c.cache.Get(ctx, GraphGenerationKey(workspaceID))
	if err != nil || !ok {
		return "", err
	}
	return string(data), nil
}

func (c *GraphCache) miss() {
	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}
}
