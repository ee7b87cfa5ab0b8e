//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"docspace/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideMetrics,
	ProvideTracer,
	ProvideSupabaseClient,
	ProvideRepositories,
	ProvideObjectStore,
	ProvideCacheBackend,
	ProvideCache,
	ProvideRateLimiter,
	ProvideTokenVerifier,
	ProvideHealthChecks,
	ProvideLayoutEngine,
	ProvideAccessGuard,
	ProvideActivityRecorder,
	ProvideGraphCache,
	ProvideTagGenerator,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideLogLevelWatcher,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
