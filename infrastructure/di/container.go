package di

import (
	"docspace/application/commands/bus"
	querybus "docspace/application/queries/bus"
	"docspace/infrastructure/config"
	"docspace/pkg/auth"
	"docspace/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	LogLevel    zap.AtomicLevel
	Metrics     *observability.Collector
	Tracer      *observability.Tracer
	CommandBus  *bus.CommandBus
	QueryBus    *querybus.QueryBus
	Verifier    auth.TokenVerifier
	RateLimiter auth.RateLimiter
	Health      HealthChecks

	// nil when no config file is in use
	LogWatcher *config.LogLevelWatcher
}
