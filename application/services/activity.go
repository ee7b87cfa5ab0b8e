package services

import (
	"context"
	"time"

	"docspace/application/ports"
	"docspace/domain/core/entities"
	"docspace/pkg/observability"

	"go.uber.org/zap"
)

// ActivityRecorder writes audit entries after successful mutations. Failures
// are logged and counted, never returned.
type ActivityRecorder struct {
	log     ports.ActivityLog
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewActivityRecorder creates a recorder. A nil log disables recording.
func NewActivityRecorder(log ports.ActivityLog, metrics *observability.Collector, logger *zap.Logger) *ActivityRecorder {
	return &ActivityRecorder{log: log, metrics: metrics, logger: logger}
}

// Record stores one entry and counts the mutation.
func (r *ActivityRecorder) Record(ctx context.Context, entry entities.ActivityEntry) {
	if r.metrics != nil {
		r.metrics.RecordMutation(entry.ResourceType, entry.Action)
	}
	if r.log == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := r.log.Record(ctx, entry); err != nil {
		if r.metrics != nil {
			r.metrics.ActivityFails.Inc()
		}
		r.logger.Warn("Failed to record activity",
			zap.String("workspace_id", entry.WorkspaceID),
			zap.String("action", entry.Action),
			zap.String("resource_type", entry.ResourceType),
			zap.String("resource_id", entry.ResourceID),
			zap.Error(err),
		)
	}
}
