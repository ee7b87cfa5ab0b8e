package services

import (
	"context"

	"docspace/application/ports"
	domainservices "docspace/domain/services"
	"docspace/pkg/observability"

	"go.uber.org/zap"
)

// TagSuggester asks the remote tag service first and falls back to local
// keyword extraction when it is missing, failing or returns nothing usable.
type TagSuggester struct {
	remote  ports.TagGenerator
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewTagSuggester creates a suggester. remote may be nil.
func NewTagSuggester(remote ports.TagGenerator, metrics *observability.Collector, logger *zap.Logger) *TagSuggester {
	return &TagSuggester{remote: remote, metrics: metrics, logger: logger}
}

// GenerateTags implements ports.TagGenerator. It only fails when ctx is done.
func (s *TagSuggester) GenerateTags(ctx context.Context, content, fileName string) ([]string, error) {
	if s.remote != nil {
		tags, err := s.remote.GenerateTags(ctx, content, fileName)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("Tag service failed, using keyword extraction", zap.Error(err))
		default:
			if cleaned := domainservices.CleanTags(tags); len(cleaned) > 0 {
				return cleaned, nil
			}
			s.logger.Debug("Tag service returned no usable tags, using keyword extraction")
		}
	}

	if s.metrics != nil {
		s.metrics.TagFallbacks.Inc()
	}
	return domainservices.SuggestTags(content, fileName), nil
}
