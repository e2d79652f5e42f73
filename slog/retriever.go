package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/kbase"
)

// Ensure LoggingCorpusService implements kbase.CorpusService.
var _ kbase.CorpusService = (*LoggingCorpusService)(nil)

// LoggingCorpusService wraps a CorpusService with logging of queries and
// reloads.
type LoggingCorpusService struct {
	next   kbase.CorpusService
	logger *slog.Logger
}

// NewLoggingCorpusService creates a new LoggingCorpusService.
func NewLoggingCorpusService(next kbase.CorpusService, logger *slog.Logger) *LoggingCorpusService {
	return &LoggingCorpusService{next: next, logger: logger}
}

// Retrieve delegates to the wrapped service and logs the query.
func (s *LoggingCorpusService) Retrieve(ctx context.Context, query string, topK int) (result *kbase.RetrievalResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"query", query,
			"top_k", topK,
			"duration", time.Since(begin),
			"err", err,
		}
		if result != nil {
			attrs = append(attrs, "results", result.Len())
			if result.Len() > 0 {
				attrs = append(attrs, "top_source", result.Citations[0].Source)
			}
		}
		s.logger.Info("retrieve", attrs...)
	}(time.Now())
	return s.next.Retrieve(ctx, query, topK)
}

// Reload delegates to the wrapped service and logs the new corpus size.
func (s *LoggingCorpusService) Reload(ctx context.Context) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("reload",
			"documents", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Reload(ctx)
}

// Len delegates to the wrapped service.
func (s *LoggingCorpusService) Len() int {
	return s.next.Len()
}
