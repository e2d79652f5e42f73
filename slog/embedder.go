package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/kbase"
)

// Ensure LoggingEmbedder implements kbase.Embedder.
var _ kbase.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with logging.
type LoggingEmbedder struct {
	next   kbase.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next kbase.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed delegates to the wrapped embedder and logs the operation.
func (e *LoggingEmbedder) Embed(ctx context.Context, texts []string) (vecs [][]float32, err error) {
	defer func(begin time.Time) {
		dims := 0
		if len(vecs) > 0 {
			dims = len(vecs[0])
		}
		e.logger.Debug("embed",
			"texts", len(texts),
			"dims", dims,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Embed(ctx, texts)
}
