package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/kbase"
)

// Ensure LoggingChunkWriter implements kbase.ChunkWriter.
var _ kbase.ChunkWriter = (*LoggingChunkWriter)(nil)

// LoggingChunkWriter wraps a ChunkWriter with logging.
type LoggingChunkWriter struct {
	next   kbase.ChunkWriter
	logger *slog.Logger
}

// NewLoggingChunkWriter creates a new LoggingChunkWriter.
func NewLoggingChunkWriter(next kbase.ChunkWriter, logger *slog.Logger) *LoggingChunkWriter {
	return &LoggingChunkWriter{next: next, logger: logger}
}

// WriteChunks delegates to the wrapped writer and logs the operation.
func (w *LoggingChunkWriter) WriteChunks(ctx context.Context, batch *kbase.ChunkBatch) (chunks []*kbase.Chunk, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelError
		}
		w.logger.Log(ctx, level, "write chunks",
			"source", batch.SourceName,
			"url", batch.Header.SourceURL,
			"count", len(chunks),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteChunks(ctx, batch)
}
