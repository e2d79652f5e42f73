package mock

import (
	"context"

	"github.com/fwojciec/kbase"
)

var _ kbase.ChunkWriter = (*ChunkWriter)(nil)

// ChunkWriter is a mock implementation of kbase.ChunkWriter.
type ChunkWriter struct {
	WriteChunksFn func(ctx context.Context, batch *kbase.ChunkBatch) ([]*kbase.Chunk, error)
}

func (w *ChunkWriter) WriteChunks(ctx context.Context, batch *kbase.ChunkBatch) ([]*kbase.Chunk, error) {
	return w.WriteChunksFn(ctx, batch)
}
