package kbase

import "context"

// Embedder maps texts to fixed-size numeric vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	// All vectors share the same dimension.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
