// Package xxhash implements an offline kbase.Embedder that projects text
// into a fixed-size vector with the hashing trick, using xxHash64.
package xxhash

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/kbase"
)

// DefaultDimensions is the vector size used when none is configured.
const DefaultDimensions = 384

// Ensure Embedder implements kbase.Embedder at compile time.
var _ kbase.Embedder = (*Embedder)(nil)

// Embedder hashes every token and adjacent token pair of a text into one
// of Dimensions buckets, adding or subtracting one depending on a hash bit.
// Vectors are unit-normalized. Equal texts always embed identically, and
// texts sharing vocabulary have positive cosine similarity.
type Embedder struct {
	Dimensions int
}

// NewEmbedder returns an Embedder producing dims-sized vectors. A
// non-positive dims selects DefaultDimensions.
func NewEmbedder(dims int) *Embedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Embedder{Dimensions: dims}
}

// Model names the embedding space, used to key cached vectors.
func (e *Embedder) Model() string {
	return fmt.Sprintf("xxhash-%d", e.Dimensions)
}

// Embed returns one vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.Dimensions <= 0 {
		return nil, kbase.Errorf(kbase.EINVALID, "embedding dimensions must be positive")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(text)
	}
	return out, nil
}

func (e *Embedder) embed(text string) []float32 {
	v := make([]float32, e.Dimensions)
	words := kbase.Words(text)
	for i, w := range words {
		e.add(v, w)
		if i > 0 {
			e.add(v, words[i-1]+" "+w)
		}
	}
	return kbase.Normalize(v)
}

func (e *Embedder) add(v []float32, feature string) {
	h := xxhash.Sum64String(feature)
	bucket := int(h % uint64(e.Dimensions))
	if h>>63 == 1 {
		v[bucket]--
	} else {
		v[bucket]++
	}
}
