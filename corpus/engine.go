// Package corpus holds the in-memory knowledge corpus and the hybrid
// retrieval engine that ranks it by blended semantic and lexical scores.
package corpus

import (
	"context"
	"sync/atomic"

	"github.com/fwojciec/kbase"
	"golang.org/x/sync/singleflight"
)

// Ensure Engine implements kbase.CorpusService at compile time.
var _ kbase.CorpusService = (*Engine)(nil)

// Engine serves retrieval from the current Snapshot. Reload builds a new
// snapshot off to the side and swaps it in atomically; queries in flight
// keep the snapshot they started with.
type Engine struct {
	Loader   kbase.DocumentLoader
	Embedder kbase.Embedder

	snap  atomic.Pointer[Snapshot]
	group singleflight.Group
}

// NewEngine creates an Engine serving the empty corpus until Reload.
func NewEngine(loader kbase.DocumentLoader, embedder kbase.Embedder) *Engine {
	e := &Engine{Loader: loader, Embedder: embedder}
	e.snap.Store(&Snapshot{})
	return e
}

// Snapshot returns the current snapshot.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// Len returns the number of documents in the current snapshot.
func (e *Engine) Len() int {
	return e.snap.Load().Len()
}

// Reload rebuilds the corpus and installs it. Concurrent calls share one
// load. On error the previous snapshot stays in place.
func (e *Engine) Reload(ctx context.Context) (int, error) {
	v, err, _ := e.group.Do("reload", func() (any, error) {
		snap, err := e.build(ctx)
		if err != nil {
			return nil, err
		}
		e.snap.Store(snap)
		return snap.Len(), nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// build loads documents and embeds them in one call. An empty document
// list yields the empty snapshot without calling the embedder.
func (e *Engine) build(ctx context.Context) (*Snapshot, error) {
	docs, err := e.Loader.LoadDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return &Snapshot{}, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	vectors, err := e.Embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(docs, vectors)
}

// Retrieve ranks the current snapshot against query. An empty corpus or a
// non-positive topK returns an empty result without embedding the query.
func (e *Engine) Retrieve(ctx context.Context, query string, topK int) (*kbase.RetrievalResult, error) {
	snap := e.snap.Load()
	if snap.Len() == 0 || topK <= 0 {
		return emptyResult(), nil
	}

	vecs, err := e.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, kbase.Errorf(kbase.EINTERNAL, "embedder returned %d vectors for 1 query", len(vecs))
	}
	return snap.Rank(vecs[0], kbase.Tokenize(query), topK)
}
