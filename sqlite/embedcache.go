package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/kbase"
)

// Ensure EmbeddingCache implements kbase.Embedder at compile time.
var _ kbase.Embedder = (*EmbeddingCache)(nil)

// EmbeddingCache wraps an Embedder and stores every vector it returns,
// keyed by model name and text hash. Only texts without a stored vector
// reach the wrapped Embedder.
type EmbeddingCache struct {
	db    *DB
	next  kbase.Embedder
	model string
}

// NewEmbeddingCache creates an EmbeddingCache. model must identify the
// embedding space of next; vectors from different models never mix.
func NewEmbeddingCache(db *DB, next kbase.Embedder, model string) *EmbeddingCache {
	return &EmbeddingCache{db: db, next: next, model: model}
}

// Embed returns one vector per text, embedding cache misses in a single
// call to the wrapped Embedder.
func (c *EmbeddingCache) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	// Misses are deduplicated by hash; pending maps a hash to the output
	// slots waiting for it.
	pending := make(map[string][]int)
	var missTexts, missHashes []string
	for i, text := range texts {
		h := textHash(text)
		if _, ok := pending[h]; ok {
			pending[h] = append(pending[h], i)
			continue
		}
		v, err := c.lookup(ctx, h)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out[i] = v
			continue
		}
		pending[h] = []int{i}
		missTexts = append(missTexts, text)
		missHashes = append(missHashes, h)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.next.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, kbase.Errorf(kbase.EINTERNAL, "embedder returned %d vectors for %d texts", len(vecs), len(missTexts))
	}
	if err := c.store(ctx, missHashes, vecs); err != nil {
		return nil, err
	}
	for j, h := range missHashes {
		for _, i := range pending[h] {
			out[i] = vecs[j]
		}
	}
	return out, nil
}

// Count returns the number of vectors cached for the model.
func (c *EmbeddingCache) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings WHERE model = ?", c.model).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return n, nil
}

// lookup returns the cached vector for hash, or nil when absent.
func (c *EmbeddingCache) lookup(ctx context.Context, hash string) ([]float32, error) {
	var (
		dims int
		blob []byte
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT dimensions, vector FROM embeddings WHERE model = ? AND text_hash = ?",
		c.model, hash,
	).Scan(&dims, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query embedding: %w", err)
	}
	return decodeVector(blob, dims)
}

func (c *EmbeddingCache) store(ctx context.Context, hashes []string, vecs [][]float32) error {
	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, h := range hashes {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO embeddings (model, text_hash, dimensions, vector, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, c.model, h, len(vecs[i]), encodeVector(vecs[i]), now)
		if err != nil {
			return fmt.Errorf("failed to insert embedding: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit embeddings: %w", err)
	}
	return nil
}
