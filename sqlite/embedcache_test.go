package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/mock"
	"github.com/fwojciec/kbase/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

// recordingEmbedder embeds text as [len(text), -1.5] and records every
// batch it receives.
func recordingEmbedder(batches *[][]string) *mock.Embedder {
	return &mock.Embedder{EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
		*batches = append(*batches, texts)
		out := make([][]float32, len(texts))
		for i, t := range texts {
			out[i] = []float32{float32(len(t)), -1.5}
		}
		return out, nil
	}}
}

func TestEmbeddingCache_Embed(t *testing.T) {
	t.Parallel()

	t.Run("serves repeated texts from the cache", func(t *testing.T) {
		t.Parallel()

		var batches [][]string
		cache := sqlite.NewEmbeddingCache(openDB(t), recordingEmbedder(&batches), "test-model")
		ctx := context.Background()

		first, err := cache.Embed(ctx, []string{"charge off", "hard inquiry"})
		require.NoError(t, err)
		second, err := cache.Embed(ctx, []string{"hard inquiry", "charge off"})
		require.NoError(t, err)

		assert.Equal(t, [][]float32{{10, -1.5}, {12, -1.5}}, first)
		assert.Equal(t, [][]float32{{12, -1.5}, {10, -1.5}}, second)
		assert.Equal(t, [][]string{{"charge off", "hard inquiry"}}, batches)

		n, err := cache.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("embeds only misses", func(t *testing.T) {
		t.Parallel()

		var batches [][]string
		cache := sqlite.NewEmbeddingCache(openDB(t), recordingEmbedder(&batches), "test-model")
		ctx := context.Background()

		_, err := cache.Embed(ctx, []string{"a"})
		require.NoError(t, err)
		vecs, err := cache.Embed(ctx, []string{"a", "bb", "a", "bb"})
		require.NoError(t, err)

		assert.Equal(t, [][]float32{{1, -1.5}, {2, -1.5}, {1, -1.5}, {2, -1.5}}, vecs)
		assert.Equal(t, [][]string{{"a"}, {"bb"}}, batches)
	})

	t.Run("keeps models apart", func(t *testing.T) {
		t.Parallel()

		db := openDB(t)
		var batches [][]string
		ctx := context.Background()

		_, err := sqlite.NewEmbeddingCache(db, recordingEmbedder(&batches), "model-a").Embed(ctx, []string{"x"})
		require.NoError(t, err)
		_, err = sqlite.NewEmbeddingCache(db, recordingEmbedder(&batches), "model-b").Embed(ctx, []string{"x"})
		require.NoError(t, err)

		assert.Len(t, batches, 2)
	})

	t.Run("persists across reopen", func(t *testing.T) {
		t.Parallel()

		path := t.TempDir() + "/cache.db"
		var batches [][]string
		ctx := context.Background()

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := sqlite.NewEmbeddingCache(db, recordingEmbedder(&batches), "m").Embed(ctx, []string{"persist me"})
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()
		vecs, err := sqlite.NewEmbeddingCache(db, recordingEmbedder(&batches), "m").Embed(ctx, []string{"persist me"})
		require.NoError(t, err)

		assert.Equal(t, [][]float32{{10, -1.5}}, vecs)
		assert.Len(t, batches, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		var batches [][]string
		cache := sqlite.NewEmbeddingCache(openDB(t), recordingEmbedder(&batches), "m")

		vecs, err := cache.Embed(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, vecs)
		assert.Empty(t, batches)
	})

	t.Run("propagates embedder error without caching", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Embedder{EmbedFn: func(context.Context, []string) ([][]float32, error) {
			return nil, errors.New("quota exceeded")
		}}
		cache := sqlite.NewEmbeddingCache(openDB(t), inner, "m")

		_, err := cache.Embed(context.Background(), []string{"x"})
		require.EqualError(t, err, "quota exceeded")

		n, err := cache.Count(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("rejects short embedder response", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Embedder{EmbedFn: func(context.Context, []string) ([][]float32, error) {
			return [][]float32{{1}}, nil
		}}
		cache := sqlite.NewEmbeddingCache(openDB(t), inner, "m")

		_, err := cache.Embed(context.Background(), []string{"x", "y"})

		require.Error(t, err)
		assert.Equal(t, kbase.EINTERNAL, kbase.ErrorCode(err))
	})
}
