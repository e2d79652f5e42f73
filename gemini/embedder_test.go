package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// newTestClient returns a Gemini client pointed at a fake batchEmbedContents
// endpoint that answers each request with vectors [i, len(requests)].
func newTestClient(t *testing.T, calls *atomic.Int64) *genai.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var body struct {
			Requests []json.RawMessage `json:"requests"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		type embedding struct {
			Values []float32 `json:"values"`
		}
		resp := struct {
			Embeddings []embedding `json:"embeddings"`
		}{}
		for i := range body.Requests {
			resp.Embeddings = append(resp.Embeddings, embedding{Values: []float32{float32(i), float32(len(body.Requests))}})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)
	return client
}

func TestEmbedder_Embed_EmptyInputSkipsRequest(t *testing.T) {
	t.Parallel()

	e := gemini.NewEmbedder(nil, "") // nil client ok for this test

	vecs, err := e.Embed(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, vecs)
	assert.Equal(t, gemini.DefaultModel, e.Model())
}

func TestEmbedder_Embed_RequiresClient(t *testing.T) {
	t.Parallel()

	e := gemini.NewEmbedder(nil, "custom-model")

	_, err := e.Embed(context.Background(), []string{"charge off"})

	require.Error(t, err)
	assert.Equal(t, kbase.EINTERNAL, kbase.ErrorCode(err))
	assert.Equal(t, "custom-model", e.Model())
}

func TestEmbedder_Embed_ReturnsVectorsInOrder(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	e := gemini.NewEmbedder(newTestClient(t, &calls), "")

	vecs, err := e.Embed(context.Background(), []string{"a", "b", "c"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 3}, {1, 3}, {2, 3}}, vecs)
	assert.Equal(t, int64(1), calls.Load())
}

func TestEmbedder_Embed_Batches(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	e := gemini.NewEmbedder(newTestClient(t, &calls), "", gemini.WithDimensions(2))
	texts := make([]string, gemini.MaxBatchSize+5)
	for i := range texts {
		texts[i] = "text"
	}

	vecs, err := e.Embed(context.Background(), texts)

	require.NoError(t, err)
	require.Len(t, vecs, len(texts))
	assert.Equal(t, int64(2), calls.Load())
	assert.Equal(t, []float32{0, gemini.MaxBatchSize}, vecs[0])
	assert.Equal(t, []float32{0, 5}, vecs[gemini.MaxBatchSize])
}
