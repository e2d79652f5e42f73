package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/kbase"
	kbasehttp "github.com/fwojciec/kbase/http"
	"github.com/fwojciec/kbase/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Retrieve(t *testing.T) {
	t.Parallel()

	t.Run("returns contexts and citations", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		var gotTopK int
		corpus := &mock.CorpusService{
			RetrieveFn: func(_ context.Context, query string, topK int) (*kbase.RetrievalResult, error) {
				gotQuery, gotTopK = query, topK
				return &kbase.RetrievalResult{
					Contexts:  []string{"[a.md] A charge-off is a debt the creditor wrote off."},
					Citations: []kbase.Citation{{Source: "a.md", Score: 0.5, Semantic: 0.4, Overlap: 0.7}},
				}, nil
			},
		}
		srv := kbasehttp.NewServer(corpus, nil, nil)

		rec := do(t, srv, http.MethodPost, "/retrieve", `{"query":"What is a charge-off?","top_k":3}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "What is a charge-off?", gotQuery)
		assert.Equal(t, 3, gotTopK)
		assert.JSONEq(t, `{
			"contexts": ["[a.md] A charge-off is a debt the creditor wrote off."],
			"citations": [{"source": "a.md", "score": 0.5, "semantic": 0.4, "overlap": 0.7}]
		}`, rec.Body.String())
	})

	t.Run("defaults top_k", func(t *testing.T) {
		t.Parallel()

		var gotTopK int
		corpus := &mock.CorpusService{
			RetrieveFn: func(_ context.Context, _ string, topK int) (*kbase.RetrievalResult, error) {
				gotTopK = topK
				return &kbase.RetrievalResult{}, nil
			},
		}

		rec := do(t, kbasehttp.NewServer(corpus, nil, nil), http.MethodPost, "/retrieve", `{"query":"q"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, kbasehttp.DefaultTopK, gotTopK)
		assert.JSONEq(t, `{"contexts": [], "citations": []}`, rec.Body.String())
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		rec := do(t, kbasehttp.NewServer(&mock.CorpusService{}, nil, nil), http.MethodPost, "/retrieve", `{"question":"q"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		t.Parallel()

		rec := do(t, kbasehttp.NewServer(&mock.CorpusService{}, nil, nil), http.MethodPost, "/retrieve", `{"query":"  "}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "query is required")
	})

	t.Run("hides internal error details", func(t *testing.T) {
		t.Parallel()

		corpus := &mock.CorpusService{
			RetrieveFn: func(context.Context, string, int) (*kbase.RetrievalResult, error) {
				return nil, errors.New("secret connection string")
			},
		}

		rec := do(t, kbasehttp.NewServer(corpus, nil, nil), http.MethodPost, "/retrieve", `{"query":"q"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("rejects wrong method", func(t *testing.T) {
		t.Parallel()

		rec := do(t, kbasehttp.NewServer(&mock.CorpusService{}, nil, nil), http.MethodGet, "/retrieve", "")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServer_Embed(t *testing.T) {
	t.Parallel()

	t.Run("returns unit-normalized embeddings", func(t *testing.T) {
		t.Parallel()

		emb := &mock.Embedder{EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{3, 4}}, nil
		}}

		rec := do(t, kbasehttp.NewServer(&mock.CorpusService{}, emb, nil), http.MethodPost, "/embed", `{"texts":["hello"]}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp kbasehttp.EmbedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Embeddings, 1)
		assert.InDelta(t, 0.6, resp.Embeddings[0][0], 1e-6)
		assert.InDelta(t, 0.8, resp.Embeddings[0][1], 1e-6)
	})

	t.Run("returns empty list for no texts", func(t *testing.T) {
		t.Parallel()

		rec := do(t, kbasehttp.NewServer(&mock.CorpusService{}, &mock.Embedder{}, nil), http.MethodPost, "/embed", `{"texts":[]}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"embeddings": []}`, rec.Body.String())
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		t.Parallel()

		rec := do(t, kbasehttp.NewServer(&mock.CorpusService{}, &mock.Embedder{}, nil), http.MethodPost, "/embed", `{"texts":"hello"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_ReloadAndHealth(t *testing.T) {
	t.Parallel()

	docs := 0
	corpus := &mock.CorpusService{
		ReloadFn: func(context.Context) (int, error) {
			docs = 7
			return docs, nil
		},
		LenFn: func() int { return docs },
	}
	srv := kbasehttp.NewServer(corpus, nil, nil)

	rec := do(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","documents":0}`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","documents":7}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"ok","documents":7}`, rec.Body.String())
}
