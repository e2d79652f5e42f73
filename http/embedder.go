package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/kbase"
)

// Ensure Embedder implements kbase.Embedder at compile time.
var _ kbase.Embedder = (*Embedder)(nil)

// Embedder calls a remote embedding service that speaks the POST /embed
// contract served by Server.
type Embedder struct {
	client  *http.Client
	baseURL string
}

// NewEmbedder creates an Embedder for the service at baseURL. If client is
// nil, http.DefaultClient is used.
func NewEmbedder(client *http.Client, baseURL string) *Embedder {
	if client == nil {
		client = http.DefaultClient
	}
	return &Embedder{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Embed posts texts to {baseURL}/embed and returns one vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	body, err := json.Marshal(EmbedRequest{Texts: texts})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, kbase.Errorf(kbase.EINVALID, "invalid embedding service URL: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, kbase.Errorf(kbase.EFETCH, "embedding service: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, kbase.Errorf(kbase.EFETCH, "embedding service: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out EmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, kbase.Errorf(kbase.EFETCH, "decode embedding response: %v", err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, kbase.Errorf(kbase.EINTERNAL, "embedding service returned %d vectors for %d texts", len(out.Embeddings), len(texts))
	}
	return out.Embeddings, nil
}
