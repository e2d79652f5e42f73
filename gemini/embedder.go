// Package gemini implements kbase.Embedder on the Google Gemini embedding
// API.
package gemini

import (
	"context"

	"github.com/fwojciec/kbase"
	"google.golang.org/genai"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "gemini-embedding-001"

// MaxBatchSize is the largest number of texts sent in one request.
const MaxBatchSize = 100

// Ensure Embedder implements kbase.Embedder at compile time.
var _ kbase.Embedder = (*Embedder)(nil)

// Embedder implements kbase.Embedder using Google Gemini.
type Embedder struct {
	client     *genai.Client
	model      string
	dimensions int32
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithDimensions truncates returned vectors to n dimensions server-side.
func WithDimensions(n int32) Option {
	return func(e *Embedder) {
		e.dimensions = n
	}
}

// NewEmbedder creates a new Embedder. An empty model selects DefaultModel.
func NewEmbedder(client *genai.Client, model string, opts ...Option) *Embedder {
	if model == "" {
		model = DefaultModel
	}
	e := &Embedder{client: client, model: model}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Model returns the model name, used to key cached vectors.
func (e *Embedder) Model() string {
	return e.model
}

// Embed returns one vector per text, sending at most MaxBatchSize texts
// per request.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if e.client == nil {
		return nil, kbase.Errorf(kbase.EINTERNAL, "gemini client not configured")
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += MaxBatchSize {
		batch := texts[start:min(start+MaxBatchSize, len(texts))]
		vecs, err := e.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *Embedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, e.config())
	if err != nil {
		return nil, kbase.Errorf(kbase.EFETCH, "gemini embed: %v", err)
	}
	if result == nil {
		return nil, kbase.Errorf(kbase.EINTERNAL, "gemini returned nil result")
	}
	if len(result.Embeddings) != len(texts) {
		return nil, kbase.Errorf(kbase.EINTERNAL, "gemini returned %d embeddings for %d texts", len(result.Embeddings), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, kbase.Errorf(kbase.EINTERNAL, "gemini returned empty embedding %d", i)
		}
		vecs[i] = emb.Values
	}
	return vecs, nil
}

// config returns the EmbedContentConfig for Gemini API calls.
func (e *Embedder) config() *genai.EmbedContentConfig {
	cfg := &genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"}
	if e.dimensions > 0 {
		dims := e.dimensions
		cfg.OutputDimensionality = &dims
	}
	return cfg
}
