package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/gemini"
	kbhttp "github.com/fwojciec/kbase/http"
	kslog "github.com/fwojciec/kbase/slog"
	"github.com/fwojciec/kbase/sqlite"
	"github.com/fwojciec/kbase/xxhash"
	"google.golang.org/genai"
)

// Environment variables selecting and configuring the embedder.
const (
	EmbedderEnv   = "KBASE_EMBEDDER"
	EmbedModelEnv = "KBASE_EMBED_MODEL"
	EmbedURLEnv   = "KBASE_EMBED_URL"
	CacheDBEnv    = "KBASE_CACHE_DB"
	GeminiKeyEnv  = "GEMINI_API_KEY"
)

// openEmbedder builds the embedder named by KBASE_EMBEDDER (default
// "hash"), wrapped in a SQLite cache when KBASE_CACHE_DB is set.
func (m *Main) openEmbedder(ctx context.Context, logger *slog.Logger) (kbase.Embedder, error) {
	var (
		embedder kbase.Embedder
		model    string
	)
	switch kind := strings.ToLower(strings.TrimSpace(m.Getenv(EmbedderEnv))); kind {
	case "", "hash":
		e := xxhash.NewEmbedder(0)
		embedder, model = e, e.Model()
	case "gemini":
		apiKey := m.Getenv(GeminiKeyEnv)
		if apiKey == "" {
			return nil, kbase.Errorf(kbase.EINVALID, "%s not set. Get a key at https://aistudio.google.com/apikey", GeminiKeyEnv)
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		e := gemini.NewEmbedder(client, m.Getenv(EmbedModelEnv))
		embedder, model = e, "gemini:"+e.Model()
	case "http":
		url := m.Getenv(EmbedURLEnv)
		if url == "" {
			return nil, kbase.Errorf(kbase.EINVALID, "%s not set", EmbedURLEnv)
		}
		embedder, model = kbhttp.NewEmbedder(nil, url), "http:"+url
	default:
		return nil, kbase.Errorf(kbase.EINVALID, "unknown embedder %q", kind)
	}

	if path := m.Getenv(CacheDBEnv); path != "" {
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			return nil, fmt.Errorf("failed to open embedding cache at %q: %w", path, err)
		}
		embedder = sqlite.NewEmbeddingCache(m.DB, embedder, model)
	}

	logger.Debug("embedder", "model", model)
	return kslog.NewLoggingEmbedder(embedder, logger), nil
}
