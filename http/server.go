package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/kbase"
)

// DefaultTopK is used when a retrieve request omits top_k.
const DefaultTopK = 5

// maxRequestBody caps the size of a decoded request body.
const maxRequestBody = 8 << 20

// RetrieveRequest is the body of POST /retrieve.
type RetrieveRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

// EmbedRequest is the body of POST /embed.
type EmbedRequest struct {
	Texts []string `json:"texts"`
}

// EmbedResponse is the body returned by POST /embed.
type EmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// HealthResponse is the body returned by GET /health and POST /reload.
type HealthResponse struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
}

// Server exposes the retrieval engine and embedder over HTTP.
type Server struct {
	Corpus   kbase.CorpusService
	Embedder kbase.Embedder
	Logger   *slog.Logger

	mux *http.ServeMux
}

// NewServer creates a Server and registers its routes.
func NewServer(corpus kbase.CorpusService, embedder kbase.Embedder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		Corpus:   corpus,
		Embedder: embedder,
		Logger:   logger,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /retrieve", s.handleRetrieve)
	s.mux.HandleFunc("POST /embed", s.handleEmbed)
	s.mux.HandleFunc("POST /reload", s.handleReload)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.withLogging(s.mux).ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.errorResponse(w, r, kbase.Errorf(kbase.EINVALID, "query is required"))
		return
	}
	topK := DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	result, err := s.Corpus.Retrieve(r.Context(), req.Query, topK)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if result == nil {
		result = &kbase.RetrievalResult{}
	}
	if result.Contexts == nil {
		result.Contexts = []string{}
	}
	if result.Citations == nil {
		result.Citations = []kbase.Citation{}
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	var req EmbedRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	resp := EmbedResponse{Embeddings: [][]float32{}}
	if len(req.Texts) > 0 {
		vecs, err := s.Embedder.Embed(r.Context(), req.Texts)
		if err != nil {
			s.errorResponse(w, r, err)
			return
		}
		for _, v := range vecs {
			resp.Embeddings = append(resp.Embeddings, kbase.Normalize(v))
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	n, err := s.Corpus.Reload(r.Context())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, HealthResponse{Status: "ok", Documents: n})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{Status: "ok", Documents: s.Corpus.Len()})
}

// decodeJSON decodes a single JSON object from the request body, rejecting
// unknown fields and trailing data.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return kbase.Errorf(kbase.EINVALID, "invalid request body: %v", err)
	}
	if dec.More() {
		return kbase.Errorf(kbase.EINVALID, "invalid request body: trailing data")
	}
	return nil
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.Logger.Error("encode response", "err", err)
	}
}

// errorResponse maps application error codes to HTTP statuses. Internal
// errors are logged and reported without detail.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := kbase.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case kbase.EINVALID:
		status = http.StatusBadRequest
	case kbase.ENOTFOUND:
		status = http.StatusNotFound
	case kbase.EFETCH:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.jsonResponse(w, status, map[string]string{"error": kbase.ErrorMessage(err)})
}
