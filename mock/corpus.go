package mock

import (
	"context"

	"github.com/fwojciec/kbase"
)

var (
	_ kbase.DocumentLoader = (*DocumentLoader)(nil)
	_ kbase.Retriever      = (*Retriever)(nil)
)

// DocumentLoader is a mock implementation of kbase.DocumentLoader.
type DocumentLoader struct {
	LoadDocumentsFn func(ctx context.Context) ([]*kbase.CorpusDocument, error)
}

func (l *DocumentLoader) LoadDocuments(ctx context.Context) ([]*kbase.CorpusDocument, error) {
	return l.LoadDocumentsFn(ctx)
}

// Retriever is a mock implementation of kbase.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, query string, topK int) (*kbase.RetrievalResult, error)
}

func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) (*kbase.RetrievalResult, error) {
	return r.RetrieveFn(ctx, query, topK)
}

var _ kbase.CorpusService = (*CorpusService)(nil)

// CorpusService is a mock implementation of kbase.CorpusService.
type CorpusService struct {
	RetrieveFn func(ctx context.Context, query string, topK int) (*kbase.RetrievalResult, error)
	ReloadFn   func(ctx context.Context) (int, error)
	LenFn      func() int
}

func (s *CorpusService) Retrieve(ctx context.Context, query string, topK int) (*kbase.RetrievalResult, error) {
	return s.RetrieveFn(ctx, query, topK)
}

func (s *CorpusService) Reload(ctx context.Context) (int, error) {
	return s.ReloadFn(ctx)
}

func (s *CorpusService) Len() int {
	return s.LenFn()
}
