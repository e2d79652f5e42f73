package kbase

import "context"

// MinDocumentChars is the floor below which a paragraph is treated as
// boilerplate and dropped at load time.
const MinDocumentChars = 40

// CorpusDocument is a paragraph loaded from a chunk file.
type CorpusDocument struct {
	Path   string // relative to the knowledge root it was found under
	Text   string
	Tokens TokenSet
}

// DocumentLoader builds the ordered document list of a corpus.
type DocumentLoader interface {
	// LoadDocuments walks the knowledge roots and returns every retained
	// paragraph. Missing roots yield no documents rather than an error.
	LoadDocuments(ctx context.Context) ([]*CorpusDocument, error)
}

// Citation carries provenance and score breakdown for a retrieved context.
// Scores are rounded to 6 decimal places.
type Citation struct {
	Source   string  `json:"source"`
	Score    float64 `json:"score"`
	Semantic float64 `json:"semantic"`
	Overlap  float64 `json:"overlap"`
}

// RetrievalResult is a ranked list of contexts with parallel citations.
type RetrievalResult struct {
	Contexts  []string   `json:"contexts"`
	Citations []Citation `json:"citations"`
}

// Len returns the number of ranked results.
func (r *RetrievalResult) Len() int {
	return len(r.Contexts)
}

// Retriever answers retrieval queries against a corpus.
type Retriever interface {
	// Retrieve returns up to topK results ranked by combined score.
	// An empty corpus or a non-positive topK yields an empty result.
	Retrieve(ctx context.Context, query string, topK int) (*RetrievalResult, error)
}

// CorpusService is a Retriever whose corpus can be rebuilt while serving.
type CorpusService interface {
	Retriever

	// Reload rebuilds the corpus from its knowledge roots and swaps it in.
	// It returns the number of documents in the new corpus.
	Reload(ctx context.Context) (int, error)

	// Len returns the number of documents in the current corpus.
	Len() int
}
