package corpus

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/fwojciec/kbase"
)

// Score blend weights.
const (
	SemanticWeight = 0.7
	LexicalWeight  = 0.3
)

// Snapshot is an immutable corpus: documents and their unit-normalized
// embeddings, row i belonging to document i. The zero Snapshot is the
// empty corpus.
type Snapshot struct {
	docs    []*kbase.CorpusDocument
	vectors [][]float32
	dim     int
}

// NewSnapshot builds a Snapshot, normalizing every vector. It fails if the
// row count differs from the document count or the rows differ in length.
func NewSnapshot(docs []*kbase.CorpusDocument, vectors [][]float32) (*Snapshot, error) {
	if len(docs) != len(vectors) {
		return nil, kbase.Errorf(kbase.EINTERNAL, "corpus has %d documents but %d embeddings", len(docs), len(vectors))
	}
	s := &Snapshot{
		docs:    slices.Clone(docs),
		vectors: make([][]float32, len(vectors)),
	}
	for i, v := range vectors {
		if i == 0 {
			s.dim = len(v)
		} else if len(v) != s.dim {
			return nil, kbase.Errorf(kbase.EINTERNAL, "embedding %d has %d dimensions, want %d", i, len(v), s.dim)
		}
		s.vectors[i] = kbase.Normalize(v)
	}
	return s, nil
}

// Len returns the number of documents.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.docs)
}

// Dim returns the embedding dimension, 0 for an empty corpus.
func (s *Snapshot) Dim() int {
	if s == nil {
		return 0
	}
	return s.dim
}

// Document returns document i.
func (s *Snapshot) Document(i int) *kbase.CorpusDocument {
	return s.docs[i]
}

type candidate struct {
	doc      int
	semantic float64
	overlap  float64
	combined float64
}

// Rank scores the corpus against a query embedding and token set and
// returns up to topK results. Documents are first ordered by semantic
// score, the best min(2*topK, n) kept, then reranked by the blended score.
// Both sorts are stable so ties keep corpus order.
func (s *Snapshot) Rank(query []float32, queryTokens kbase.TokenSet, topK int) (*kbase.RetrievalResult, error) {
	result := emptyResult()
	n := s.Len()
	if n == 0 || topK <= 0 {
		return result, nil
	}
	topK = min(topK, n)
	if len(query) != s.dim {
		return nil, kbase.Errorf(kbase.EINVALID, "query embedding has %d dimensions, corpus has %d", len(query), s.dim)
	}
	q := kbase.Normalize(query)

	cands := make([]candidate, n)
	for i := range n {
		cands[i] = candidate{doc: i, semantic: kbase.Dot(s.vectors[i], q)}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(b.semantic, a.semantic)
	})

	cands = cands[:min(2*topK, n)]
	for i := range cands {
		c := &cands[i]
		c.overlap = Overlap(queryTokens, s.docs[c.doc].Tokens)
		c.combined = SemanticWeight*c.semantic + LexicalWeight*c.overlap
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(b.combined, a.combined)
	})

	for _, c := range cands[:min(topK, len(cands))] {
		doc := s.docs[c.doc]
		result.Contexts = append(result.Contexts, FormatContext(doc))
		result.Citations = append(result.Citations, kbase.Citation{
			Source:   doc.Path,
			Score:    Round6(c.combined),
			Semantic: Round6(c.semantic),
			Overlap:  Round6(c.overlap),
		})
	}
	return result, nil
}

// Overlap is |q ∩ d| / sqrt(|q|), or 0 when either set is empty. It is
// normalized by the query size only.
func Overlap(q, d kbase.TokenSet) float64 {
	if len(q) == 0 || len(d) == 0 {
		return 0
	}
	return float64(q.Intersect(d)) / math.Sqrt(float64(len(q)))
}

// Round6 rounds x to 6 decimal places.
func Round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}

// FormatContext renders a document as "[path] text".
func FormatContext(doc *kbase.CorpusDocument) string {
	return fmt.Sprintf("[%s] %s", doc.Path, doc.Text)
}

func emptyResult() *kbase.RetrievalResult {
	return &kbase.RetrievalResult{Contexts: []string{}, Citations: []kbase.Citation{}}
}
