package mock

import "github.com/fwojciec/kbase"

var (
	_ kbase.Extractor     = (*Extractor)(nil)
	_ kbase.TextExtractor = (*TextExtractor)(nil)
)

// Extractor is a mock implementation of kbase.Extractor.
type Extractor struct {
	ExtractFn func(url string, body []byte) string
}

func (e *Extractor) Extract(url string, body []byte) string {
	return e.ExtractFn(url, body)
}

// TextExtractor is a mock implementation of kbase.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(body []byte) (string, error)
}

func (e *TextExtractor) ExtractText(body []byte) (string, error) {
	return e.ExtractTextFn(body)
}
