// Package readability provides a secondary text extraction strategy backed
// by go-readability.
package readability

import (
	"bytes"
	"strings"

	"github.com/fwojciec/kbase"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements kbase.TextExtractor at compile time.
var _ kbase.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main content from HTML.
// When a Converter is set, the cleaned article HTML is rendered as Markdown
// so headings and lists survive; otherwise the article text is returned.
type Extractor struct {
	Converter kbase.Converter
}

// NewExtractor creates a new Extractor. conv may be nil.
func NewExtractor(conv kbase.Converter) *Extractor {
	return &Extractor{Converter: conv}
}

// ExtractText processes raw HTML and returns the article content.
func (e *Extractor) ExtractText(rawHTML []byte) (string, error) {
	if len(bytes.TrimSpace(rawHTML)) == 0 {
		return "", kbase.Errorf(kbase.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(bytes.NewReader(rawHTML), nil)
	if err != nil {
		return "", err
	}

	if e.Converter != nil && strings.TrimSpace(article.Content) != "" {
		markdown, err := e.Converter.Convert(article.Content)
		if err == nil && strings.TrimSpace(markdown) != "" {
			return strings.TrimSpace(markdown), nil
		}
	}

	return strings.TrimSpace(article.TextContent), nil
}
