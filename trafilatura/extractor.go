// Package trafilatura provides the primary readability-style text
// extraction strategy backed by go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/kbase"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements kbase.TextExtractor at compile time.
var _ kbase.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main text of an HTML page.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
			ExcludeTables:  false,
		},
	}
}

// ExtractText returns the main content of rawHTML as plain text with
// boilerplate (navigation, footers, ads) removed.
func (e *Extractor) ExtractText(rawHTML []byte) (string, error) {
	if len(bytes.TrimSpace(rawHTML)) == 0 {
		return "", kbase.Errorf(kbase.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(bytes.NewReader(rawHTML), e.opts)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}

	return strings.TrimSpace(result.ContentText), nil
}
