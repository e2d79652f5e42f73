// Package pdf extracts plain text from PDF documents using ledongthuc/pdf.
package pdf

import (
	"bytes"
	"strings"

	"github.com/fwojciec/kbase"
	"github.com/ledongthuc/pdf"
)

// Ensure Extractor implements kbase.TextExtractor at compile time.
var _ kbase.TextExtractor = (*Extractor)(nil)

// Extractor concatenates the text of every page that yields any, in page
// order, separated by newlines.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText parses body as a PDF. Pages without extractable text are
// skipped. Malformed documents return EINVALID.
func (e *Extractor) ExtractText(body []byte) (text string, err error) {
	if len(body) == 0 {
		return "", kbase.Errorf(kbase.EINVALID, "empty PDF input")
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", kbase.Errorf(kbase.EINVALID, "malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", kbase.Errorf(kbase.EINVALID, "open PDF: %v", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		s, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			pages = append(pages, s)
		}
	}

	return strings.Join(pages, "\n"), nil
}

