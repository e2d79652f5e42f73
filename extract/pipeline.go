// Package extract implements the content extraction chain used by the
// crawler: PDF documents go to the PDF extractor, HTML pages go through the
// configured strategies in order until one yields text.
package extract

import (
	"strings"

	"github.com/fwojciec/kbase"
)

// Ensure Pipeline implements kbase.Extractor at compile time.
var _ kbase.Extractor = (*Pipeline)(nil)

// Pipeline dispatches on the URL and runs a fallback chain of strategies.
type Pipeline struct {
	PDF  kbase.TextExtractor
	HTML []kbase.TextExtractor

	// OnError, when set, receives strategy failures. Failures never reach
	// the caller of Extract.
	OnError func(url string, strategy int, err error)
}

// NewPipeline creates a Pipeline. html strategies are tried in order.
func NewPipeline(pdf kbase.TextExtractor, html ...kbase.TextExtractor) *Pipeline {
	return &Pipeline{PDF: pdf, HTML: html}
}

// Extract returns the plain text of body, or "" when no strategy yields
// any. A ".pdf" URL is only ever handed to the PDF extractor.
func (p *Pipeline) Extract(url string, body []byte) string {
	if kbase.IsPDFURL(url) {
		if p.PDF == nil {
			return ""
		}
		return p.run(url, 0, p.PDF, body)
	}

	for i, strategy := range p.HTML {
		if text := p.run(url, i, strategy, body); text != "" {
			return text
		}
	}
	return ""
}

func (p *Pipeline) run(url string, i int, ext kbase.TextExtractor, body []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			p.report(url, i, kbase.Errorf(kbase.EINTERNAL, "extractor panic: %v", r))
			text = ""
		}
	}()

	text, err := ext.ExtractText(body)
	if err != nil {
		p.report(url, i, err)
		return ""
	}
	return strings.TrimSpace(text)
}

func (p *Pipeline) report(url string, i int, err error) {
	if p.OnError != nil {
		p.OnError(url, i, err)
	}
}
