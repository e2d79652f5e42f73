package mock

import "github.com/fwojciec/kbase"

var _ kbase.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of kbase.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html []byte, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html []byte, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}
