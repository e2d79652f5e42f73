// Package goquery discovers links and extracts visible text from HTML
// documents using goquery and golang.org/x/net/html.
package goquery

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/kbase"
)

// Ensure LinkExtractor implements kbase.LinkExtractor at compile time.
var _ kbase.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor returns every http(s) hyperlink target of a page resolved
// to an absolute URL. Domain filtering is left to the crawler.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks parses html and returns absolute link targets in document
// order with fragments stripped and duplicates removed.
func (e *LinkExtractor) ExtractLinks(html []byte, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, kbase.Errorf(kbase.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, kbase.Errorf(kbase.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href], area[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.TrimSpace(href) == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL resolves href against base and strips the fragment. Returns
// "" for unparseable references and non-http(s) results.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host == "" {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
