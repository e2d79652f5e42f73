package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/kbase"
)

// maxSitemapDepth bounds how many sitemap index levels are followed.
const maxSitemapDepth = 3

// Ensure SitemapService implements kbase.SitemapService.
var _ kbase.SitemapService = (*SitemapService)(nil)

// SitemapService discovers page URLs from a site's sitemaps. It is used to
// seed a crawl with pages that are not reachable by links.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a SitemapService. If client is nil,
// http.DefaultClient is used.
func NewSitemapService(client *http.Client, userAgent string) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, userAgent: userAgent}
}

// DiscoverURLs returns the deduplicated page URLs listed by the sitemaps of
// baseURL's host. Sitemaps are taken from robots.txt "Sitemap:" lines,
// else /sitemap.xml. Returns an empty slice (not nil) when the site has
// none.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, kbase.Errorf(kbase.EINVALID, "invalid base URL: %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps := s.sitemapsFromRobots(ctx, root.ResolveReference(&url.URL{Path: "/robots.txt"}).String())
	if len(sitemaps) == 0 {
		sitemaps = []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}
	}

	urls := []string{}
	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)
	for _, sm := range sitemaps {
		found, err := s.processSitemap(ctx, sm, seenSitemaps, 0)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if kbase.ErrorCode(err) == kbase.ENOTFOUND {
				continue
			}
			return nil, err
		}
		for _, u := range found {
			if !seenURLs[u] {
				seenURLs[u] = true
				urls = append(urls, u)
			}
		}
	}
	return urls, nil
}

// sitemapsFromRobots extracts Sitemap: directives from robots.txt. A
// missing or unreadable robots.txt yields none.
func (s *SitemapService) sitemapsFromRobots(ctx context.Context, robotsURL string) []string {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > len("sitemap:") && strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
			if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
				sitemaps = append(sitemaps, u)
			}
		}
	}
	return sitemaps
}

// processSitemap fetches and parses a urlset or sitemapindex document.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool, depth int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] || depth > maxSitemapDepth {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, kbase.Errorf(kbase.EINVALID, "parse sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, kbase.Errorf(kbase.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag != "sitemapindex" {
		return locs(root, "url"), nil
	}

	var urls []string
	for _, child := range locs(root, "sitemap") {
		found, err := s.processSitemap(ctx, child, seen, depth+1)
		if err != nil {
			if kbase.ErrorCode(err) == kbase.ENOTFOUND {
				continue
			}
			return nil, err
		}
		urls = append(urls, found...)
	}
	return urls, nil
}

// locs returns the trimmed <loc> text of every tag child of root.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// get fetches targetURL. 404 and 410 are ENOTFOUND; other failures are
// EFETCH.
func (s *SitemapService) get(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, kbase.Errorf(kbase.EFETCH, "GET %s: %v", targetURL, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		resp.Body.Close()
		return nil, kbase.Errorf(kbase.ENOTFOUND, "no sitemap at %s", targetURL)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, kbase.Errorf(kbase.EFETCH, "HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return resp.Body, nil
}
