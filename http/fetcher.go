// Package http provides the network-facing implementations: a plain GET
// fetcher for the crawler, sitemap discovery, a remote embedding client and
// the retrieval service.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/kbase"
)

// DefaultMaxBodySize is the largest response body accepted.
const DefaultMaxBodySize = 32 << 20

// Ensure Fetcher implements kbase.Fetcher at compile time.
var _ kbase.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves resources with plain HTTP GET requests. JavaScript is
// never executed.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to kbase.DefaultRequestTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the largest accepted body. Larger responses fail
// with EFETCH.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithClient replaces the underlying HTTP client. The timeout option is
// ignored when a client is supplied.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     kbase.DefaultRequestTimeout,
		userAgent:   kbase.DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch issues a GET for url. Transport failures and statuses >= 400 are
// returned as EFETCH errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*kbase.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, kbase.Errorf(kbase.EFETCH, "build request for %s: %v", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, kbase.Errorf(kbase.EFETCH, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, kbase.Errorf(kbase.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	// One byte past the limit detects an oversized body.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, kbase.Errorf(kbase.EFETCH, "read body of %s: %v", url, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, kbase.Errorf(kbase.EFETCH, "body of %s exceeds %d bytes", url, f.maxBodySize)
	}

	return &kbase.Response{
		URL:          resp.Request.URL.String(),
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		Body:         body,
	}, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
