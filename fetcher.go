package kbase

import "context"

// Response is a successfully fetched resource.
type Response struct {
	URL          string
	StatusCode   int
	ContentType  string
	LastModified string // Last-Modified header, empty when absent
	Body         []byte
}

// Fetcher retrieves resources over the network.
type Fetcher interface {
	// Fetch issues a GET for the URL and returns the response.
	// Network failures and HTTP statuses >= 400 return an EFETCH error.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases resources held by the fetcher.
	Close() error
}
