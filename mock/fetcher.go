package mock

import (
	"context"

	"github.com/fwojciec/kbase"
)

var _ kbase.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of kbase.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*kbase.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*kbase.Response, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
