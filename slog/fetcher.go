package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/kbase"
)

// Ensure LoggingFetcher implements kbase.Fetcher.
var _ kbase.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging. Successful fetches log at
// debug level, failures at warn.
type LoggingFetcher struct {
	next   kbase.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next kbase.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *kbase.Response, err error) {
	defer func(begin time.Time) {
		if err != nil {
			f.logger.Warn("fetch",
				"url", url,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		f.logger.Debug("fetch",
			"url", url,
			"status", resp.StatusCode,
			"content_type", resp.ContentType,
			"bytes", len(resp.Body),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
