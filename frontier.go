package kbase

import "context"

// TaskState is the lifecycle state of a CrawlTask.
//
//	queued → skipped
//	queued → fetched → expanded
type TaskState int

// Crawl task states.
const (
	TaskQueued TaskState = iota
	TaskFetched
	TaskSkipped
	TaskExpanded
)

// String returns the state name.
func (s TaskState) String() string {
	switch s {
	case TaskQueued:
		return "queued"
	case TaskFetched:
		return "fetched"
	case TaskSkipped:
		return "skipped"
	case TaskExpanded:
		return "expanded"
	default:
		return "unknown"
	}
}

// SkipReason records why a task was dropped without producing content.
type SkipReason string

// Skip reasons.
const (
	SkipNone        SkipReason = ""
	SkipVisited     SkipReason = "visited"
	SkipExcluded    SkipReason = "excluded"
	SkipDomainLimit SkipReason = "domain_limit"
	SkipFetchFailed SkipReason = "fetch_failed"
	SkipInvalidURL  SkipReason = "invalid_url"
)

// CrawlTask is a (url, depth) pair queued for fetching.
// Depth is 0 for seeds and grows by one per discovered-link hop.
type CrawlTask struct {
	URL    string
	Depth  int
	State  TaskState
	Reason SkipReason
}

// Skip transitions a queued or fetched task to skipped.
func (t *CrawlTask) Skip(reason SkipReason) {
	t.State = TaskSkipped
	t.Reason = reason
}

// LinkExtractor discovers hyperlink targets in HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns absolute link targets resolved
	// against baseURL, in document order without duplicates.
	ExtractLinks(html []byte, baseURL string) ([]string, error)
}

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
