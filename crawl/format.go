package crawl

import "fmt"

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// Summary aggregates per-source results.
type Summary struct {
	Sources  int
	Fetched  int
	Skipped  int
	Failed   int
	Expanded int
	Chunks   int
}

// Add accumulates r into s.
func (s *Summary) Add(r *Result) {
	if r == nil {
		return
	}
	s.Sources++
	s.Fetched += r.Fetched
	s.Skipped += r.Skipped
	s.Failed += r.Failed
	s.Expanded += r.Expanded
	s.Chunks += r.Chunks
}

// String formats the summary for terminal output.
func (s Summary) String() string {
	return fmt.Sprintf("%d %s: %d fetched, %d skipped, %d failed, %d %s written",
		s.Sources, plural(s.Sources, "source", "sources"),
		s.Fetched, s.Skipped, s.Failed,
		s.Chunks, plural(s.Chunks, "chunk", "chunks"))
}

// FormatResult formats a single source result for terminal output.
func FormatResult(r *Result) string {
	return fmt.Sprintf("%s: %d fetched, %d expanded, %d skipped, %d failed, %d %s",
		r.Source, r.Fetched, r.Expanded, r.Skipped, r.Failed,
		r.Chunks, plural(r.Chunks, "chunk", "chunks"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
