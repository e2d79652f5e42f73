package crawl

import (
	"sync"

	"github.com/fwojciec/kbase/bloom"
)

// Bloom filter sizing for the visited-set prefilter.
const (
	visitedExpectedURLs      = 10000
	visitedFalsePositiveRate = 0.01
)

// VisitedSet records URLs claimed for fetching in a run. It is shared
// across sources and safe for concurrent use. A Bloom filter answers most
// negative lookups before the exact set is consulted.
type VisitedSet struct {
	mu     sync.Mutex
	filter *bloom.Filter
	urls   map[string]struct{}
}

// NewVisitedSet creates an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{
		filter: bloom.NewFilter(visitedExpectedURLs, visitedFalsePositiveRate),
		urls:   make(map[string]struct{}),
	}
}

// Claim marks url as visited. It returns false if url was already claimed,
// in which case the caller must not fetch it.
func (v *VisitedSet) Claim(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.filter.TestAndAdd(url) {
		if _, ok := v.urls[url]; ok {
			return false
		}
	}
	v.urls[url] = struct{}{}
	return true
}

// Seen reports whether url has been claimed.
func (v *VisitedSet) Seen(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.filter.MayContain(url) {
		return false
	}
	_, ok := v.urls[url]
	return ok
}

// Len returns the number of claimed URLs.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.urls)
}
