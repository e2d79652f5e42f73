// Package bloom provides a probabilistic membership prefilter for crawl
// URLs backed by bits-and-blooms/bloom.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter is a Bloom filter over string keys. It is not safe for concurrent
// use; callers guard it together with the exact set it fronts.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a Bloom filter sized for n expected keys with the
// given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records key.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// MayContain reports whether key might have been added. False positives
// are possible; false negatives are not.
func (f *Filter) MayContain(key string) bool {
	return f.f.TestString(key)
}

// TestAndAdd records key and reports whether it might have been present
// before.
func (f *Filter) TestAndAdd(key string) bool {
	return f.f.TestAndAddString(key)
}

// EstimatedCount returns the approximate number of keys added.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
