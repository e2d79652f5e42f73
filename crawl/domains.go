package crawl

import "sync"

// DomainCounter enforces the per-domain page cap. A slot is reserved
// before a fetch and either committed on success or released on failure,
// so committed plus in-flight never exceeds the cap. Safe for concurrent
// use and shared across sources.
type DomainCounter struct {
	mu       sync.Mutex
	max      int
	counts   map[string]int
	inFlight map[string]int
}

// NewDomainCounter creates a DomainCounter allowing max successful fetches
// per domain. A non-positive max allows none.
func NewDomainCounter(max int) *DomainCounter {
	return &DomainCounter{
		max:      max,
		counts:   make(map[string]int),
		inFlight: make(map[string]int),
	}
}

// Reserve claims a fetch slot for domain. It returns false when the domain
// has reached its cap.
func (d *DomainCounter) Reserve(domain string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.counts[domain]+d.inFlight[domain] >= d.max {
		return false
	}
	d.inFlight[domain]++
	return true
}

// Commit converts a reserved slot into a counted page.
func (d *DomainCounter) Commit(domain string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inFlight[domain] == 0 {
		return
	}
	d.inFlight[domain]--
	d.counts[domain]++
}

// Release returns a reserved slot without counting a page.
func (d *DomainCounter) Release(domain string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inFlight[domain] > 0 {
		d.inFlight[domain]--
	}
}

// Full reports whether domain has reached its cap, counting in-flight
// reservations.
func (d *DomainCounter) Full(domain string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[domain]+d.inFlight[domain] >= d.max
}

// Exhausted reports whether domain's committed pages alone have reached
// the cap. A domain that is Full but not Exhausted may free a slot when an
// in-flight fetch fails.
func (d *DomainCounter) Exhausted(domain string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[domain] >= d.max
}

// Count returns the number of pages successfully fetched from domain.
func (d *DomainCounter) Count(domain string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[domain]
}

// Counts returns a copy of the committed per-domain counts.
func (d *DomainCounter) Counts() map[string]int {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]int, len(d.counts))
	for k, v := range d.counts {
		out[k] = v
	}
	return out
}
