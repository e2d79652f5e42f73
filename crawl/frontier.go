package crawl

import "github.com/fwojciec/kbase"

// Frontier is the FIFO queue of pending crawl tasks for one source. It is
// owned by the crawl coordinator and not safe for concurrent use. A URL is
// queued at most once per frontier; the visited set still decides whether
// it is fetched.
type Frontier struct {
	queue  []kbase.CrawlTask
	head   int
	queued map[string]struct{}
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{queued: make(map[string]struct{})}
}

// Push appends a queued task for url at depth. It returns false if url was
// already queued on this frontier.
func (f *Frontier) Push(url string, depth int) bool {
	if _, ok := f.queued[url]; ok {
		return false
	}
	f.queued[url] = struct{}{}
	f.queue = append(f.queue, kbase.CrawlTask{URL: url, Depth: depth, State: kbase.TaskQueued})
	return true
}

// Pop removes and returns the oldest task.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (kbase.CrawlTask, bool) {
	if f.head >= len(f.queue) {
		return kbase.CrawlTask{}, false
	}
	task := f.queue[f.head]
	f.queue[f.head] = kbase.CrawlTask{}
	f.head++
	if f.head == len(f.queue) {
		f.queue = f.queue[:0]
		f.head = 0
	}
	return task, true
}

// Len returns the number of pending tasks.
func (f *Frontier) Len() int {
	return len(f.queue) - f.head
}
