// Package crawl implements the breadth-first crawler that turns configured
// sources into chunk files. A single coordinator owns the FIFO frontier and
// hands admitted tasks to a bounded pool of fetch workers; the visited set
// and domain counters are shared across sources.
package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/kbase"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Crawler fetches, extracts, chunks and persists the pages of a source.
type Crawler struct {
	Fetcher   kbase.Fetcher
	Extractor kbase.Extractor
	Links     kbase.LinkExtractor
	Chunks    kbase.ChunkWriter

	// Sitemaps seeds sources that enable sitemap discovery. Optional.
	Sitemaps kbase.SitemapService

	Config *kbase.Config

	// Now returns the retrieval timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Result summarizes the crawl of one source.
type Result struct {
	RunID    uuid.UUID
	Source   string
	Fetched  int // pages fetched successfully
	Skipped  int // tasks dropped before fetching
	Failed   int // failed fetches and chunk writes
	Expanded int // fetched pages whose links were followed
	Chunks   int // chunk files written
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type   ProgressType
	Source string
	URL    string
	Depth  int
	Reason kbase.SkipReason
	Chunks int
	Links  int
	Error  error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressFetched ProgressType = iota
	ProgressSkipped
	ProgressFailed
	ProgressSitemap
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress. It is only
// invoked from the coordinator goroutine.
type ProgressFunc func(event ProgressEvent)

// taskResult is the outcome of processing one admitted task.
type taskResult struct {
	task     kbase.CrawlTask
	links    []string
	chunks   int
	fetchErr error
	writeErr error
}

// Crawl processes src to completion. Every task is either skipped or
// fetched at most once across all sources sharing visited and domains.
// Fetch, extraction and link failures never abort the crawl; the only
// error returned is the context's.
func (c *Crawler) Crawl(ctx context.Context, src kbase.Source, visited *VisitedSet, domains *DomainCounter, progress ProgressFunc) (*Result, error) {
	if c.Config == nil {
		return nil, kbase.Errorf(kbase.EINVALID, "crawler config required")
	}

	res := &Result{RunID: uuid.New(), Source: src.Name}
	emit := func(e ProgressEvent) {
		e.Source = src.Name
		if progress != nil {
			progress(e)
		}
	}

	frontier := NewFrontier()
	for _, raw := range src.URLs {
		if u := kbase.NormalizeURL(raw); u != "" {
			frontier.Push(u, 0)
		}
	}
	if src.Sitemap && c.Sitemaps != nil {
		c.seedFromSitemaps(ctx, src, frontier, emit)
	}

	workCh := make(chan kbase.CrawlTask)
	resultCh := make(chan taskResult)

	g, gctx := errgroup.WithContext(ctx)
	for range max(c.Config.Concurrency, 1) {
		g.Go(func() error {
			for task := range workCh {
				r := c.process(gctx, src, task, domains)
				select {
				case resultCh <- r:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	pending := 0
	var next *kbase.CrawlTask
	var parked []kbase.CrawlTask

coordinatorLoop:
	for {
		if next == nil {
			next = c.admit(frontier, &parked, visited, domains, res, emit)
		}
		if next == nil && pending == 0 {
			// Parked tasks can only still be waiting on slots held by
			// another crawl sharing domains.
			for _, task := range parked {
				c.skip(task, kbase.SkipDomainLimit, res, emit)
			}
			break
		}

		// A nil channel disables the dispatch case while nothing is admitted.
		var work chan kbase.CrawlTask
		var task kbase.CrawlTask
		if next != nil {
			work, task = workCh, *next
		}

		select {
		case <-ctx.Done():
			break coordinatorLoop
		case work <- task:
			pending++
			next = nil
		case r := <-resultCh:
			pending--
			c.handle(r, frontier, visited, res, emit)
		}
	}

	if next != nil {
		domains.Release(kbase.URLDomain(next.URL))
	}
	close(workCh)
	// Workers only fail when ctx is canceled.
	werr := g.Wait()

	emit(ProgressEvent{Type: ProgressFinished})
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, werr
}

// skipDomainBusy marks a task whose domain has no free slot only because
// of in-flight fetches. Such tasks are parked, not dropped.
const skipDomainBusy kbase.SkipReason = "domain_busy"

// admit returns the next task that passes the visited, exclusion and
// domain-cap checks, trying parked tasks before the frontier. The returned
// task holds a claimed URL and a reserved domain slot. Tasks blocked only
// by in-flight fetches are parked until a result frees or commits a slot.
func (c *Crawler) admit(frontier *Frontier, parked *[]kbase.CrawlTask, visited *VisitedSet, domains *DomainCounter, res *Result, emit func(ProgressEvent)) *kbase.CrawlTask {
	waiting := (*parked)[:0]
	var admitted *kbase.CrawlTask
	for i, task := range *parked {
		if admitted != nil {
			waiting = append(waiting, (*parked)[i:]...)
			break
		}
		switch reason := c.check(task.URL, visited, domains); reason {
		case kbase.SkipNone:
			admitted = &task
		case skipDomainBusy:
			waiting = append(waiting, task)
		default:
			c.skip(task, reason, res, emit)
		}
	}
	*parked = waiting
	if admitted != nil {
		return admitted
	}

	for {
		task, ok := frontier.Pop()
		if !ok {
			return nil
		}
		switch reason := c.check(task.URL, visited, domains); reason {
		case kbase.SkipNone:
			return &task
		case skipDomainBusy:
			*parked = append(*parked, task)
		default:
			c.skip(task, reason, res, emit)
		}
	}
}

func (c *Crawler) skip(task kbase.CrawlTask, reason kbase.SkipReason, res *Result, emit func(ProgressEvent)) {
	task.Skip(reason)
	res.Skipped++
	emit(ProgressEvent{Type: ProgressSkipped, URL: task.URL, Depth: task.Depth, Reason: reason})
}

func (c *Crawler) check(url string, visited *VisitedSet, domains *DomainCounter) kbase.SkipReason {
	domain := kbase.URLDomain(url)
	switch {
	case domain == "":
		return kbase.SkipInvalidURL
	case visited.Seen(url):
		return kbase.SkipVisited
	case kbase.MatchesExclusion(url, c.Config.ExcludeURLPatterns):
		return kbase.SkipExcluded
	case !domains.Reserve(domain):
		if domains.Exhausted(domain) {
			return kbase.SkipDomainLimit
		}
		return skipDomainBusy
	}
	if !visited.Claim(url) {
		domains.Release(domain)
		return kbase.SkipVisited
	}
	return kbase.SkipNone
}

// process runs on a worker: fetch, extract, chunk, persist, and collect
// links when the page may be expanded.
func (c *Crawler) process(ctx context.Context, src kbase.Source, task kbase.CrawlTask, domains *DomainCounter) taskResult {
	domain := kbase.URLDomain(task.URL)

	resp, err := c.Fetcher.Fetch(ctx, task.URL)
	if err != nil {
		domains.Release(domain)
		task.Skip(kbase.SkipFetchFailed)
		return taskResult{task: task, fetchErr: err}
	}
	domains.Commit(domain)
	task.State = kbase.TaskFetched
	r := taskResult{task: task}

	header := kbase.ChunkHeader{
		SourceURL:      task.URL,
		AuthorityLevel: src.AuthorityLevel,
		Jurisdiction:   src.Jurisdiction,
		RetrievedAt:    c.now().UTC().Format(time.RFC3339),
		LastUpdated:    resp.LastModified,
	}
	if header.LastUpdated == "" {
		header.LastUpdated = kbase.UnknownLastUpdated
	}

	if text := c.Extractor.Extract(task.URL, resp.Body); text != "" {
		if texts := kbase.ChunkText(text, c.Config.ChunkSize, c.Config.ChunkOverlap); len(texts) > 0 {
			chunks, err := c.Chunks.WriteChunks(ctx, &kbase.ChunkBatch{
				SourceName: src.Name,
				Header:     header,
				Texts:      texts,
			})
			if err != nil {
				r.writeErr = err
			}
			r.chunks = len(chunks)
		}
	}

	if task.Depth < c.Config.CrawlDepth && !kbase.IsPDFURL(task.URL) {
		r.task.State = kbase.TaskExpanded
		if links, err := c.Links.ExtractLinks(resp.Body, task.URL); err == nil {
			r.links = links
		}
	}

	_ = sleep(ctx, c.Config.RequestDelay())
	return r
}

// handle records a worker result and enqueues discovered links at
// depth+1. Runs on the coordinator.
func (c *Crawler) handle(r taskResult, frontier *Frontier, visited *VisitedSet, res *Result, emit func(ProgressEvent)) {
	task := r.task
	if r.fetchErr != nil {
		res.Failed++
		emit(ProgressEvent{Type: ProgressFailed, URL: task.URL, Depth: task.Depth, Reason: task.Reason, Error: r.fetchErr})
		return
	}

	res.Fetched++
	res.Chunks += r.chunks
	if r.writeErr != nil {
		res.Failed++
		emit(ProgressEvent{Type: ProgressFailed, URL: task.URL, Depth: task.Depth, Error: r.writeErr})
	}

	queued := 0
	if task.State == kbase.TaskExpanded {
		res.Expanded++
		for _, link := range r.links {
			if !kbase.IsHTTPURL(link) {
				continue
			}
			link = kbase.NormalizeURL(link)
			if !kbase.SameDomain(task.URL, link) {
				continue
			}
			if visited.Seen(link) || kbase.MatchesExclusion(link, c.Config.ExcludeURLPatterns) {
				continue
			}
			if frontier.Push(link, task.Depth+1) {
				queued++
			}
		}
	}

	emit(ProgressEvent{Type: ProgressFetched, URL: task.URL, Depth: task.Depth, Chunks: r.chunks, Links: queued})
}

// seedFromSitemaps adds same-domain, non-excluded sitemap URLs of each
// seed's domain at depth 0. Failures are reported and otherwise ignored.
func (c *Crawler) seedFromSitemaps(ctx context.Context, src kbase.Source, frontier *Frontier, emit func(ProgressEvent)) {
	done := make(map[string]bool)
	for _, raw := range src.URLs {
		seed := kbase.NormalizeURL(raw)
		domain := kbase.URLDomain(seed)
		if domain == "" || done[domain] {
			continue
		}
		done[domain] = true

		urls, err := c.Sitemaps.DiscoverURLs(ctx, seed)
		if err != nil {
			emit(ProgressEvent{Type: ProgressSitemap, URL: seed, Error: err})
			continue
		}
		added := 0
		for _, u := range urls {
			u = kbase.NormalizeURL(u)
			if u == "" || !kbase.SameDomain(seed, u) || kbase.MatchesExclusion(u, c.Config.ExcludeURLPatterns) {
				continue
			}
			if frontier.Push(u, 0) {
				added++
			}
		}
		emit(ProgressEvent{Type: ProgressSitemap, URL: seed, Links: added})
	}
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
