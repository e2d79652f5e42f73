package main

import (
	"fmt"
	"slices"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/crawl"
	"github.com/fwojciec/kbase/yaml"
)

// Run executes the crawl command. Sources are crawled in config order and
// share one visited set and one set of per-domain page counters.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	cfg, err := yaml.LoadConfig(c.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
		return err
	}
	if c.Concurrency > 0 {
		cfg.Concurrency = c.Concurrency
	}

	sources := cfg.Sources
	if len(c.Source) > 0 {
		sources = nil
		for _, src := range cfg.Sources {
			if slices.Contains(c.Source, src.Name) {
				sources = append(sources, src)
			}
		}
		if len(sources) == 0 {
			err := kbase.Errorf(kbase.ENOTFOUND, "no source named %v in %s", c.Source, c.Config)
			fmt.Fprintf(deps.Stderr, "error: %s\n", kbase.ErrorMessage(err))
			return err
		}
	}

	crawler := deps.NewCrawler(cfg)
	defer crawler.Fetcher.Close()

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressFetched:
			fmt.Fprintf(deps.Stdout, "  [%d] %s (%d chunks)\n", event.Depth, crawl.TruncateURL(event.URL, 80), event.Chunks)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %v\n", crawl.TruncateURL(event.URL, 80), event.Error)
		case crawl.ProgressSkipped:
			deps.Logger.Debug("skip", "url", event.URL, "reason", event.Reason)
		case crawl.ProgressSitemap:
			if event.Error != nil {
				fmt.Fprintf(deps.Stderr, "  sitemap %s: %v\n", event.URL, event.Error)
				return
			}
			fmt.Fprintf(deps.Stdout, "  sitemap %s: %d URLs\n", event.URL, event.Links)
		}
	}

	visited := crawl.NewVisitedSet()
	domains := crawl.NewDomainCounter(cfg.MaxPagesPerDomain)
	var summary crawl.Summary
	for _, src := range sources {
		fmt.Fprintf(deps.Stdout, "Crawling %s\n", src.Name)
		result, err := crawler.Crawl(deps.Ctx, src, visited, domains, progress)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error crawling %s: %v\n", src.Name, err)
			return err
		}
		deps.Logger.Debug("crawl finished", "source", src.Name, "run_id", result.RunID)
		fmt.Fprintf(deps.Stdout, "  %s\n", crawl.FormatResult(result))
		summary.Add(result)
	}

	fmt.Fprintln(deps.Stdout, summary.String())
	return nil
}
