package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// NewCrawler builds a crawler for a loaded crawl config.
	NewCrawler func(cfg *kbase.Config) *crawl.Crawler

	Embedder kbase.Embedder
	Corpus   kbase.CorpusService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Crawl CrawlCmd `cmd:"" help:"Crawl configured sources into chunk files"`
	Query QueryCmd `cmd:"" help:"Retrieve the best matching contexts for a question"`
	Serve ServeCmd `cmd:"" help:"Serve retrieval over HTTP"`
	Embed EmbedCmd `cmd:"" help:"Print unit-normalized embeddings for texts"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Config      string   `arg:"" type:"path" help:"Crawl configuration file (YAML)"`
	Source      []string `short:"s" help:"Only crawl the named sources (repeatable)"`
	Concurrency int      `short:"c" help:"Override concurrent fetch limit"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Question string `arg:"" help:"Question to retrieve contexts for"`
	TopK     int    `short:"k" name:"top-k" default:"5" help:"Number of contexts to return"`
	JSON     bool   `help:"Print the raw retrieval result as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" env:"KBASE_ADDR" help:"Listen address"`
}

// EmbedCmd is the "embed" subcommand.
type EmbedCmd struct {
	Texts []string `arg:"" help:"Texts to embed"`
}
