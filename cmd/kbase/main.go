package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/kbase"
	"github.com/fwojciec/kbase/corpus"
	"github.com/fwojciec/kbase/crawl"
	"github.com/fwojciec/kbase/extract"
	"github.com/fwojciec/kbase/fs"
	"github.com/fwojciec/kbase/goquery"
	"github.com/fwojciec/kbase/htmltomarkdown"
	kbhttp "github.com/fwojciec/kbase/http"
	"github.com/fwojciec/kbase/pdf"
	"github.com/fwojciec/kbase/readability"
	kslog "github.com/fwojciec/kbase/slog"
	"github.com/fwojciec/kbase/sqlite"
	"github.com/fwojciec/kbase/trafilatura"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is not an error.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv reads configuration from the environment. Set before calling Run().
	Getenv func(string) string

	// SQLite database backing the embedding cache, when enabled.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("kbase"),
		kong.Description("Build a local knowledge corpus and query it with hybrid retrieval."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'kbase --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if strings.HasPrefix(kongCtx.Command(), "crawl") {
		deps.NewCrawler = m.crawlerFactory(deps.Logger)
	} else {
		embedder, err := m.openEmbedder(ctx, deps.Logger)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: set KBASE_EMBEDDER to hash, gemini or http")
			return err
		}
		defer m.Close()
		deps.Embedder = embedder

		loader := fs.NewLoader(fs.RootsFromEnv(m.Getenv)...)
		loader.Warn = func(format string, args ...any) {
			deps.Logger.Warn(fmt.Sprintf(format, args...))
		}
		deps.Corpus = kslog.NewLoggingCorpusService(corpus.NewEngine(loader, embedder), deps.Logger)
	}

	return kongCtx.Run(deps)
}

// crawlerFactory returns a constructor for crawlers bound to a loaded
// config. Fetch and write operations are logged.
func (m *Main) crawlerFactory(logger *slog.Logger) func(cfg *kbase.Config) *crawl.Crawler {
	return func(cfg *kbase.Config) *crawl.Crawler {
		fetcher := kbhttp.NewFetcher(
			kbhttp.WithTimeout(cfg.RequestTimeout()),
			kbhttp.WithUserAgent(cfg.UserAgent),
		)
		return &crawl.Crawler{
			Fetcher:   kslog.NewLoggingFetcher(fetcher, logger),
			Extractor: newExtractor(logger),
			Links:     goquery.NewLinkExtractor(),
			Chunks:    kslog.NewLoggingChunkWriter(fs.NewChunkWriter(cfg.OutputDir), logger),
			Sitemaps:  kslog.NewLoggingSitemapService(kbhttp.NewSitemapService(nil, cfg.UserAgent), logger),
			Config:    cfg,
		}
	}
}

// newExtractor builds the extraction chain: PDF text for PDF URLs, else
// trafilatura, readability and visible text, first non-empty wins.
func newExtractor(logger *slog.Logger) *extract.Pipeline {
	p := extract.NewPipeline(
		pdf.NewExtractor(),
		trafilatura.NewExtractor(),
		readability.NewExtractor(htmltomarkdown.NewConverter()),
		goquery.NewTextExtractor(),
	)
	p.OnError = func(url string, strategy int, err error) {
		logger.Debug("extract", "url", url, "strategy", strategy, "err", err)
	}
	return p
}
