package crawler

import (
	"context"
	"time"

	"siteharvest/internal/config"
	"siteharvest/internal/fetcher"
	"siteharvest/internal/metadata"
	"siteharvest/internal/storage"
	"siteharvest/pkg/retry"
)

/*
Crawler is the sole control-plane authority of a crawl run.

- It constructs a fresh State per invocation and hands it to the engine;
  no traversal state survives between runs
- It derives the base host from the start URL's authority component
- After traversal it persists the sorted URL inventory; a write failure is
  recorded and the in-memory result is still returned
- No error in this subsystem is fatal: a run always completes with a
  best-effort result set
*/

type Crawler struct {
	cfg          config.Config
	metadataSink metadata.Sink
	pageFetcher  fetcher.Fetcher
	storageSink  storage.Sink
}

// Result is what one crawl run produces: the insertion-ordered extracted
// pages and the lexicographically sorted full discovered-URL list.
type Result struct {
	Pages          []PageText
	DiscoveredURLs []string
}

func New(cfg config.Config, metadataSink metadata.Sink) Crawler {
	htmlFetcher := fetcher.NewHtmlFetcher(
		metadataSink,
		cfg.UserAgent(),
		cfg.Timeout(),
		retry.NewRetryParam(cfg.RetryDelay(), cfg.MaxRetries()),
	)
	return Crawler{
		cfg:          cfg,
		metadataSink: metadataSink,
		pageFetcher:  &htmlFetcher,
		storageSink:  storage.NewSink(metadataSink),
	}
}

// NewWithDeps creates a Crawler with injected dependencies for testing.
func NewWithDeps(
	cfg config.Config,
	metadataSink metadata.Sink,
	pageFetcher fetcher.Fetcher,
	storageSink storage.Sink,
) Crawler {
	return Crawler{
		cfg:          cfg,
		metadataSink: metadataSink,
		pageFetcher:  pageFetcher,
		storageSink:  storageSink,
	}
}

// Run executes one crawl from the configured start URL and writes the URL
// inventory file. The returned result is valid even when the inventory write
// fails; that failure is observational, not fatal.
func (c *Crawler) Run(ctx context.Context) Result {
	crawlStart := time.Now()

	state := NewState()
	startURL := c.cfg.StartURL()
	baseHost := startURL.Host

	engine := NewEngine(c.pageFetcher, c.cfg.MaxDepth(), c.cfg.MaxPages(), c.cfg.Delay())
	engine.Visit(ctx, baseHost, startURL, state)

	sorted := state.SortedDiscovered()
	// a failed inventory write is recorded by the sink; the in-memory result
	// is returned regardless
	_ = c.storageSink.WriteURLList(c.cfg.OutputFile(), sorted)

	c.metadataSink.RecordCrawlSummary(len(sorted), state.ContentCount(), time.Since(crawlStart))

	return Result{
		Pages:          state.Content(),
		DiscoveredURLs: sorted,
	}
}
