// Package crawler implements a concurrent single-site crawler. A fixed
// pool of workers drains a shared frontier, fetching pages and feeding the
// links they discover back into it until no work remains.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/linkmapper/linkmapper/internal/models"
	linkextract "github.com/linkmapper/linkmapper/pkg/extractor"
	"github.com/linkmapper/linkmapper/pkg/urlnorm"
)

// ErrInvalidSeed is returned when the seed URL fails normalization. It is
// the only error that aborts a crawl before any work starts.
var ErrInvalidSeed = errors.New("invalid seed URL")

const (
	// DefaultWorkers is the worker pool size when none is configured.
	DefaultWorkers = 8

	// takeBackoff is how long an idle worker waits before re-polling the
	// frontier when siblings are still in flight.
	takeBackoff = 10 * time.Millisecond
)

// Options configures a Crawler. The zero value gets sane defaults: 8
// workers, a plain HTTP fetcher, the html extractor, and no page cap.
type Options struct {
	// Workers is the fixed size of the worker pool.
	Workers int

	// MaxPages caps how many URLs are admitted to the frontier, as a
	// safety valve against sites that mint unbounded distinct URLs.
	// 0 means no cap.
	MaxPages int

	// MaxElapsed bounds the whole crawl's wall-clock time. 0 means no
	// ceiling beyond the caller's context.
	MaxElapsed time.Duration

	// Fetcher overrides the default HTTP fetcher.
	Fetcher Fetcher

	// Extractor overrides the default html link extractor.
	Extractor Extractor

	Logger zerolog.Logger
}

// Crawler coordinates one crawl of one site.
type Crawler struct {
	seed       urlnorm.NormalizedURL
	seedHost   string
	fetcher    Fetcher
	extractor  Extractor
	frontier   *Frontier
	agg        *Aggregator
	workers    int
	maxElapsed time.Duration
	log        zerolog.Logger
}

// New validates the seed URL and prepares a crawl. The frontier and global
// link set start out seeded with the normalized seed.
func New(seedURL string, opts Options) (*Crawler, error) {
	seed, err := urlnorm.Normalize(seedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(FetcherOptions{})
	}
	extractor := opts.Extractor
	if extractor == nil {
		extractor = linkextract.New()
	}

	c := &Crawler{
		seed:       seed,
		seedHost:   seed.Host(),
		fetcher:    fetcher,
		extractor:  extractor,
		frontier:   NewFrontier(opts.MaxPages),
		agg:        NewAggregator(),
		workers:    workers,
		maxElapsed: opts.MaxElapsed,
		log:        opts.Logger,
	}
	c.frontier.Offer(seed)
	c.agg.RecordGlobalLink(seed)
	return c, nil
}

// Run executes the crawl and returns the final report. It blocks until
// the frontier is drained, the page cap is exhausted, or the context (or
// the configured wall-clock ceiling) expires. On early termination the
// report covers whatever was completed.
func (c *Crawler) Run(ctx context.Context) (*models.CrawlReport, error) {
	start := time.Now()

	if c.maxElapsed > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.maxElapsed)
		defer cancel()
	}

	c.log.Info().
		Str("seed", c.seed.String()).
		Int("workers", c.workers).
		Msg("starting crawl")

	g, workCtx := errgroup.WithContext(ctx)
	for i := 0; i < c.workers; i++ {
		worker := i
		g.Go(func() error {
			c.work(workCtx, worker)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		c.log.Warn().Err(err).Msg("crawl stopped before the frontier drained")
	} else if !c.frontier.Drained() {
		// All workers observed drained before exiting, so this cannot
		// happen unless the frontier accounting is broken.
		c.log.Error().Msg("workers exited with work still outstanding")
	}

	report := c.agg.Snapshot(c.seed, time.Since(start))
	c.log.Info().
		Int("pages_fetched", report.PagesFetched).
		Int("pages_failed", report.PagesFailed).
		Int("unique_links", len(report.UniqueLinks)).
		Dur("elapsed", report.Elapsed).
		Msg("crawl complete")
	return report, nil
}

// work is one worker's loop: take a URL, visit it, repeat. When the
// frontier is momentarily empty the worker backs off and retries, because
// a sibling mid-visit may still discover new links; it only exits once
// nothing is pending and nothing is in flight.
func (c *Crawler) work(ctx context.Context, id int) {
	logger := c.log.With().Int("worker", id).Logger()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		u, ok := c.frontier.Take()
		if !ok {
			if c.frontier.Drained() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(takeBackoff):
			}
			continue
		}

		c.visit(ctx, logger, u)
		c.frontier.Done()
	}
}

// visit fetches one page, records its result, and offers every in-scope
// link it finds back to the frontier. Each URL is attempted exactly once;
// failures are recorded, never retried.
func (c *Crawler) visit(ctx context.Context, logger zerolog.Logger, u urlnorm.NormalizedURL) {
	res, err := c.fetcher.Fetch(ctx, u.String())
	if err != nil {
		logger.Warn().Str("url", u.String()).Err(err).Msg("fetch failed")
		c.agg.Record(&models.PageResult{
			URL:   u.String(),
			Error: err.Error(),
		})
		return
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		logger.Warn().Str("url", u.String()).Int("status", res.StatusCode).Msg("fetch returned non-2xx")
		c.agg.Record(&models.PageResult{
			URL:        u.String(),
			StatusCode: res.StatusCode,
			Error:      fmt.Sprintf("status %d", res.StatusCode),
		})
		return
	}

	// Redirects move the page's identity to wherever it landed.
	pageURL := u
	if res.FinalURL != "" {
		if final, err := urlnorm.Normalize(res.FinalURL); err == nil {
			pageURL = final
		}
	}

	page := &models.PageResult{
		URL:        pageURL.String(),
		Fetched:    true,
		StatusCode: res.StatusCode,
	}

	if isHTMLContent(res.ContentType) {
		seen := make(map[urlnorm.NormalizedURL]struct{})
		for _, raw := range c.extractor.ExtractLinks(res.Body, pageURL.String()) {
			link, err := urlnorm.NormalizeRef(raw, pageURL)
			if err != nil {
				logger.Debug().Str("page", pageURL.String()).Str("href", raw).Msg("dropping malformed link")
				continue
			}
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}

			page.Links = append(page.Links, link.String())
			c.agg.RecordGlobalLink(link)
			if urlnorm.InScope(link, c.seedHost) {
				c.frontier.Offer(link)
			}
		}
	}

	c.agg.Record(page)
	logger.Debug().Str("url", pageURL.String()).Int("links", len(page.Links)).Msg("crawled page")
}

// isHTMLContent reports whether a body is worth parsing for links. An
// absent content type is assumed to be HTML.
func isHTMLContent(contentType string) bool {
	if contentType == "" {
		return true
	}
	mime := strings.TrimSpace(strings.Split(strings.ToLower(contentType), ";")[0])
	switch mime {
	case "text/html", "application/xhtml+xml", "application/xhtml":
		return true
	}
	return false
}
