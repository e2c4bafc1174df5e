package crawler

import (
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/linkmapper/linkmapper/internal/models"
	"github.com/linkmapper/linkmapper/pkg/urlnorm"
)

// Aggregator accumulates per-page results and the set of every distinct
// link discovered across the whole site. Workers write to it concurrently;
// Snapshot is only meaningful once the crawl has finished.
type Aggregator struct {
	mu    sync.Mutex
	pages map[urlnorm.NormalizedURL]*models.PageResult

	// global holds every discovered link, in-scope or not. mapset's
	// default set is safe for concurrent writers.
	global mapset.Set[urlnorm.NormalizedURL]
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		pages:  make(map[urlnorm.NormalizedURL]*models.PageResult),
		global: mapset.NewSet[urlnorm.NormalizedURL](),
	}
}

// Record stores the result for one page, keyed by its canonical URL. The
// frontier dispatches each URL at most once, so a key is written once per
// crawl except when two requests redirect to the same final page.
func (a *Aggregator) Record(page *models.PageResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pages[urlnorm.NormalizedURL(page.URL)] = page
}

// RecordGlobalLink adds a discovered link to the global set.
func (a *Aggregator) RecordGlobalLink(u urlnorm.NormalizedURL) {
	a.global.Add(u)
}

// Snapshot assembles the final report.
func (a *Aggregator) Snapshot(seed urlnorm.NormalizedURL, elapsed time.Duration) *models.CrawlReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := &models.CrawlReport{
		Seed:    seed.String(),
		Pages:   make(map[string]*models.PageResult, len(a.pages)),
		Elapsed: elapsed,
	}
	for u, page := range a.pages {
		report.Pages[u.String()] = page
		if page.Fetched {
			report.PagesFetched++
		} else {
			report.PagesFailed++
		}
	}

	report.UniqueLinks = make([]string, 0, a.global.Cardinality())
	for u := range a.global.Iter() {
		report.UniqueLinks = append(report.UniqueLinks, u.String())
	}
	sort.Strings(report.UniqueLinks)

	return report
}
