package crawler

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/linkmapper/linkmapper/pkg/urlnorm"
)

// Frontier is the crawl's work queue: the URLs pending a visit plus the
// ledger of every URL ever admitted. The check-and-insert in Offer is a
// single step under the mutex, which is what guarantees each URL is
// dispatched at most once no matter how many workers race on it.
type Frontier struct {
	mu       sync.Mutex
	pending  []urlnorm.NormalizedURL
	seen     mapset.Set[urlnorm.NormalizedURL]
	inFlight int

	// limit caps how many URLs are ever admitted, 0 means no cap.
	limit int
}

// NewFrontier creates an empty frontier. limit caps total admitted URLs
// as a safety valve against unbounded sites; 0 disables the cap.
func NewFrontier(limit int) *Frontier {
	return &Frontier{
		seen:  mapset.NewThreadUnsafeSet[urlnorm.NormalizedURL](),
		limit: limit,
	}
}

// Offer admits u unless it was seen before or the admission cap is
// reached. Returns true when u was accepted and enqueued.
func (f *Frontier) Offer(u urlnorm.NormalizedURL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.limit > 0 && f.seen.Cardinality() >= f.limit {
		return false
	}
	if !f.seen.Add(u) {
		return false
	}
	f.pending = append(f.pending, u)
	return true
}

// Take removes and returns the next pending URL, marking it in flight.
// The caller must call Done once the URL is fully processed, including
// offering any links discovered on it.
func (f *Frontier) Take() (urlnorm.NormalizedURL, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return "", false
	}
	u := f.pending[0]
	f.pending = f.pending[1:]
	f.inFlight++
	return u, true
}

// Done marks one taken URL as finished.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
}

// Drained reports whether no work remains: nothing pending and no worker
// holding a taken URL. Once true it stays true, because only in-flight
// work can produce new offers.
func (f *Frontier) Drained() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending) == 0 && f.inFlight == 0
}

// SeenCount returns how many URLs have been admitted so far.
func (f *Frontier) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Cardinality()
}
