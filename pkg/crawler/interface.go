package crawler

import "context"

// FetchResult is the outcome of a successful HTTP exchange. A non-2xx
// status is still a FetchResult; only transport-level failures surface as
// errors from Fetch.
type FetchResult struct {
	// StatusCode is the HTTP response status.
	StatusCode int

	// Body is the response body. May be nil for non-2xx responses.
	Body []byte

	// FinalURL is the URL after following redirects. The crawler records
	// the page under this URL, not the one it requested.
	FinalURL string

	// ContentType is the Content-Type header value, if any.
	ContentType string
}

// Fetcher retrieves the content of a URL. Implementations own timeouts and
// transport policy; the crawler never retries a failed fetch.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor pulls link candidates out of a page body. Candidates are
// absolute where the extractor can resolve them against baseURL; the
// crawler normalizes and filters whatever comes back.
type Extractor interface {
	ExtractLinks(body []byte, baseURL string) []string
}
