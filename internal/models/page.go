package models

import "time"

// PageResult records the outcome of fetching one page. It is created once,
// when the fetch and link extraction for that page complete, and is not
// modified afterwards.
type PageResult struct {
	// URL is the page's canonical URL. For redirected pages this is derived
	// from the final URL, not the one originally requested.
	URL string `json:"url"`

	// Links holds the distinct canonical outbound links found on the page,
	// in discovery order. Empty for failed pages.
	Links []string `json:"links"`

	// Fetched is true when the page returned a 2xx response.
	Fetched bool `json:"fetched"`

	// StatusCode is the HTTP status, 0 when the request never completed.
	StatusCode int `json:"status_code,omitempty"`

	// Error describes why the fetch failed, empty on success.
	Error string `json:"error,omitempty"`
}

// CrawlReport is the final output of a crawl.
type CrawlReport struct {
	Seed string `json:"seed"`

	// Pages maps each visited page's canonical URL to its result.
	Pages map[string]*PageResult `json:"pages"`

	// UniqueLinks lists every distinct link discovered anywhere on the
	// site, in-scope or not, sorted.
	UniqueLinks []string `json:"unique_links"`

	PagesFetched int           `json:"pages_fetched"`
	PagesFailed  int           `json:"pages_failed"`
	Elapsed      time.Duration `json:"elapsed"`
}
