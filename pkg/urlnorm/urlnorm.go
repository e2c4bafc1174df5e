// Package urlnorm canonicalizes URLs so that two spellings of the same
// resource compare equal. The canonical form is the dedup key used by the
// crawler's frontier and aggregator.
package urlnorm

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformed is returned for input that cannot be parsed or that uses a
// scheme other than http/https.
var ErrMalformed = errors.New("malformed url")

// NormalizedURL is the canonical form of a URL. Values are only built by
// Normalize/NormalizeRef, so equal resources compare equal as strings.
type NormalizedURL string

func (u NormalizedURL) String() string {
	return string(u)
}

// Host returns the canonical hostname (lower-case, no port).
func (u NormalizedURL) Host() string {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// Normalize canonicalizes an absolute URL.
func Normalize(raw string) (NormalizedURL, error) {
	return NormalizeRef(raw, "")
}

// NormalizeRef canonicalizes raw, resolving it against base when base is
// non-empty. Relative references without a base are malformed.
func NormalizeRef(raw string, base NormalizedURL) (NormalizedURL, error) {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformed, raw, err)
	}

	resolved := ref
	if base != "" {
		baseURL, err := url.Parse(string(base))
		if err != nil {
			return "", fmt.Errorf("%w: base %q: %v", ErrMalformed, base, err)
		}
		resolved = baseURL.ResolveReference(ref)
	}

	scheme := strings.ToLower(resolved.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: %q: unsupported scheme %q", ErrMalformed, raw, resolved.Scheme)
	}
	if resolved.Hostname() == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrMalformed, raw)
	}

	resolved.Scheme = scheme
	resolved.Host = canonicalHost(resolved, scheme)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	resolved.Path = canonicalPath(resolved.Path)

	return NormalizedURL(resolved.String()), nil
}

// InScope reports whether the URL belongs to the crawled site. Scope is an
// exact host match against the seed's host; subdomains are out of scope.
func InScope(u NormalizedURL, seedHost string) bool {
	return u.Host() == strings.ToLower(seedHost)
}

func canonicalHost(u *url.URL, scheme string) string {
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if port == "" {
		return host
	}
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		return host
	}
	return host + ":" + port
}

// canonicalPath collapses an empty path to "/" and trims the trailing slash
// everywhere else, so /about and /about/ share one identity.
func canonicalPath(path string) string {
	if path == "" {
		return "/"
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
