// Package extractor pulls hyperlink candidates out of HTML documents.
package extractor

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Extractor finds the href of every anchor tag in a document and resolves
// it against the page URL.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// ExtractLinks returns the absolute URL candidates found on the page, in
// document order. Hrefs that cannot be parsed are returned as-is and left
// for the caller to reject; an unparsable body yields no links.
func (e *Extractor) ExtractLinks(body []byte, baseURL string) []string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if href == "" {
					continue
				}
				links = append(links, resolve(base, href))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

func resolve(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
