package fetcher

import "net/url"

// HTTP boundary

// PageResult is the outcome of one successful page fetch: the extracted text
// and the page's outbound links, already normalized and sorted. It is
// consumed immediately by the traversal engine and not retained.
type PageResult struct {
	url        *url.URL
	text       string
	links      []*url.URL
	statusCode int
}

func (p *PageResult) URL() *url.URL {
	return p.url
}

func (p *PageResult) Text() string {
	return p.text
}

func (p *PageResult) Links() []*url.URL {
	return p.links
}

func (p *PageResult) Code() int {
	return p.statusCode
}

// NewPageResultForTest creates a PageResult for testing purposes.
// This allows test packages to construct PageResult values without
// accessing unexported fields directly.
func NewPageResultForTest(pageURL *url.URL, text string, links []*url.URL) PageResult {
	return PageResult{
		url:        pageURL,
		text:       text,
		links:      links,
		statusCode: 200,
	}
}
