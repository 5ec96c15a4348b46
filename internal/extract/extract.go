package extract

import (
	"io"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"siteharvest/pkg/urlutil"
)

/*
Responsibilities

- Parse HTML best-effort: malformed markup never raises, it degrades to
  partial extraction
- Extract visible page text with normalized whitespace
- Extract the set of outbound absolute links

The extractor never performs I/O beyond reading the supplied stream.
*/

var (
	blankLineRuns = regexp.MustCompile(`\n\s*\n`)
	horizontalWS  = regexp.MustCompile(`[ \t]+`)
)

// Document is a parsed HTML page ready for text and link extraction.
// Script and style subtrees are dropped at parse time; neither their text nor
// their anchors are visible to the extraction methods.
type Document struct {
	doc *goquery.Document
}

// NewDocument parses HTML from r. Parsing is tolerant: broken or truncated
// markup yields a partial document, not an error. An error is returned only
// when the reader itself fails.
func NewDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	doc.Find("script, style").Remove()
	return &Document{doc: doc}, nil
}

// Text returns the visible text of the page. Each text node contributes one
// line; runs of horizontal whitespace collapse to a single space and runs of
// blank lines collapse to at most one blank line.
func (d *Document) Text() string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				sb.WriteString(trimmed)
				sb.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range d.doc.Selection.Nodes {
		walk(root)
	}

	text := strings.TrimSpace(sb.String())
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	text = horizontalWS.ReplaceAllString(text, " ")
	return text
}

// Links returns every unique outbound link of the page as an absolute URL,
// resolved against base and filtered through urlutil.Normalize: http/https
// only, fragments stripped, mail links discarded. Duplicates within the page
// collapse to one entry. The result is sorted lexicographically so traversal
// order does not depend on map iteration.
func (d *Document) Links(base *url.URL) []*url.URL {
	seen := make(map[string]*url.URL)

	d.doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		resolved, ok := urlutil.Normalize(base, href)
		if !ok {
			return
		}
		seen[resolved.String()] = resolved
	})

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	links := make([]*url.URL, 0, len(keys))
	for _, k := range keys {
		links = append(links, seen[k])
	}
	return links
}

// Text is a convenience for callers that only need the page text, such as the
// batch HTML-to-text converter.
func Text(r io.Reader) (string, error) {
	doc, err := NewDocument(r)
	if err != nil {
		return "", err
	}
	return doc.Text(), nil
}
