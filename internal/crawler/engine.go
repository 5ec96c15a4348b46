package crawler

import (
	"context"
	"net/url"
	"time"

	"siteharvest/internal/fetcher"
	"siteharvest/pkg/urlutil"
)

/*
Engine executes the traversal work-list.

Traversal semantics:
- Depth-first: an explicit LIFO stack of (url, depth) tokens replaces the
  call stack, with sibling links visited in lexicographic order
- Every newly encountered URL is fetched at most once. When the content quota
  is already full the fetch still happens, but only to harvest links; the text
  is discarded
- Quota exhaustion stops the queueing of further links from the current page.
  Tokens already on the stack still complete, so late pages may still be
  harvested for links
- The politeness delay precedes every fetch except the very first: the start
  URL is fetched immediately, and a harvest-only fetch gets no extra delay
  beyond the one that preceded its descent. Callers must not "fix" this
  asymmetry; downstream pacing expectations are calibrated to it

Termination: depth strictly increases per descent and is bounded by maxDepth,
and visited membership prevents re-descending into the same URL.
*/

type crawlToken struct {
	url   *url.URL
	depth int
}

type Engine struct {
	pageFetcher fetcher.Fetcher
	maxDepth    int
	maxPages    int
	delay       time.Duration
}

func NewEngine(pageFetcher fetcher.Fetcher, maxDepth int, maxPages int, delay time.Duration) Engine {
	return Engine{
		pageFetcher: pageFetcher,
		maxDepth:    maxDepth,
		maxPages:    maxPages,
		delay:       delay,
	}
}

// Visit traverses the site reachable from start, never leaving baseHost,
// mutating state as the sole writer. Fetch failures are terminal per URL and
// never abort the traversal.
func (e *Engine) Visit(ctx context.Context, baseHost string, start *url.URL, state *State) {
	stack := NewStack[crawlToken]()
	stack.Push(crawlToken{url: start, depth: 0})

	firstFetch := true
	for {
		token, ok := stack.Pop()
		if !ok {
			break
		}

		tokenURL := token.url.String()
		state.Discover(tokenURL)
		if state.Visited(tokenURL) {
			continue
		}

		if !firstFetch {
			time.Sleep(e.delay)
		}
		firstFetch = false

		state.MarkVisited(tokenURL)

		result, err := e.pageFetcher.Fetch(ctx, token.url, token.depth)
		if err != nil {
			// already recorded by the fetcher: no content, no links
			continue
		}

		extractContent := token.depth <= e.maxDepth && state.ContentCount() < e.maxPages
		if extractContent && result.Text() != "" {
			state.AppendContent(tokenURL, result.Text())
		}

		// Links arrive sorted; collect descent candidates in that order so the
		// quota cut falls on the lexicographic tail, then push in reverse so
		// the stack pops them back in sorted order.
		var descents []crawlToken
		for _, link := range result.Links() {
			linkURL := link.String()
			state.Discover(linkURL)

			if link.Host != baseHost || urlutil.IsFileURL(link) {
				continue // external links and file resources are leaves
			}
			if state.Visited(linkURL) || token.depth >= e.maxDepth {
				continue
			}
			if state.ContentCount() >= e.maxPages {
				// stop queueing further links of this page; tokens already on
				// the stack still complete
				break
			}
			descents = append(descents, crawlToken{url: link, depth: token.depth + 1})
		}
		for i := len(descents) - 1; i >= 0; i-- {
			stack.Push(descents[i])
		}
	}
}
