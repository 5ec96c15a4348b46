package crawler_test

import (
	"context"
	"net/url"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteharvest/internal/crawler"
	"siteharvest/internal/fetcher"
	"siteharvest/pkg/failure"
)

// fakePage is one page served by the fake fetcher
type fakePage struct {
	text  string
	links []string
}

// fakeFetcher is a test double for fetcher.Fetcher serving an in-memory site
type fakeFetcher struct {
	pages   map[string]fakePage
	fetched []string
}

type fetchFailure struct{}

func (f *fetchFailure) Error() string              { return "fetch failed after retries" }
func (f *fetchFailure) Severity() failure.Severity { return failure.SeverityRecoverable }

func (f *fakeFetcher) Fetch(_ context.Context, pageURL *url.URL, _ int) (fetcher.PageResult, failure.ClassifiedError) {
	f.fetched = append(f.fetched, pageURL.String())

	page, ok := f.pages[pageURL.String()]
	if !ok {
		return fetcher.PageResult{}, &fetchFailure{}
	}

	// the real fetcher returns links normalized and sorted
	sortedLinks := append([]string(nil), page.links...)
	sort.Strings(sortedLinks)

	links := make([]*url.URL, 0, len(sortedLinks))
	for _, l := range sortedLinks {
		u, err := url.Parse(l)
		if err != nil {
			panic(err)
		}
		links = append(links, u)
	}
	return fetcher.NewPageResultForTest(pageURL, page.text, links), nil
}

func mustParse(t *testing.T, rawURL string) *url.URL {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u
}

func runEngine(t *testing.T, pages map[string]fakePage, maxDepth, maxPages int) (*fakeFetcher, *crawler.State) {
	t.Helper()
	fake := &fakeFetcher{pages: pages}
	state := crawler.NewState()
	engine := crawler.NewEngine(fake, maxDepth, maxPages, 0)
	engine.Visit(context.Background(), "a.test", mustParse(t, "https://a.test/"), state)
	return fake, state
}

func TestVisitLinkTriage(t *testing.T) {
	pages := map[string]fakePage{
		"https://a.test/": {
			text: "start",
			links: []string{
				"https://a.test/p1",
				"https://ext.test/x",
				"https://a.test/f.pdf",
			},
		},
		"https://a.test/p1": {text: "page one"},
	}

	fake, state := runEngine(t, pages, 3, 50)

	// the internal page is descended into; external and file links are leaves
	assert.Equal(t, []string{"https://a.test/", "https://a.test/p1"}, fake.fetched)

	assert.True(t, state.Discovered("https://ext.test/x"))
	assert.False(t, state.Visited("https://ext.test/x"))
	assert.True(t, state.Discovered("https://a.test/f.pdf"))
	assert.False(t, state.Visited("https://a.test/f.pdf"))

	content := state.Content()
	require.Len(t, content, 2)
	assert.Equal(t, "https://a.test/", content[0].URL)
	assert.Equal(t, "https://a.test/p1", content[1].URL)
}

func TestVisitDepthZero(t *testing.T) {
	pages := map[string]fakePage{
		"https://a.test/": {
			text:  "start",
			links: []string{"https://a.test/p1"},
		},
		"https://a.test/p1": {text: "unreachable"},
	}

	fake, state := runEngine(t, pages, 0, 50)

	// only the start URL is fetched; no recursive descent at depth 0
	assert.Equal(t, []string{"https://a.test/"}, fake.fetched)
	assert.Equal(t, 1, state.ContentCount())
	assert.True(t, state.Discovered("https://a.test/p1"))
}

func TestVisitDepthLimitBoundsChain(t *testing.T) {
	pages := map[string]fakePage{
		"https://a.test/":   {text: "d0", links: []string{"https://a.test/b"}},
		"https://a.test/b":  {text: "d1", links: []string{"https://a.test/c"}},
		"https://a.test/c":  {text: "d2", links: []string{"https://a.test/d"}},
	}

	fake, state := runEngine(t, pages, 1, 50)

	assert.Equal(t, []string{"https://a.test/", "https://a.test/b"}, fake.fetched)
	assert.True(t, state.Discovered("https://a.test/c"))
	assert.False(t, state.Visited("https://a.test/c"))
}

func TestVisitQuotaStopsQueueing(t *testing.T) {
	pages := map[string]fakePage{
		"https://a.test/": {
			text:  "start",
			links: []string{"https://a.test/b", "https://a.test/c"},
		},
		"https://a.test/b": {text: "b text"},
	}

	fake, state := runEngine(t, pages, 3, 1)

	// quota of one: only the start page's text is retained and no further
	// descent is queued
	content := state.Content()
	require.Len(t, content, 1)
	assert.Equal(t, "https://a.test/", content[0].URL)

	assert.Equal(t, []string{"https://a.test/"}, fake.fetched)
	assert.True(t, state.Discovered("https://a.test/b"))
	assert.True(t, state.Discovered("https://a.test/c"))
}

func TestVisitQuotaFullTokensStillHarvestLinks(t *testing.T) {
	pages := map[string]fakePage{
		"https://a.test/": {
			text:  "start",
			links: []string{"https://a.test/b", "https://a.test/c"},
		},
		"https://a.test/b": {text: "b text", links: []string{"https://a.test/b-child"}},
		"https://a.test/c": {text: "c text", links: []string{"https://a.test/c-child"}},
	}

	// both b and c are queued while the quota still has room; b fills it
	fake, state := runEngine(t, pages, 3, 2)

	content := state.Content()
	require.Len(t, content, 2)
	assert.Equal(t, "https://a.test/", content[0].URL)
	assert.Equal(t, "https://a.test/b", content[1].URL)

	// c was already scheduled, so it is still fetched to harvest links even
	// though its text is discarded
	assert.Equal(t, []string{
		"https://a.test/",
		"https://a.test/b",
		"https://a.test/c",
	}, fake.fetched)
	assert.True(t, state.Visited("https://a.test/c"))
	assert.True(t, state.Discovered("https://a.test/b-child"))
	assert.True(t, state.Discovered("https://a.test/c-child"))
	assert.False(t, state.Visited("https://a.test/b-child"))
	assert.False(t, state.Visited("https://a.test/c-child"))
}

func TestVisitDepthFirstSortedOrder(t *testing.T) {
	pages := map[string]fakePage{
		"https://a.test/": {
			text:  "start",
			links: []string{"https://a.test/c", "https://a.test/b"},
		},
		"https://a.test/b": {text: "b", links: []string{"https://a.test/b1"}},
		"https://a.test/b1": {text: "b1"},
		"https://a.test/c": {text: "c"},
	}

	fake, _ := runEngine(t, pages, 3, 50)

	// depth-first, siblings in lexicographic order: b's subtree before c
	assert.Equal(t, []string{
		"https://a.test/",
		"https://a.test/b",
		"https://a.test/b1",
		"https://a.test/c",
	}, fake.fetched)
}

func TestVisitFetchFailureDoesNotAbort(t *testing.T) {
	pages := map[string]fakePage{
		"https://a.test/": {
			text:  "start",
			links: []string{"https://a.test/broken", "https://a.test/ok"},
		},
		// /broken is absent: the fake fetcher fails it after "retries"
		"https://a.test/ok": {text: "still crawled"},
	}

	fake, state := runEngine(t, pages, 3, 50)

	assert.Contains(t, fake.fetched, "https://a.test/broken")
	assert.Contains(t, fake.fetched, "https://a.test/ok")

	content := state.Content()
	require.Len(t, content, 2)
	assert.Equal(t, "https://a.test/ok", content[1].URL)

	// the failed URL counts as visited so it is never re-fetched
	assert.True(t, state.Visited("https://a.test/broken"))
}

func TestVisitNoDuplicateFetches(t *testing.T) {
	pages := map[string]fakePage{
		"https://a.test/": {
			text:  "start",
			links: []string{"https://a.test/b", "https://a.test/c"},
		},
		"https://a.test/b": {text: "b", links: []string{"https://a.test/c", "https://a.test/"}},
		"https://a.test/c": {text: "c", links: []string{"https://a.test/b"}},
	}

	fake, state := runEngine(t, pages, 5, 50)

	seen := map[string]int{}
	for _, u := range fake.fetched {
		seen[u]++
	}
	for u, count := range seen {
		assert.Equalf(t, 1, count, "url %s fetched %d times", u, count)
	}

	// no URL appears twice in the content either
	urls := map[string]bool{}
	for _, p := range state.Content() {
		assert.False(t, urls[p.URL])
		urls[p.URL] = true
	}
}

func TestVisitInvariants(t *testing.T) {
	pages := map[string]fakePage{
		"https://a.test/": {
			text:  "start",
			links: []string{"https://a.test/b", "https://ext.test/y", "https://a.test/doc.pdf"},
		},
		"https://a.test/b": {text: "b", links: []string{"https://a.test/c"}},
		"https://a.test/c": {text: ""},
	}

	fake, state := runEngine(t, pages, 3, 2)

	// visited is a subset of discovered
	for _, u := range fake.fetched {
		assert.Truef(t, state.Visited(u), "fetched url %s not marked visited", u)
		assert.Truef(t, state.Discovered(u), "visited url %s not in discovered", u)
	}

	// content respects the quota
	assert.LessOrEqual(t, state.ContentCount(), 2)

	// c's link was discovered after the quota filled, so it was recorded but
	// never fetched
	assert.True(t, state.Discovered("https://a.test/c"))
	assert.False(t, state.Visited("https://a.test/c"))
}

func TestVisitEmptyTextPageContributesNoContent(t *testing.T) {
	pages := map[string]fakePage{
		"https://a.test/":  {text: "start", links: []string{"https://a.test/b"}},
		"https://a.test/b": {text: "", links: []string{"https://a.test/c"}},
		"https://a.test/c": {text: "c text"},
	}

	_, state := runEngine(t, pages, 3, 50)

	assert.True(t, state.Visited("https://a.test/b"))
	content := state.Content()
	require.Len(t, content, 2)
	assert.Equal(t, "https://a.test/", content[0].URL)
	assert.Equal(t, "https://a.test/c", content[1].URL)
}
