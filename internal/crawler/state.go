package crawler

import "sort"

// PageText is one (url, text) pair retained by the crawl.
type PageText struct {
	URL  string
	Text string
}

// State is the mutable record of a single crawl invocation. A fresh instance
// is constructed per run and threaded through the traversal; nothing here is
// process-scoped, so repeated crawls never observe each other's state.
//
// Invariants maintained by the traversal engine:
//   - visited is a subset of discovered
//   - content holds at most the configured page quota
//   - no URL appears twice in content
type State struct {
	visited    Set[string]
	discovered Set[string]
	content    []PageText
}

func NewState() *State {
	return &State{
		visited:    NewSet[string](),
		discovered: NewSet[string](),
	}
}

// Discover records a URL as observed, whether or not it will ever be fetched.
func (s *State) Discover(url string) {
	s.discovered.Add(url)
}

func (s *State) Discovered(url string) bool {
	return s.discovered.Contains(url)
}

func (s *State) DiscoveredCount() int {
	return s.discovered.Size()
}

// MarkVisited records that a fetch attempt has been made for url.
func (s *State) MarkVisited(url string) {
	s.visited.Add(url)
}

func (s *State) Visited(url string) bool {
	return s.visited.Contains(url)
}

func (s *State) VisitedCount() int {
	return s.visited.Size()
}

// AppendContent retains the extracted text of one page, insertion-ordered.
func (s *State) AppendContent(url string, text string) {
	s.content = append(s.content, PageText{URL: url, Text: text})
}

func (s *State) ContentCount() int {
	return len(s.content)
}

func (s *State) Content() []PageText {
	content := make([]PageText, len(s.content))
	copy(content, s.content)
	return content
}

// SortedDiscovered returns every discovered URL in lexicographic order.
func (s *State) SortedDiscovered() []string {
	urls := make([]string, 0, s.discovered.Size())
	for u := range s.discovered {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
