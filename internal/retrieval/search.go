package retrieval

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher queries the DuckDuckGo HTML endpoint. No API key required.
type Searcher struct {
	client  *http.Client
	baseURL string
}

// NewSearcher returns a Searcher with a 10-second timeout.
func NewSearcher() *Searcher {
	return &Searcher{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://html.duckduckgo.com/html/",
	}
}

// Search runs one query and returns up to maxResults hits.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("%s?q=%s", s.baseURL, url.QueryEscape(query))

	doc, err := fetchDocument(ctx, s.client, searchURL)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	return parseSearchResults(doc, maxResults), nil
}

// parseSearchResults extracts results from the DuckDuckGo HTML markup, which
// wraps each hit in a div carrying both "result" and "results_links" classes.
func parseSearchResults(doc *html.Node, maxResults int) []SearchResult {
	var results []SearchResult
	for _, div := range findAll(doc, anyOf(hasClass("results_links"), hasClass("web-result"))) {
		if len(results) >= maxResults {
			break
		}
		result := extractSearchResult(div)
		if result.URL != "" && result.Title != "" {
			results = append(results, result)
		}
	}
	return results
}

// extractSearchResult pulls title, link and snippet out of one result div.
func extractSearchResult(div *html.Node) SearchResult {
	var result SearchResult

	for _, a := range findAll(div, isTag("a")) {
		switch {
		case hasClass("result__a")(a):
			result.URL = cleanResultURL(attrValue(a, "href"))
			result.Title = nodeText(a)
		case hasClass("result__snippet")(a):
			result.Snippet = nodeText(a)
		}
	}

	return result
}

// cleanResultURL decodes DuckDuckGo's redirect links into the target URL.
func cleanResultURL(raw string) string {
	idx := strings.Index(raw, "duckduckgo.com/l/?uddg=")
	if idx < 0 {
		return raw
	}
	decoded, err := url.QueryUnescape(raw[idx+len("duckduckgo.com/l/?uddg="):])
	if err != nil {
		return raw
	}
	if amp := strings.Index(decoded, "&"); amp > 0 {
		decoded = decoded[:amp]
	}
	return decoded
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
