package retrieval

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	// browserUserAgent makes scraped sites serve the same markup they serve
	// real browsers.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// maxContentChars caps every retrieved blob handed to the model.
	maxContentChars = 4000

	// minBlockChars filters boilerplate and short navigation labels.
	minBlockChars = 20

	maxBodyBytes = 2 << 20 // 2MB
)

// noiseElements are stripped before any text extraction.
var noiseElements = map[string]bool{
	"script":   true,
	"style":    true,
	"nav":      true,
	"footer":   true,
	"header":   true,
	"noscript": true,
}

// Extractor fetches a URL and reduces the page to a bounded plain-text
// excerpt: table rows first (dated, structured information tends to live in
// tables), then substantial paragraph-level text.
type Extractor struct {
	client *http.Client
}

// NewExtractor returns an Extractor with a 10-second fetch timeout.
func NewExtractor() *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Extract fetches the URL and returns the bounded text excerpt. Callers treat
// any error as "no enrichment"; this path is strictly best-effort.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	doc, err := fetchDocument(ctx, e.client, pageURL)
	if err != nil {
		return "", err
	}

	var content []string

	// Tables first: calendars and date listings live in them.
	for _, table := range findAll(doc, isTag("table")) {
		for _, row := range findAll(table, isTag("tr")) {
			var cols []string
			for _, cell := range findAll(row, isTag("td", "th")) {
				if text := nodeText(cell); text != "" {
					cols = append(cols, text)
				}
			}
			if len(cols) > 0 {
				content = append(content, strings.Join(cols, " | "))
			}
		}
	}

	// Then paragraph-level blocks with substantial text.
	for _, block := range findAll(doc, isTag("p", "li", "h2", "h3")) {
		if text := nodeText(block); len([]rune(text)) > minBlockChars {
			content = append(content, text)
		}
	}

	return truncateChars(strings.Join(content, "\n"), maxContentChars), nil
}

// fetchDocument GETs the URL with a browser user-agent and parses the body.
func fetchDocument(ctx context.Context, client *http.Client, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// --- node helpers ---

type nodeMatcher func(*html.Node) bool

// findAll collects descendant elements matching the matcher, never descending
// into noise containers (script/style/nav/footer/header).
func findAll(root *html.Node, match nodeMatcher) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && noiseElements[n.Data] {
			return
		}
		if n != root && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func isTag(names ...string) nodeMatcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, name := range names {
			if n.Data == name {
				return true
			}
		}
		return false
	}
}

// hasClass matches elements whose class attribute contains the given class.
func hasClass(class string) nodeMatcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, attr := range n.Attr {
			if attr.Key != "class" {
				continue
			}
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
		return false
	}
}

func anyOf(matchers ...nodeMatcher) nodeMatcher {
	return func(n *html.Node) bool {
		for _, m := range matchers {
			if m(n) {
				return true
			}
		}
		return false
	}
}

// nodeText returns the node's visible text with whitespace collapsed.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && noiseElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if sb.Len() > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// truncateChars bounds a string to the first max characters (not bytes).
func truncateChars(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
