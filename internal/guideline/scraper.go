package guideline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Source identifies one guideline page to scrape.
type Source struct {
	Label string
	URL   string
}

// SourcesFromEnv parses MEDBOT_GUIDELINE_URLS, a comma-separated list of
// label=url entries. An empty value disables guideline grounding.
func SourcesFromEnv() []Source {
	raw := os.Getenv("MEDBOT_GUIDELINE_URLS")
	if raw == "" {
		return nil
	}
	var out []Source
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.Index(part, "=")
		if i <= 0 {
			continue
		}
		out = append(out, Source{Label: part[:i], URL: part[i+1:]})
	}
	return out
}

// Scraper fetches guideline pages and extracts their readable text.
type Scraper struct {
	http *http.Client
}

func NewScraper() *Scraper {
	return &Scraper{http: &http.Client{Timeout: 30 * time.Second}}
}

// Fetch downloads a page and returns the concatenated text of its paragraph,
// heading, and list-item nodes in document order.
func (s *Scraper) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: http %d", url, resp.StatusCode)
	}
	return ExtractText(resp.Body)
}

// FetchAll scrapes every source and chunks the text, returning the chunks of
// all sources in order. A failing source fails the whole load; guideline
// initialization is a startup step with no partial-result mode.
func (s *Scraper) FetchAll(ctx context.Context, sources []Source, budget int, count TokenCounter) ([]Chunk, error) {
	var chunks []Chunk
	for _, src := range sources {
		text, err := s.Fetch(ctx, src.URL)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, Split(text, src.Label, budget, count)...)
	}
	return chunks, nil
}

var textTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "li": true,
}

// ExtractText parses HTML and joins the text content of paragraph, heading,
// and list-item nodes in document order.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	var blocks []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && textTags[n.Data] {
			if t := nodeText(n); t != "" {
				blocks = append(blocks, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(blocks, " "), nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
