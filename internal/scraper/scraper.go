package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/techpulse/newsfeed/internal/httpclient"
)

// articleSelectors are tried in order until one yields paragraphs.
var articleSelectors = []string{
	"article p",
	".article-body p",
	".article-content p",
	".post-content p",
	".entry-content p",
	".content p",
	"main p",
}

// Extractor pulls full article text from a page when a feed only carries
// a short summary.
type Extractor struct {
	client *httpclient.HTTPClient
}

func New(client *httpclient.HTTPClient) *Extractor {
	return &Extractor{client: client}
}

// ExtractText fetches url and returns the main article text, joined with
// blank lines. An empty result is reported as an error.
func (e *Extractor) ExtractText(ctx context.Context, url string) (string, error) {
	resp, err := e.client.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}

	content := extractContent(doc)
	if content == "" {
		return "", fmt.Errorf("no article content found at %s", url)
	}
	return content, nil
}

func extractContent(doc *goquery.Document) string {
	var paragraphs []string

	for _, selector := range articleSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 10 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			break
		}
	}

	return cleanContent(strings.Join(paragraphs, "\n\n"))
}

// cleanContent drops boilerplate lines (cookie banners, share prompts).
func cleanContent(content string) string {
	junk := []string{
		"cookie", "javascript", "subscribe to", "sign up for",
		"share this", "advertisement",
	}

	lines := strings.Split(content, "\n")
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			kept = append(kept, line)
			continue
		}
		lower := strings.ToLower(trimmed)
		skip := false
		for _, j := range junk {
			if strings.Contains(lower, j) && len(trimmed) < 120 {
				skip = true
				break
			}
		}
		if !skip {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
