package fetch

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/techpulse/newsfeed/internal/logger"
	"github.com/techpulse/newsfeed/internal/news"
	"github.com/techpulse/newsfeed/internal/scraper"
)

// FeedsConfig is the YAML feeds list:
//
// feeds:
//   - https://...
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads the RSS feed URL list from a YAML file.
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Feeds, nil
}

// RSS fetches generic RSS/Atom feeds. When a feed item carries only a
// thin summary, the full article text is scraped from the item link.
type RSS struct {
	parser    *gofeed.Parser
	extractor *scraper.Extractor
	urls      []string
	minBody   int
}

func NewRSS(urls []string, extractor *scraper.Extractor, minBodyRunes int) *RSS {
	return &RSS{
		parser:    gofeed.NewParser(),
		extractor: extractor,
		urls:      urls,
		minBody:   minBodyRunes,
	}
}

func (r *RSS) Name() string { return "rss" }

func (r *RSS) Fetch(ctx context.Context) ([]news.Candidate, error) {
	var all []news.Candidate
	successCount := 0

	for _, url := range r.urls {
		feed, err := r.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			logger.Warn("error parsing feed", "url", url, "err", err)
			continue
		}
		successCount++

		sourceName := feed.Title
		if sourceName == "" {
			sourceName = url
		}

		for _, item := range feed.Items {
			if item == nil || item.Title == "" {
				continue
			}
			all = append(all, r.toCandidate(ctx, sourceName, item))
		}
	}

	if successCount == 0 && len(r.urls) > 0 {
		return nil, fmt.Errorf("all %d feeds failed", len(r.urls))
	}
	logger.Info("processed feeds", "ok", successCount, "total", len(r.urls))
	return all, nil
}

func (r *RSS) toCandidate(ctx context.Context, sourceName string, item *gofeed.Item) news.Candidate {
	body := item.Description
	if item.Content != "" {
		body = item.Content
	}

	if r.extractor != nil && utf8.RuneCountInString(body) < r.minBody && item.Link != "" {
		if full, err := r.extractor.ExtractText(ctx, item.Link); err == nil {
			body = full
		} else {
			logger.Debug("full-text extraction failed, keeping summary", "link", item.Link, "err", err)
		}
	}

	author := ""
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		author = item.Authors[0].Name
	}

	candidate := news.Candidate{
		Title:       item.Title,
		Body:        body,
		Source:      sourceName,
		Permalink:   item.Link,
		ExternalURL: item.Link,
		Author:      author,
		Tags:        item.Categories,
	}
	if item.Image != nil && item.Image.URL != "" {
		candidate.ExternalURL = item.Image.URL
	}
	if item.PublishedParsed != nil {
		candidate.Published = *item.PublishedParsed
	}
	return candidate
}
