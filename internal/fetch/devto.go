package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/techpulse/newsfeed/internal/httpclient"
	"github.com/techpulse/newsfeed/internal/logger"
	"github.com/techpulse/newsfeed/internal/news"
)

const devToBaseURL = "https://dev.to"

// DevTo lists top developer articles from the dev.to public API.
type DevTo struct {
	client   *httpclient.HTTPClient
	baseURL  string
	maxItems int
}

type devToArticle struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	CoverImage  string   `json:"cover_image"`
	Reactions   int      `json:"positive_reactions_count"`
	PublishedAt string   `json:"published_at"`
	TagList     []string `json:"tag_list"`
	User        struct {
		Name string `json:"name"`
	} `json:"user"`
}

func NewDevTo(client *httpclient.HTTPClient, maxItems int) *DevTo {
	if maxItems <= 0 {
		maxItems = 30
	}
	return &DevTo{client: client, baseURL: devToBaseURL, maxItems: maxItems}
}

func (d *DevTo) WithBaseURL(base string) *DevTo {
	d.baseURL = strings.TrimRight(base, "/")
	return d
}

func (d *DevTo) Name() string { return "devto" }

func (d *DevTo) Fetch(ctx context.Context) ([]news.Candidate, error) {
	url := fmt.Sprintf("%s/api/articles?top=1&per_page=%d", d.baseURL, d.maxItems)
	resp, err := d.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode article list: %w", err)
	}

	candidates := make([]news.Candidate, 0, len(raw))
	for _, entry := range raw {
		var art devToArticle
		if err := json.Unmarshal(entry, &art); err != nil {
			logger.Warn("skipping malformed devto entry", "err", err)
			continue
		}
		if art.Title == "" {
			continue
		}

		published := time.Now().UTC()
		if t, err := time.Parse(time.RFC3339, art.PublishedAt); err == nil {
			published = t
		}

		candidates = append(candidates, news.Candidate{
			Title:       art.Title,
			Body:        art.Description,
			Source:      "devto",
			Permalink:   art.URL,
			ExternalURL: art.CoverImage,
			Author:      art.User.Name,
			Score:       art.Reactions,
			Published:   published,
			Tags:        art.TagList,
		})
	}
	return candidates, nil
}
