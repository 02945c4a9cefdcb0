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

const hackerNewsBaseURL = "https://hacker-news.firebaseio.com/v0"

// HackerNews reads the top-stories index and resolves each story.
type HackerNews struct {
	client   *httpclient.HTTPClient
	baseURL  string
	maxItems int
}

type hnItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
	Score int    `json:"score"`
	By    string `json:"by"`
	Time  int64  `json:"time"`
	Type  string `json:"type"`
}

func NewHackerNews(client *httpclient.HTTPClient, maxItems int) *HackerNews {
	if maxItems <= 0 {
		maxItems = 30
	}
	return &HackerNews{client: client, baseURL: hackerNewsBaseURL, maxItems: maxItems}
}

func (h *HackerNews) WithBaseURL(base string) *HackerNews {
	h.baseURL = strings.TrimRight(base, "/")
	return h
}

func (h *HackerNews) Name() string { return "hackernews" }

func (h *HackerNews) Fetch(ctx context.Context) ([]news.Candidate, error) {
	ids, err := h.topStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("top stories index: %w", err)
	}
	if len(ids) > h.maxItems {
		ids = ids[:h.maxItems]
	}

	candidates := make([]news.Candidate, 0, len(ids))
	for _, id := range ids {
		item, err := h.story(ctx, id)
		if err != nil {
			logger.Warn("skipping hackernews story", "id", id, "err", err)
			continue
		}
		if item.Title == "" || item.Type != "story" {
			continue
		}

		permalink := fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
		external := item.URL
		if external == "" {
			external = permalink
		}

		candidates = append(candidates, news.Candidate{
			Title:       item.Title,
			Body:        item.Text,
			Source:      "hackernews",
			Permalink:   permalink,
			ExternalURL: external,
			Author:      item.By,
			Score:       item.Score,
			Published:   time.Unix(item.Time, 0).UTC(),
		})
	}
	return candidates, nil
}

func (h *HackerNews) topStories(ctx context.Context) ([]int64, error) {
	resp, err := h.client.Get(ctx, h.baseURL+"/topstories.json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var ids []int64
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (h *HackerNews) story(ctx context.Context, id int64) (*hnItem, error) {
	resp, err := h.client.Get(ctx, fmt.Sprintf("%s/item/%d.json", h.baseURL, id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var item hnItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}
