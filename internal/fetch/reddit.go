package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/techpulse/newsfeed/internal/httpclient"
	"github.com/techpulse/newsfeed/internal/logger"
	"github.com/techpulse/newsfeed/internal/news"
	"github.com/techpulse/newsfeed/internal/retry"
)

const redditBaseURL = "https://www.reddit.com"

// Reddit fetches the hot listing of each configured subreddit.
type Reddit struct {
	client     *httpclient.HTTPClient
	baseURL    string
	subreddits []string
	perListing int
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Permalink  string  `json:"permalink"`
	URL        string  `json:"url"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Author     string  `json:"author"`
	Preview    struct {
		Images []struct {
			Source struct {
				URL string `json:"url"`
			} `json:"source"`
		} `json:"images"`
	} `json:"preview"`
}

func NewReddit(client *httpclient.HTTPClient, subreddits []string) *Reddit {
	return &Reddit{
		client:     client,
		baseURL:    redditBaseURL,
		subreddits: subreddits,
		perListing: 50,
	}
}

// WithBaseURL points the fetcher at a different host (tests).
func (r *Reddit) WithBaseURL(base string) *Reddit {
	r.baseURL = strings.TrimRight(base, "/")
	return r
}

func (r *Reddit) Name() string { return "reddit" }

func (r *Reddit) Fetch(ctx context.Context) ([]news.Candidate, error) {
	var all []news.Candidate
	failed := 0

	for _, sub := range r.subreddits {
		items, err := r.fetchSubreddit(ctx, sub)
		if err != nil {
			logger.Warn("subreddit listing failed", "subreddit", sub, "err", err)
			failed++
			continue
		}
		all = append(all, items...)
	}

	if failed == len(r.subreddits) && failed > 0 {
		return nil, fmt.Errorf("all %d subreddit listings failed", failed)
	}
	return all, nil
}

func (r *Reddit) fetchSubreddit(ctx context.Context, sub string) ([]news.Candidate, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", r.baseURL, sub, r.perListing)

	// Reddit rate-limits aggressively; one retry rides out transient 429s.
	var listing redditListing
	err := retry.Do(ctx, retry.Config{MaxAttempts: 2, Delay: 500 * time.Millisecond}, func() error {
		resp, err := r.client.Get(ctx, url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d from %s", resp.StatusCode, url)
		}
		if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
			return fmt.Errorf("decode listing: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]news.Candidate, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		var post redditPost
		if err := json.Unmarshal(child.Data, &post); err != nil {
			logger.Warn("skipping malformed reddit entry", "subreddit", sub, "err", err)
			continue
		}
		if post.Title == "" {
			continue
		}

		external := post.URL
		// Self posts point back at reddit; a preview image is the only
		// usable external URL then.
		if preview := post.previewURL(); preview != "" && (external == "" || strings.Contains(external, "reddit.com")) {
			external = preview
		}

		candidates = append(candidates, news.Candidate{
			Title:       post.Title,
			Body:        post.Selftext,
			Source:      "reddit/" + sub,
			Permalink:   redditBaseURL + post.Permalink,
			ExternalURL: external,
			Author:      post.Author,
			Score:       post.Score,
			Published:   time.Unix(int64(post.CreatedUTC), 0).UTC(),
			Tags:        []string{sub},
		})
	}
	return candidates, nil
}

func (p *redditPost) previewURL() string {
	if len(p.Preview.Images) == 0 {
		return ""
	}
	// Preview URLs come HTML-escaped in the listing JSON.
	return html.UnescapeString(p.Preview.Images[0].Source.URL)
}
