package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/techpulse/newsfeed/internal/httpclient"
	"github.com/techpulse/newsfeed/internal/news"
)

const githubBaseURL = "https://github.com"

// GitHubTrending scrapes the trending-repositories page. There is no
// official API for it, so this follows the page markup.
type GitHubTrending struct {
	client  *httpclient.HTTPClient
	baseURL string
}

func NewGitHubTrending(client *httpclient.HTTPClient) *GitHubTrending {
	return &GitHubTrending{client: client, baseURL: githubBaseURL}
}

func (g *GitHubTrending) WithBaseURL(base string) *GitHubTrending {
	g.baseURL = strings.TrimRight(base, "/")
	return g
}

func (g *GitHubTrending) Name() string { return "github-trending" }

func (g *GitHubTrending) Fetch(ctx context.Context) ([]news.Candidate, error) {
	resp, err := g.client.Get(ctx, g.baseURL+"/trending")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d from trending page", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse trending page: %w", err)
	}

	now := time.Now().UTC()
	var candidates []news.Candidate

	doc.Find("article.Box-row").Each(func(i int, s *goquery.Selection) {
		link := s.Find("h2 a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		repo := strings.TrimPrefix(strings.TrimSpace(href), "/")
		description := strings.TrimSpace(s.Find("p").First().Text())

		candidates = append(candidates, news.Candidate{
			Title:       repo,
			Body:        description,
			Source:      "github-trending",
			Permalink:   githubBaseURL + href,
			ExternalURL: githubBaseURL + href,
			Author:      strings.SplitN(repo, "/", 2)[0],
			Score:       starsToday(s),
			Published:   now,
			Tags:        []string{"github", "trending"},
		})
	})

	if len(candidates) == 0 {
		return nil, fmt.Errorf("trending page yielded no repositories")
	}
	return candidates, nil
}

// starsToday parses the "123 stars today" span.
func starsToday(s *goquery.Selection) int {
	text := strings.TrimSpace(s.Find("span.d-inline-block.float-sm-right").First().Text())
	if text == "" {
		return 0
	}
	fields := strings.Fields(strings.ReplaceAll(text, ",", ""))
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}
