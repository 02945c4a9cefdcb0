// Package fetch pulls raw items from external sources and normalizes
// them into the common candidate shape. Each fetcher is best-effort: a
// malformed entry is skipped, a dead source yields zero candidates.
package fetch

import (
	"context"
	"sync"

	"github.com/techpulse/newsfeed/internal/logger"
	"github.com/techpulse/newsfeed/internal/news"
)

// Fetcher retrieves candidates from one external source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]news.Candidate, error)
}

// FetchAll fans out to all fetchers concurrently and merges their
// results. A failed fetcher contributes nothing; the run continues.
func FetchAll(ctx context.Context, fetchers []Fetcher) []news.Candidate {
	type result struct {
		name  string
		items []news.Candidate
		err   error
	}

	results := make([]result, len(fetchers))
	var wg sync.WaitGroup

	for i, f := range fetchers {
		wg.Add(1)
		go func(i int, f Fetcher) {
			defer wg.Done()
			items, err := f.Fetch(ctx)
			results[i] = result{name: f.Name(), items: items, err: err}
		}(i, f)
	}
	wg.Wait()

	var all []news.Candidate
	for _, r := range results {
		if r.err != nil {
			logger.Warn("source unavailable, skipping", "source", r.name, "err", r.err)
			continue
		}
		logger.Info("fetched candidates", "source", r.name, "count", len(r.items))
		all = append(all, r.items...)
	}
	return all
}
