// Package app wires configuration into the pipeline and scheduler.
package app

import (
	"context"
	"fmt"

	"github.com/techpulse/newsfeed/internal/category"
	"github.com/techpulse/newsfeed/internal/config"
	"github.com/techpulse/newsfeed/internal/fetch"
	"github.com/techpulse/newsfeed/internal/httpclient"
	"github.com/techpulse/newsfeed/internal/image"
	"github.com/techpulse/newsfeed/internal/logger"
	"github.com/techpulse/newsfeed/internal/pipeline"
	"github.com/techpulse/newsfeed/internal/retry"
	"github.com/techpulse/newsfeed/internal/scheduler"
	"github.com/techpulse/newsfeed/internal/scraper"
	"github.com/techpulse/newsfeed/internal/storage"
	"github.com/techpulse/newsfeed/internal/translate"
)

// Application owns the long-lived collaborators.
type Application struct {
	cfg       *config.Config
	pipeline  *pipeline.Pipeline
	scheduler *scheduler.Scheduler
	repo      *storage.MongoRepository
	cache     *storage.RedisInvalidator
}

// New connects storage collaborators and assembles the pipeline.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	var repo *storage.MongoRepository
	err := retry.Do(ctx, retry.Config{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true}, func() error {
		var connErr error
		repo, connErr = storage.NewMongoRepository(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		return connErr
	})
	if err != nil {
		return nil, fmt.Errorf("article repository: %w", err)
	}

	var cache *storage.RedisInvalidator
	if cfg.RedisAddr != "" {
		cache, err = storage.NewRedisInvalidator(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// Stale caches are tolerable; a dead cache store is not fatal.
			logger.Warn("redis unavailable, cache invalidation disabled", "err", err)
			cache = nil
		}
	}

	detector, err := category.Load(cfg.CategoryConfigPath)
	if err != nil {
		return nil, fmt.Errorf("category table: %w", err)
	}

	translator := translate.New(translate.Options{
		TargetLang:   cfg.TargetLang,
		CharLimit:    cfg.TranslateCharLimit,
		Delay:        cfg.TranslateDelay,
		MaxRequests:  cfg.MaxTranslateRequests,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		Timeout:      cfg.RequestTimeout,
	})

	var store image.ObjectStore
	if cfg.StorageURL != "" && cfg.StorageKey != "" {
		store = storage.NewSupabaseStore(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)
	} else {
		logger.Warn("object storage not configured, articles will have no images")
	}
	enricher := image.New(store, image.Options{
		MaxBytes:       cfg.MaxImageBytes,
		ThumbMaxWidth:  cfg.ThumbMaxWidth,
		ThumbMaxHeight: cfg.ThumbMaxHeight,
		AllowedSources: cfg.ImageSources,
		Timeout:        cfg.RequestTimeout,
	})

	fetchers, err := buildFetchers(cfg)
	if err != nil {
		return nil, err
	}

	var invalidator pipeline.CacheInvalidator
	if cache != nil {
		invalidator = cache
	}

	pipe := pipeline.New(fetchers, repo, invalidator, translator, detector, enricher, pipeline.Options{
		MaxNews:            cfg.MaxNewsLimit,
		SummaryMaxRunes:    cfg.SummaryMaxRunes,
		BodyTranslateLimit: cfg.BodyTranslateLimit,
	})

	sched := scheduler.New(scheduler.RunnerFunc(func(ctx context.Context) error {
		_, err := pipe.Run(ctx)
		return err
	}), scheduler.Options{
		Hour:         cfg.RunHour,
		Minute:       cfg.RunMinute,
		ErrorBackoff: cfg.ErrorBackoff,
	})

	return &Application{
		cfg:       cfg,
		pipeline:  pipe,
		scheduler: sched,
		repo:      repo,
		cache:     cache,
	}, nil
}

func buildFetchers(cfg *config.Config) ([]fetch.Fetcher, error) {
	apiClient := httpclient.New(httpclient.APIClient, cfg.RequestTimeout)
	browserClient := httpclient.New(httpclient.BrowserClient, cfg.RequestTimeout)

	fetchers := []fetch.Fetcher{
		fetch.NewReddit(apiClient, cfg.Subreddits),
		fetch.NewHackerNews(apiClient, cfg.HackerNewsMaxItems),
		fetch.NewDevTo(apiClient, cfg.DevToMaxItems),
		fetch.NewGitHubTrending(browserClient),
	}

	feeds, err := fetch.LoadFeeds(cfg.FeedsConfigPath)
	if err != nil {
		logger.Warn("feeds config not loaded, RSS source disabled", "path", cfg.FeedsConfigPath, "err", err)
		return fetchers, nil
	}
	if len(feeds) > 0 {
		extractor := scraper.New(browserClient)
		fetchers = append(fetchers, fetch.NewRSS(feeds, extractor, cfg.MinRSSBodyRunes))
	}
	return fetchers, nil
}

// RunOnce executes a single pipeline pass.
func (a *Application) RunOnce(ctx context.Context) error {
	stats, err := a.pipeline.Run(ctx)
	logger.Info("run finished",
		"fetched", stats.Fetched,
		"created", stats.Created,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"elapsed", stats.Elapsed)
	return err
}

// Start hands control to the daily scheduler until ctx is cancelled.
func (a *Application) Start(ctx context.Context) error {
	return a.scheduler.Start(ctx)
}

// Close releases storage connections.
func (a *Application) Close(ctx context.Context) {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.repo != nil {
		_ = a.repo.Close(ctx)
	}
}
