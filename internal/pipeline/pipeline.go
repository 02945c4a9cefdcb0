// Package pipeline drives one ingestion run: fetch from all sources,
// deduplicate and rank, enrich each selected candidate, persist unique
// articles and invalidate dependent caches. Per-source and per-item
// failures are isolated; only persistence unavailability aborts a run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/techpulse/newsfeed/internal/fetch"
	"github.com/techpulse/newsfeed/internal/logger"
	"github.com/techpulse/newsfeed/internal/metrics"
	"github.com/techpulse/newsfeed/internal/news"
)

// ErrPersistenceUnavailable marks the only fatal error class: the
// article store cannot be reached. Everything else degrades in place.
var ErrPersistenceUnavailable = errors.New("persistence unavailable")

// ArticleRepository is the persistence contract the pipeline needs.
type ArticleRepository interface {
	FindBySlug(ctx context.Context, slug string) (*news.Article, error)
	Create(ctx context.Context, article *news.Article) error
}

// CacheInvalidator drops read-side cache keys after a successful run.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Translator renders candidate text into the target language.
type Translator interface {
	DetectLanguage(text string) string
	Translate(ctx context.Context, text, sourceLang string) (translated string, degradedChunks int)
}

// CategoryDetector assigns a topic category to a candidate.
type CategoryDetector interface {
	Detect(title, body, source string, tags []string, score int) string
}

// ImageEnricher resolves and stores a candidate image.
type ImageEnricher interface {
	ExtractURL(externalURL, sourceURL, source string) string
	DownloadAndStore(ctx context.Context, itemID, imageURL, altText string) *news.ImageAsset
}

// Stats summarizes one completed run.
type Stats struct {
	Fetched             int
	Created             int
	Skipped             int
	Failed              int
	TranslationDegraded int
	Elapsed             time.Duration
}

// sourceBonus is the fixed per-source priority bonus table.
var sourceBonus = map[string]int{
	"hackernews":      10,
	"github-trending": 5,
	"reddit":          5,
}

// articleType persisted on every pipeline-created article. The cache
// key derived from it matches the read API's per-type listing.
const articleType = "aggregated"

// Options tunes a pipeline run.
type Options struct {
	MaxNews            int
	SummaryMaxRunes    int // summary length fed to translation
	BodyTranslateLimit int // bodies above this stay in the original language
}

// Pipeline wires the collaborators together.
type Pipeline struct {
	fetchers   []fetch.Fetcher
	repo       ArticleRepository
	cache      CacheInvalidator
	translator Translator
	detector   CategoryDetector
	images     ImageEnricher
	opts       Options
}

func New(fetchers []fetch.Fetcher, repo ArticleRepository, cache CacheInvalidator,
	translator Translator, detector CategoryDetector, images ImageEnricher, opts Options) *Pipeline {

	if opts.MaxNews <= 0 {
		opts.MaxNews = news.DefaultLimit
	}
	if opts.SummaryMaxRunes <= 0 {
		opts.SummaryMaxRunes = 300
	}
	if opts.BodyTranslateLimit <= 0 {
		opts.BodyTranslateLimit = 6000
	}

	return &Pipeline{
		fetchers:   fetchers,
		repo:       repo,
		cache:      cache,
		translator: translator,
		detector:   detector,
		images:     images,
		opts:       opts,
	}
}

// Run executes one full pipeline pass. It always returns Stats; the
// error is non-nil only for the fatal persistence-unavailable class.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	runID := uuid.NewString()
	start := time.Now()
	stats := Stats{}
	log := logger.With("run", runID)

	log.Info("pipeline run starting", "sources", len(p.fetchers))

	candidates := fetch.FetchAll(ctx, p.fetchers)
	stats.Fetched = len(candidates)
	metrics.Global.AddFetched(stats.Fetched)

	ranked := news.Aggregate(candidates, p.opts.MaxNews)
	log.Info("candidates ranked", "fetched", stats.Fetched, "selected", len(ranked))

	categories := map[string]bool{}

	for i := range ranked {
		select {
		case <-ctx.Done():
			// Cancellation stops new enrichments; report partial counts.
			stats.Elapsed = time.Since(start)
			log.Warn("run cancelled", "processed", i, "of", len(ranked))
			return stats, nil
		default:
		}

		category, err := p.processItem(ctx, log, &ranked[i], &stats)
		if err != nil {
			stats.Elapsed = time.Since(start)
			metrics.Global.SetError(err.Error())
			return stats, err
		}
		if category != "" {
			categories[category] = true
		}
	}

	if stats.Created > 0 {
		p.invalidateCaches(ctx, log, categories)
	}

	stats.Elapsed = time.Since(start)
	metrics.Global.AddTranslationDegraded(stats.TranslationDegraded)
	metrics.Global.RecordRunDuration(stats.Elapsed)
	metrics.Global.SetLastRun()
	log.Info("pipeline run complete",
		"fetched", stats.Fetched,
		"created", stats.Created,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"degraded", stats.TranslationDegraded,
		"elapsed", stats.Elapsed)
	return stats, nil
}

// processItem enriches and persists one ranked candidate. The returned
// category is non-empty only when an article was created. A non-nil
// error is always persistence-fatal; everything else lands in counters.
func (p *Pipeline) processItem(ctx context.Context, log *slog.Logger, item *news.RankedCandidate, stats *Stats) (category string, fatal error) {

	defer func() {
		if r := recover(); r != nil {
			log.Warn("item panicked, continuing", "title", item.Title, "panic", fmt.Sprint(r))
			stats.Failed++
			metrics.Global.IncrementFailed()
			category, fatal = "", nil
		}
	}()

	sourceLang := p.translator.DetectLanguage(item.Title + " " + item.Body)

	translatedTitle, degraded := p.translator.Translate(ctx, item.Title, sourceLang)
	stats.TranslationDegraded += degraded
	if translatedTitle == "" {
		translatedTitle = item.Title
	}
	item.TranslatedTitle = translatedTitle

	slug := news.Slugify(translatedTitle)
	if slug == "" {
		slug = news.Slugify(item.Title)
	}
	if slug == "" {
		log.Warn("candidate yields empty slug, skipping", "title", item.Title)
		stats.Failed++
		metrics.Global.IncrementFailed()
		return "", nil
	}

	existing, err := p.repo.FindBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	if existing != nil {
		log.Info("duplicate article, skipping", "slug", slug)
		stats.Skipped++
		metrics.Global.IncrementSkipped()
		return "", nil
	}

	item.Category = p.detector.Detect(item.Title, item.Body, item.Source, item.Tags, item.Score)

	summary := truncateRunes(item.Body, p.opts.SummaryMaxRunes)
	item.TranslatedSummary, degraded = p.translator.Translate(ctx, summary, sourceLang)
	stats.TranslationDegraded += degraded
	if item.TranslatedSummary == "" {
		item.TranslatedSummary = summary
	}

	item.TranslatedBody = p.translateBody(ctx, item, sourceLang, stats)

	if p.images != nil {
		if imgURL := p.images.ExtractURL(item.ExternalURL, item.Permalink, item.Source); imgURL != "" {
			item.Image = p.images.DownloadAndStore(ctx, slug, imgURL, item.TranslatedTitle)
			if item.Image != nil {
				metrics.Global.IncrementImagesStored()
			}
		}
	}

	article := p.buildArticle(item, slug)
	if err := p.repo.Create(ctx, article); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	stats.Created++
	metrics.Global.IncrementCreated()
	log.Info("article created", "slug", slug, "category", article.Category, "priority", article.Priority)
	return article.Category, nil
}

// translateBody keeps oversized bodies verbatim with an attribution
// note instead of spending provider quota on them.
func (p *Pipeline) translateBody(ctx context.Context, item *news.RankedCandidate, sourceLang string, stats *Stats) string {
	if item.Body == "" {
		return ""
	}
	if utf8.RuneCountInString(item.Body) > p.opts.BodyTranslateLimit {
		return item.Body + fmt.Sprintf("\n\n(Kaynak: %s, orijinal dil: %s)", item.Source, sourceLang)
	}

	translated, degraded := p.translator.Translate(ctx, item.Body, sourceLang)
	stats.TranslationDegraded += degraded
	if translated == "" {
		return item.Body
	}
	return translated
}

func (p *Pipeline) buildArticle(item *news.RankedCandidate, slug string) *news.Article {
	var authors []string
	if item.Author != "" {
		authors = []string{item.Author}
	}

	socialTags := ""
	if len(item.Tags) > 0 {
		hashed := make([]string, 0, len(item.Tags))
		for _, t := range item.Tags {
			hashed = append(hashed, "#"+strings.ReplaceAll(t, " ", ""))
		}
		socialTags = strings.Join(hashed, " ")
	}

	published := item.Published
	if published.IsZero() {
		published = time.Now().UTC()
	}

	return &news.Article{
		Category:    item.Category,
		Type:        articleType,
		Title:       item.TranslatedTitle,
		Caption:     truncateRunes(item.TranslatedTitle, 120),
		Slug:        slug,
		Keywords:    item.Tags,
		SocialTags:  socialTags,
		Summary:     item.TranslatedSummary,
		Body:        item.TranslatedBody,
		Image:       item.Image,
		Subjects:    item.Tags,
		Authors:     authors,
		PublishedAt: published,
		Priority:    news.Priority(item.Score, bonusFor(item.Source)),
		Active:      true,
	}
}

func bonusFor(source string) int {
	for prefix, bonus := range sourceBonus {
		if strings.HasPrefix(source, prefix) {
			return bonus
		}
	}
	return 0
}

// invalidateCaches drops the article-list key plus per-category and
// per-type keys touched by this run.
func (p *Pipeline) invalidateCaches(ctx context.Context, log *slog.Logger, categories map[string]bool) {
	if p.cache == nil {
		return
	}

	keys := []string{"articles:list"}
	for category := range categories {
		keys = append(keys, "articles:category:"+news.Slugify(category))
	}
	keys = append(keys, "articles:type:"+articleType)

	if err := p.cache.Invalidate(ctx, keys...); err != nil {
		log.Warn("cache invalidation failed", "err", err)
		return
	}
	log.Info("caches invalidated", "keys", len(keys))
}

func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max])) + "..."
}
