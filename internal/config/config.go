package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Persistence settings
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// Cache settings
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Object storage settings
	StorageURL    string
	StorageKey    string
	StorageBucket string

	// Translation settings
	OpenAIAPIKey         string
	TargetLang           string
	TranslateCharLimit   int           // provider-imposed max input per call
	TranslateDelay       time.Duration // fixed delay between provider calls
	MaxTranslateRequests int           // per-day cap (0 = unlimited)
	BodyTranslateLimit   int           // bodies above this are kept verbatim
	SummaryMaxRunes      int

	// Fetcher settings
	Subreddits         []string
	HackerNewsMaxItems int
	DevToMaxItems      int
	FeedsConfigPath    string
	CategoryConfigPath string
	MinRSSBodyRunes    int // below this the full article text is scraped
	MaxNewsLimit       int

	// Image settings
	MaxImageBytes  int64
	ThumbMaxWidth  int
	ThumbMaxHeight int
	ImageSources   []string // sources whose external URLs are always image candidates

	// App settings
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration

	// Scheduler settings
	RunHour      int
	RunMinute    int
	ErrorBackoff time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		MongoDatabase:        "newsfeed",
		MongoCollection:      "articles",
		RedisAddr:            "localhost:6379",
		StorageBucket:        "news-images",
		TargetLang:           "tr",
		TranslateCharLimit:   4000,
		TranslateDelay:       1 * time.Second,
		MaxTranslateRequests: 0,
		BodyTranslateLimit:   6000,
		SummaryMaxRunes:      300,
		Subreddits:           []string{"programming", "worldnews"},
		HackerNewsMaxItems:   30,
		DevToMaxItems:        30,
		FeedsConfigPath:      "configs/feeds.yaml",
		CategoryConfigPath:   "configs/categories.yaml",
		MinRSSBodyRunes:      200,
		MaxNewsLimit:         50,
		MaxImageBytes:        5 * 1024 * 1024,
		ThumbMaxWidth:        400,
		ThumbMaxHeight:       300,
		ImageSources:         []string{"reddit"},
		RequestTimeout:       30 * time.Second,
		RetryAttempts:        3,
		RetryDelay:           5 * time.Second,
		RunHour:              6,
		RunMinute:            0,
		ErrorBackoff:         1 * time.Hour,
	}

	// Load from environment
	cfg.MongoURI = os.Getenv("MONGO_URI")
	cfg.MongoDatabase = getEnvOrDefault("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.MongoCollection = getEnvOrDefault("MONGO_COLLECTION", cfg.MongoCollection)

	cfg.RedisAddr = getEnvOrDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvIntOrDefault("REDIS_DB", 0)

	cfg.StorageURL = os.Getenv("STORAGE_URL")
	cfg.StorageKey = os.Getenv("STORAGE_KEY")
	cfg.StorageBucket = getEnvOrDefault("STORAGE_BUCKET", cfg.StorageBucket)

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.TargetLang = getEnvOrDefault("TARGET_LANG", cfg.TargetLang)
	cfg.TranslateCharLimit = getEnvIntOrDefault("TRANSLATE_CHAR_LIMIT", cfg.TranslateCharLimit)
	cfg.TranslateDelay = getEnvDurationOrDefault("TRANSLATE_DELAY", cfg.TranslateDelay)
	cfg.MaxTranslateRequests = getEnvIntOrDefault("MAX_TRANSLATE_REQUESTS", cfg.MaxTranslateRequests)
	cfg.BodyTranslateLimit = getEnvIntOrDefault("BODY_TRANSLATE_LIMIT", cfg.BodyTranslateLimit)
	cfg.SummaryMaxRunes = getEnvIntOrDefault("SUMMARY_MAX_RUNES", cfg.SummaryMaxRunes)

	if v := os.Getenv("SUBREDDITS"); v != "" {
		cfg.Subreddits = splitList(v)
	}
	cfg.HackerNewsMaxItems = getEnvIntOrDefault("HN_MAX_ITEMS", cfg.HackerNewsMaxItems)
	cfg.DevToMaxItems = getEnvIntOrDefault("DEVTO_MAX_ITEMS", cfg.DevToMaxItems)
	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.CategoryConfigPath = getEnvOrDefault("CATEGORY_CONFIG_PATH", cfg.CategoryConfigPath)
	cfg.MinRSSBodyRunes = getEnvIntOrDefault("MIN_RSS_BODY_RUNES", cfg.MinRSSBodyRunes)
	cfg.MaxNewsLimit = getEnvIntOrDefault("MAX_NEWS_LIMIT", cfg.MaxNewsLimit)

	if v := os.Getenv("MAX_IMAGE_BYTES"); v != "" {
		if val, err := strconv.ParseInt(v, 10, 64); err == nil && val > 0 {
			cfg.MaxImageBytes = val
		}
	}
	cfg.ThumbMaxWidth = getEnvIntOrDefault("THUMB_MAX_WIDTH", cfg.ThumbMaxWidth)
	cfg.ThumbMaxHeight = getEnvIntOrDefault("THUMB_MAX_HEIGHT", cfg.ThumbMaxHeight)
	if v := os.Getenv("IMAGE_SOURCES"); v != "" {
		cfg.ImageSources = splitList(v)
	}

	cfg.RequestTimeout = getEnvDurationOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.RetryDelay = getEnvDurationOrDefault("RETRY_DELAY", cfg.RetryDelay)

	cfg.RunHour = getEnvIntOrDefault("RUN_HOUR", cfg.RunHour)
	cfg.RunMinute = getEnvIntOrDefault("RUN_MINUTE", cfg.RunMinute)
	cfg.ErrorBackoff = getEnvDurationOrDefault("ERROR_BACKOFF", cfg.ErrorBackoff)

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.TranslateCharLimit <= 0 {
		return fmt.Errorf("TRANSLATE_CHAR_LIMIT must be positive")
	}
	if c.RunHour < 0 || c.RunHour > 23 {
		return fmt.Errorf("RUN_HOUR must be within 0..23")
	}
	if c.RunMinute < 0 || c.RunMinute > 59 {
		return fmt.Errorf("RUN_MINUTE must be within 0..59")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
