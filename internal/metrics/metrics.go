package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	TotalFetched        int64
	ArticlesCreated     int64
	DuplicatesSkipped   int64
	ItemsFailed         int64
	TranslationDegraded int64
	ImagesStored        int64

	// Timings
	LastRunDuration    time.Duration
	AverageRunDuration time.Duration
	TotalRunDuration   time.Duration
	RunCount           int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalFetched += int64(n)
}

func (m *Metrics) IncrementCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesCreated++
}

func (m *Metrics) IncrementSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesSkipped++
}

func (m *Metrics) IncrementFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsFailed++
}

func (m *Metrics) AddTranslationDegraded(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationDegraded += int64(n)
}

func (m *Metrics) IncrementImagesStored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImagesStored++
}

func (m *Metrics) RecordRunDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRunDuration = duration
	m.TotalRunDuration += duration
	m.RunCount++

	if m.RunCount > 0 {
		m.AverageRunDuration = m.TotalRunDuration / time.Duration(m.RunCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"total_fetched":           m.TotalFetched,
		"articles_created":        m.ArticlesCreated,
		"duplicates_skipped":      m.DuplicatesSkipped,
		"items_failed":            m.ItemsFailed,
		"translation_degraded":    m.TranslationDegraded,
		"images_stored":           m.ImagesStored,
		"last_run_duration_ms":    m.LastRunDuration.Milliseconds(),
		"average_run_duration_ms": m.AverageRunDuration.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
