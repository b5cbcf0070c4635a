package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/seo-insight/backend/fetcher"
	"github.com/seo-insight/backend/metrics"
	"github.com/seo-insight/backend/stats"
)

// Analyze parses html and runs the full analysis pipeline against sourceURL.
// It is a pure function: identical input always produces an identical
// report. It fails only when the markup cannot be parsed at all.
func Analyze(html, sourceURL string) (*AnalysisReport, error) {
	doc, err := ParseDocument(html, sourceURL)
	if err != nil {
		return nil, err
	}
	return analyzeDocument(doc), nil
}

// analyzeDocument runs the seven extractors, the aggregator, and the
// classifier over one parsed document.
func analyzeDocument(doc *Document) *AnalysisReport {
	report := &AnalysisReport{
		URL:         doc.SourceURL(),
		MetaTags:    analyzeMetaTags(doc),
		Headings:    analyzeHeadings(doc),
		Images:      analyzeImages(doc),
		Links:       analyzeLinks(doc),
		Performance: estimatePerformance(doc),
		Mobile:      analyzeMobile(doc),
		Content:     analyzeContent(doc),
	}

	report.Title = report.MetaTags.Title.Text
	report.Description = report.MetaTags.Description.Text
	report.SEOScore = calculateOverallScore(report)
	report.CriticalIssues, report.Strengths, report.ImprovementAreas = classifyFindings(report)
	return report
}

// Cache entry with expiration
type cacheEntry struct {
	report    *AnalysisReport
	timestamp time.Time
}

// CacheStats provides statistics about the analyzer's result cache
type CacheStats struct {
	Entries int           `json:"entries"`
	Hits    int           `json:"hits"`
	Misses  int           `json:"misses"`
	TTL     time.Duration `json:"ttl"`
}

// Config configures the analysis service.
type Config struct {
	Fetcher         *fetcher.Fetcher
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	DataDir         string
	CacheTTL        time.Duration
	MaxCacheSize    int
	CleanupInterval time.Duration
}

// Analyzer runs the fetch-and-analyze flow for URLs, caching results
type Analyzer struct {
	fetcher         *fetcher.Fetcher
	logger          *zap.Logger
	metrics         *metrics.Metrics
	stats           *stats.Storage
	cache           map[string]cacheEntry
	cacheMutex      sync.RWMutex
	cacheTTL        time.Duration
	maxCacheSize    int
	cleanupInterval time.Duration
	lastCleanup     time.Time
	flight          singleflight.Group
	done            chan struct{}
}

// New creates a new Analyzer instance
func New(cfg Config) (*Analyzer, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("analyzer requires a fetcher")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	if cfg.MaxCacheSize <= 0 {
		cfg.MaxCacheSize = 1000
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	statsStorage, err := stats.NewStorage(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stats storage: %w", err)
	}

	a := &Analyzer{
		fetcher:         cfg.Fetcher,
		logger:          cfg.Logger,
		metrics:         cfg.Metrics,
		stats:           statsStorage,
		cache:           make(map[string]cacheEntry),
		cacheTTL:        cfg.CacheTTL,
		maxCacheSize:    cfg.MaxCacheSize,
		cleanupInterval: cfg.CleanupInterval,
		lastCleanup:     time.Now(),
		done:            make(chan struct{}),
	}

	go a.periodicCleanup()

	return a, nil
}

// AnalyzeURL fetches rawURL and runs the full analysis. Repeated requests
// inside the cache TTL are served from the cache, and concurrent requests
// for the same URL share a single fetch and analysis.
func (a *Analyzer) AnalyzeURL(ctx context.Context, rawURL string) (*AnalysisReport, error) {
	a.cacheMutex.RLock()
	needsCleanup := time.Since(a.lastCleanup) > a.cleanupInterval
	a.cacheMutex.RUnlock()
	if needsCleanup {
		go a.cleanup()
	}

	key := cacheKey(rawURL)
	if report, ok := a.cachedReport(key); ok {
		a.recordCacheHit()
		return report, nil
	}

	result, err, _ := a.flight.Do(key, func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have
		// populated the cache while this one was queued.
		if report, ok := a.cachedReport(key); ok {
			a.recordCacheHit()
			return report, nil
		}
		a.stats.IncrementStats(0, 1, 0, 0)
		a.metrics.CacheMisses.Inc()

		report, err := a.analyzeRemote(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		a.storeReport(key, report)
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*AnalysisReport), nil
}

// analyzeRemote performs the uncached fetch, parse, and analysis.
func (a *Analyzer) analyzeRemote(ctx context.Context, rawURL string) (*AnalysisReport, error) {
	start := time.Now()

	html, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		a.stats.IncrementStats(0, 0, 1, 0)
		a.metrics.AnalysesTotal.WithLabelValues("fetch_error").Inc()
		var fetchErr *fetcher.FetchError
		if errors.As(err, &fetchErr) {
			a.metrics.FetchErrors.WithLabelValues(string(fetchErr.Kind)).Inc()
		}
		a.logger.Warn("fetch failed",
			zap.String("url", rawURL),
			zap.Error(err))
		return nil, err
	}

	report, err := Analyze(html, rawURL)
	if err != nil {
		a.stats.IncrementStats(0, 0, 0, 1)
		a.metrics.AnalysesTotal.WithLabelValues("parse_error").Inc()
		a.logger.Warn("parse failed",
			zap.String("url", rawURL),
			zap.Error(err))
		return nil, err
	}

	// Best effort. A failed probe leaves the robots block empty rather
	// than failing the analysis.
	if robots, robotsErr := a.fetcher.Robots(ctx, rawURL); robotsErr == nil {
		report.Robots = robots
	}

	elapsed := time.Since(start)
	a.metrics.AnalysesTotal.WithLabelValues("ok").Inc()
	a.metrics.AnalysisDuration.Observe(elapsed.Seconds())
	a.logger.Info("analysis complete",
		zap.String("url", rawURL),
		zap.Int("seoScore", report.SEOScore),
		zap.Duration("elapsed", elapsed))
	return report, nil
}

func (a *Analyzer) recordCacheHit() {
	a.stats.IncrementStats(1, 0, 0, 0)
	a.metrics.CacheHits.Inc()
}

func (a *Analyzer) cachedReport(key string) (*AnalysisReport, bool) {
	a.cacheMutex.RLock()
	defer a.cacheMutex.RUnlock()

	entry, found := a.cache[key]
	if !found || time.Since(entry.timestamp) >= a.cacheTTL {
		return nil, false
	}
	return entry.report, true
}

func (a *Analyzer) storeReport(key string, report *AnalysisReport) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()

	a.cache[key] = cacheEntry{
		report:    report,
		timestamp: time.Now(),
	}
}

// generateCacheKey hashes the URL into a fixed-width cache key
func cacheKey(url string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(url))
}

// IsCached checks if a URL is in the cache and not expired
func (a *Analyzer) IsCached(url string) bool {
	_, ok := a.cachedReport(cacheKey(url))
	return ok
}

// SetCacheTTL sets the cache TTL
func (a *Analyzer) SetCacheTTL(ttl time.Duration) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cacheTTL = ttl
}

// ClearCache clears the result cache
func (a *Analyzer) ClearCache() {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cache = make(map[string]cacheEntry)
}

// CacheStats returns statistics about the result cache
func (a *Analyzer) CacheStats() CacheStats {
	current := a.stats.GetCurrentStats()

	a.cacheMutex.RLock()
	entries := len(a.cache)
	ttl := a.cacheTTL
	a.cacheMutex.RUnlock()

	return CacheStats{
		Entries: entries,
		Hits:    current.AnalysisCacheHits,
		Misses:  current.AnalysisCacheMisses,
		TTL:     ttl,
	}
}

// periodicCleanup removes expired cache entries until Shutdown.
func (a *Analyzer) periodicCleanup() {
	ticker := time.NewTicker(a.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.cleanup()
			a.stats.Cleanup()
		case <-a.done:
			return
		}
	}
}

// cleanup removes expired entries and enforces the cache size limit.
func (a *Analyzer) cleanup() {
	now := time.Now()

	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()

	for key, entry := range a.cache {
		if now.Sub(entry.timestamp) > a.cacheTTL {
			delete(a.cache, key)
		}
	}

	// If still over the size limit, drop the oldest entries.
	if len(a.cache) > a.maxCacheSize {
		entries := make([]struct {
			key       string
			timestamp time.Time
		}, 0, len(a.cache))

		for key, entry := range a.cache {
			entries = append(entries, struct {
				key       string
				timestamp time.Time
			}{key, entry.timestamp})
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].timestamp.Before(entries[j].timestamp)
		})

		for i := 0; i < len(entries)-a.maxCacheSize; i++ {
			delete(a.cache, entries[i].key)
		}
	}

	a.lastCleanup = now
}

// Shutdown stops the cleanup goroutine and flushes statistics to disk.
func (a *Analyzer) Shutdown() error {
	if a == nil {
		return nil
	}

	close(a.done)

	if a.stats != nil {
		if err := a.stats.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown stats storage: %w", err)
		}
	}

	a.cacheMutex.Lock()
	a.cache = nil
	a.cacheMutex.Unlock()

	return nil
}
