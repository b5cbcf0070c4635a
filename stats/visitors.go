package stats

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Statistics tracks visitors and analysis request outcomes
type Statistics struct {
	UniqueVisitors   map[string]time.Time `json:"uniqueVisitors"`   // IP -> Last Visit Time
	AnalysisRequests int                  `json:"analysisRequests"` // Total number of analysis requests
	ErrorCount       int                  `json:"errorCount"`       // Number of failed requests
	PopularURLs      map[string]int       `json:"popularUrls"`      // URL -> Count
	AverageLoadTime  float64              `json:"averageLoadTime"`  // Average handling time in milliseconds
	TotalLoadTime    float64              `json:"totalLoadTime"`
	RequestCount     int                  `json:"requestCount"`
	LastPersisted    time.Time            `json:"lastPersisted"`

	mutex    sync.RWMutex
	filePath string
}

// URLCount pairs an analyzed URL with how often it was requested
type URLCount struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// NewStatistics creates a visitor tracker, loading any persisted state
// from dataDir
func NewStatistics(dataDir string) (*Statistics, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Statistics{
		UniqueVisitors: make(map[string]time.Time),
		PopularURLs:    make(map[string]int),
		LastPersisted:  time.Now(),
		filePath:       filepath.Join(dataDir, "statistics.json"),
	}

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load statistics: %w", err)
	}

	return s, nil
}

// load reads persisted statistics, if any
func (s *Statistics) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return err
	}

	if s.UniqueVisitors == nil {
		s.UniqueVisitors = make(map[string]time.Time)
	}
	if s.PopularURLs == nil {
		s.PopularURLs = make(map[string]int)
	}

	return nil
}

// Save persists the statistics to disk
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("could not write statistics file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("could not rename statistics file: %w", err)
	}

	return nil
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// TrackAnalysis records an analysis request
func (s *Statistics) TrackAnalysis(targetURL string, loadTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AnalysisRequests++

	// Clean the URL before storing
	cleanedURL := cleanURL(targetURL)
	// Only track non-empty URLs (those that passed our filtering)
	if cleanedURL != "" {
		s.PopularURLs[cleanedURL]++
	}

	if hasError {
		s.ErrorCount++
	}

	// Update average load time
	s.TotalLoadTime += loadTime
	s.RequestCount++
	s.AverageLoadTime = s.TotalLoadTime / float64(s.RequestCount)
}

// cleanURL removes API paths and query parameters, returns just the main URL
func cleanURL(urlStr string) string {
	if urlStr == "" {
		return ""
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}

	// Don't track our own API URLs
	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") ||
		strings.Contains(strings.ToLower(u.Path), "/api/") {
		return ""
	}

	// Build clean URL with just scheme and host
	cleaned := u.Scheme + "://" + u.Host

	// Add path if it exists and isn't just "/"
	if u.Path != "" && u.Path != "/" {
		cleaned += u.Path
	}

	// Trim trailing slash
	return strings.TrimSuffix(cleaned, "/")
}

// UniqueVisitorCount returns the number of unique visitors in the last 24 hours
func (s *Statistics) UniqueVisitorCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.uniqueVisitorCountLocked()
}

func (s *Statistics) uniqueVisitorCountLocked() int {
	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}

	return count
}

// TopURLs returns the n most analyzed URLs, most requested first
func (s *Statistics) TopURLs(n int) []URLCount {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.topURLsLocked(n)
}

func (s *Statistics) topURLsLocked(n int) []URLCount {
	counts := make([]URLCount, 0, len(s.PopularURLs))
	for u, c := range s.PopularURLs {
		counts = append(counts, URLCount{URL: u, Count: c})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].URL < counts[j].URL
	})

	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// ErrorRate returns the error rate as a percentage
func (s *Statistics) ErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.errorRateLocked()
}

func (s *Statistics) errorRateLocked() float64 {
	if s.AnalysisRequests == 0 {
		return 0
	}
	return (float64(s.ErrorCount) / float64(s.AnalysisRequests)) * 100
}

// Snapshot returns the current statistics. Popular URLs are only included
// in development mode.
func (s *Statistics) Snapshot(devMode bool) map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	snapshot := map[string]interface{}{
		"uniqueVisitors24h": s.uniqueVisitorCountLocked(),
		"totalRequests":     s.AnalysisRequests,
		"errorRate":         s.errorRateLocked(),
		"averageLoadTime":   s.AverageLoadTime,
	}

	if devMode {
		snapshot["popularUrls"] = s.topURLsLocked(5)
	}

	return snapshot
}
