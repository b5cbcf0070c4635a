package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seo-insight/backend/analyzer"
)

// StoredReport is an analysis report with storage identity.
type StoredReport struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	analyzer.AnalysisReport
}

// Store keeps the most recent analysis reports in memory and persists them
// to a JSON file in the background. Each URL keeps only its latest report.
type Store struct {
	mutex       sync.RWMutex
	byURL       map[string]*StoredReport
	order       []string // analyzed URLs, oldest first
	maxEntries  int
	filePath    string
	writeBuffer chan struct{}
	done        chan struct{}
}

// New creates a report store rooted at dataDir.
func New(dataDir string, maxEntries int) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if maxEntries <= 0 {
		maxEntries = 100
	}

	s := &Store{
		byURL:       make(map[string]*StoredReport),
		maxEntries:  maxEntries,
		filePath:    filepath.Join(dataDir, "reports.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

// load reads persisted reports from file
func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var reports []*StoredReport
	if err := json.Unmarshal(data, &reports); err != nil {
		return fmt.Errorf("failed to decode reports file: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, report := range reports {
		if _, exists := s.byURL[report.URL]; exists {
			continue
		}
		s.byURL[report.URL] = report
		s.order = append(s.order, report.URL)
	}
	s.evictLocked()

	return nil
}

// Save records a report, replacing any previous report for the same URL,
// and returns the stored copy.
func (s *Store) Save(report *analyzer.AnalysisReport) *StoredReport {
	stored := &StoredReport{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		AnalysisReport: *report,
	}

	s.mutex.Lock()
	if _, exists := s.byURL[report.URL]; exists {
		for i, u := range s.order {
			if u == report.URL {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.byURL[report.URL] = stored
	s.order = append(s.order, report.URL)
	s.evictLocked()
	s.mutex.Unlock()

	s.requestWrite()
	return stored
}

// evictLocked drops the oldest reports once the store is over capacity.
func (s *Store) evictLocked() {
	for len(s.order) > s.maxEntries {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byURL, oldest)
	}
}

// FindByURL returns the most recent stored report for url.
func (s *Store) FindByURL(url string) (*StoredReport, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	report, ok := s.byURL[url]
	return report, ok
}

// Recent returns up to n stored reports, newest first.
func (s *Store) Recent(n int) []*StoredReport {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if n <= 0 || n > len(s.order) {
		n = len(s.order)
	}

	reports := make([]*StoredReport, 0, n)
	for i := len(s.order) - 1; i >= len(s.order)-n; i-- {
		reports = append(reports, s.byURL[s.order[i]])
	}
	return reports
}

// Count returns the number of stored reports.
func (s *Store) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.order)
}

// save writes all reports to file
func (s *Store) save() error {
	s.mutex.RLock()
	reports := make([]*StoredReport, 0, len(s.order))
	for _, u := range s.order {
		reports = append(reports, s.byURL[u])
	}
	data, err := json.Marshal(reports)
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}

	// Write to temporary file first
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	// Rename temporary file to actual file (atomic operation)
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile) // Clean up temp file if rename fails
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// backgroundWriter handles periodic writes to disk
func (s *Store) backgroundWriter() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
			s.save()
		case <-ticker.C:
			s.save()
		case <-s.done:
			return
		}
	}
}

// requestWrite signals that a write to disk is needed
func (s *Store) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
	}
}

// Shutdown stops the background writer and flushes reports to disk.
func (s *Store) Shutdown() error {
	close(s.done)
	return s.save()
}
