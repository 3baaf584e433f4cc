package stats

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MonthlyStats tracks engine activity for a specific month: how often each
// resolution stage answered, and how many analysis calls ran.
type MonthlyStats struct {
	ExternalResolutions  int       `json:"external_resolutions"`
	InternalResolutions  int       `json:"internal_resolutions"`
	EstimatedResolutions int       `json:"estimated_resolutions"`
	ContentAnalyses      int       `json:"content_analyses"`
	LinkAudits           int       `json:"link_audits"`
	LastUpdated          time.Time `json:"last_updated"`
}

// Storage handles persistent storage of monthly engine statistics.
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	writeBuffer chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
}

// NewStorage creates a statistics storage instance backed by a JSON file in
// dataDir, loading any existing data.
func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return json.Unmarshal(data, &s.stats)
}

// save writes statistics to disk via a temp file and rename so readers never
// observe a partial file.
func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// backgroundWriter handles periodic and requested writes to disk.
func (s *Storage) backgroundWriter() {
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

// getCurrentMonth returns the current month key in YYYY-MM format.
func getCurrentMonth() string {
	return time.Now().Format("2006-01")
}

// requestWrite signals that a write to disk is needed.
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
		// Write already pending
	}
}

func (s *Storage) currentLocked() *MonthlyStats {
	month := getCurrentMonth()
	m, exists := s.stats[month]
	if !exists {
		m = &MonthlyStats{}
		s.stats[month] = m
	}
	m.LastUpdated = time.Now()
	return m
}

// RecordResolution counts one keyword resolution by the stage that answered.
func (s *Storage) RecordResolution(source string) {
	s.mutex.Lock()
	m := s.currentLocked()
	switch source {
	case "external":
		m.ExternalResolutions++
	case "internal":
		m.InternalResolutions++
	case "estimated":
		m.EstimatedResolutions++
	}
	s.mutex.Unlock()

	s.requestWrite()
}

// RecordAnalysis counts one content-optimization analysis.
func (s *Storage) RecordAnalysis() {
	s.mutex.Lock()
	s.currentLocked().ContentAnalyses++
	s.mutex.Unlock()

	s.requestWrite()
}

// RecordLinkAudit counts one link opportunity scan or distribution audit.
func (s *Storage) RecordLinkAudit() {
	s.mutex.Lock()
	s.currentLocked().LinkAudits++
	s.mutex.Unlock()

	s.requestWrite()
}

// GetCurrentStats returns statistics for the current month.
func (s *Storage) GetCurrentStats() MonthlyStats {
	month := getCurrentMonth()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if m, exists := s.stats[month]; exists {
		return *m
	}
	return MonthlyStats{}
}

// GetMonthlyStats returns statistics for a specific month.
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if m, exists := s.stats[yearMonth]; exists {
		return *m, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths returns all months that have statistics, newest first.
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	return months
}

// Cleanup drops statistics older than the current and previous month.
func (s *Storage) Cleanup() {
	currentTime := time.Now()
	currentMonth := currentTime.Format("2006-01")
	previousMonth := currentTime.AddDate(0, -1, 0).Format("2006-01")

	s.mutex.Lock()
	for key := range s.stats {
		if key != currentMonth && key != previousMonth {
			delete(s.stats, key)
		}
	}
	s.mutex.Unlock()

	s.requestWrite()

	log.Printf("Retained statistics for months: %s, %s", currentMonth, previousMonth)
}

// Shutdown stops the background writer and performs a final synchronous save.
func (s *Storage) Shutdown() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return s.save()
}
