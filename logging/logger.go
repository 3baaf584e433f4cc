package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Environment variable name for controlling statistics visibility
const ENV_DEV_MODE = "DEV_MODE"

// Statistics represents the collected request statistics
type Statistics struct {
	UniqueVisitors  map[string]time.Time `json:"uniqueVisitors"`  // IP -> Last Visit Time
	EngineRequests  int                  `json:"engineRequests"`  // Total number of engine requests
	ErrorCount      int                  `json:"errorCount"`      // Number of errors
	PopularKeywords map[string]int       `json:"popularKeywords"` // Keyword -> Count
	AverageLatency  float64              `json:"averageLatency"`  // Average request latency in milliseconds
	TotalLatency    float64              `json:"-"`               // Used to calculate average
	RequestCount    int                  `json:"-"`               // Used to calculate average
	LastPersisted   time.Time            `json:"lastPersisted"`   // Last time stats were saved
	mutex           sync.RWMutex         `json:"-"`
}

var (
	stats *Statistics
	once  sync.Once
)

// Initialize creates or loads the statistics
func Initialize() *Statistics {
	once.Do(func() {
		stats = &Statistics{
			UniqueVisitors:  make(map[string]time.Time),
			PopularKeywords: make(map[string]int),
			LastPersisted:   time.Now(),
		}

		// Try to load existing statistics
		if err := stats.Load(); err != nil {
			fmt.Printf("Could not load existing statistics: %v\n", err)
		}
	})
	return stats
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// TrackRequest records one engine request and, when a keyword was involved,
// its popularity
func (s *Statistics) TrackRequest(keyword string, latencyMs float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.EngineRequests++

	if kw := strings.TrimSpace(strings.ToLower(keyword)); kw != "" {
		s.PopularKeywords[kw]++
	}

	if hasError {
		s.ErrorCount++
	}

	// Update average latency
	s.TotalLatency += latencyMs
	s.RequestCount++
	s.AverageLatency = s.TotalLatency / float64(s.RequestCount)
}

// GetUniqueVisitorsCount returns the number of unique visitors in the last 24 hours
func (s *Statistics) GetUniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}

	return count
}

// GetPopularKeywords returns the top N most requested keywords
func (s *Statistics) GetPopularKeywords(n int) map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	type entry struct {
		keyword string
		count   int
	}
	entries := make([]entry, 0, len(s.PopularKeywords))
	for kw, freq := range s.PopularKeywords {
		entries = append(entries, entry{kw, freq})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	result := make(map[string]int)
	for i, e := range entries {
		if i >= n {
			break
		}
		result[e.keyword] = e.count
	}

	return result
}

// GetErrorRate returns the error rate as a percentage
func (s *Statistics) GetErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.EngineRequests == 0 {
		return 0
	}

	return (float64(s.ErrorCount) / float64(s.EngineRequests)) * 100
}

// Save persists the statistics to a file
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	file, err := os.Create("statistics.json")
	if err != nil {
		return fmt.Errorf("could not create statistics file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("could not encode statistics: %v", err)
	}

	return nil
}

// Load reads the statistics from a file
func (s *Statistics) Load() error {
	file, err := os.Open("statistics.json")
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Not an error if file doesn't exist yet
		}
		return fmt.Errorf("could not open statistics file: %v", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(s); err != nil {
		return fmt.Errorf("could not decode statistics: %v", err)
	}

	return nil
}

// GetStatistics returns a copy of the current statistics, but only in development mode
func (s *Statistics) GetStatistics() map[string]interface{} {
	// Check if we're in development mode
	if os.Getenv(ENV_DEV_MODE) != "true" {
		// In production, return limited statistics without sensitive data
		return map[string]interface{}{
			"uniqueVisitors24h": s.GetUniqueVisitorsCount(),
			"totalRequests":     s.totalRequests(),
			"errorRate":         s.GetErrorRate(),
			"averageLatency":    s.averageLatency(),
		}
	}

	// In development mode, return full statistics
	return map[string]interface{}{
		"uniqueVisitors24h": s.GetUniqueVisitorsCount(),
		"totalRequests":     s.totalRequests(),
		"errorRate":         s.GetErrorRate(),
		"averageLatency":    s.averageLatency(),
		"popularKeywords":   s.GetPopularKeywords(5), // Top 5 only shown in dev mode
	}
}

func (s *Statistics) totalRequests() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.EngineRequests
}

func (s *Statistics) averageLatency() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.AverageLatency
}
