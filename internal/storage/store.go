// ABOUTME: JSON-backed durable state for memory, the monthly counter, and analytics.
// ABOUTME: Writes atomically via temp-file-plus-rename and recovers from missing or corrupt files.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hoshiko-bot/hoshiko/internal/models"
)

const (
	memoryFile    = "post_memory.json"
	counterFile   = "monthly_count.json"
	analyticsFile = "analytics.json"
)

// Store reads and writes the three durable state files under a data directory.
// Each record is independently loadable: corruption in one never affects the
// others.
type Store struct {
	dataDir string
	logger  *slog.Logger
}

// New creates a store rooted at dataDir, creating the directory if needed.
func New(dataDir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dataDir: dataDir, logger: logger}, nil
}

// DataDir returns the directory holding the state files.
func (s *Store) DataDir() string {
	return s.dataDir
}

// MemoryPath returns the path of the post memory file.
func (s *Store) MemoryPath() string {
	return filepath.Join(s.dataDir, memoryFile)
}

// CounterPath returns the path of the monthly counter file.
func (s *Store) CounterPath() string {
	return filepath.Join(s.dataDir, counterFile)
}

// AnalyticsPath returns the path of the analytics file.
func (s *Store) AnalyticsPath() string {
	return filepath.Join(s.dataDir, analyticsFile)
}

// LoadMemory reads the ordered post history. A missing file yields an empty
// history; a malformed file is logged and reinitialized.
func (s *Store) LoadMemory() ([]models.PostRecord, error) {
	var records []models.PostRecord
	ok, err := s.loadJSON(s.MemoryPath(), &records)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return records, nil
}

// SaveMemory persists the ordered post history.
func (s *Store) SaveMemory(records []models.PostRecord) error {
	if records == nil {
		records = []models.PostRecord{}
	}
	return s.saveJSON(s.MemoryPath(), records)
}

// LoadCounter reads the monthly counter, defaulting to a zero counter.
func (s *Store) LoadCounter() (models.MonthlyCounter, error) {
	var counter models.MonthlyCounter
	ok, err := s.loadJSON(s.CounterPath(), &counter)
	if err != nil {
		return models.MonthlyCounter{}, err
	}
	if !ok {
		return models.MonthlyCounter{}, nil
	}
	if counter.Count < 0 {
		counter.Count = 0
	}
	return counter, nil
}

// SaveCounter persists the monthly counter.
func (s *Store) SaveCounter(counter models.MonthlyCounter) error {
	return s.saveJSON(s.CounterPath(), counter)
}

// LoadAnalytics reads the analytics record, defaulting to an empty one.
func (s *Store) LoadAnalytics() (models.Analytics, error) {
	var analytics models.Analytics
	ok, err := s.loadJSON(s.AnalyticsPath(), &analytics)
	if err != nil {
		return models.NewAnalytics(), err
	}
	if !ok {
		return models.NewAnalytics(), nil
	}
	if analytics.PostsByCategory == nil {
		analytics.PostsByCategory = make(map[models.Category]int)
	}
	return analytics, nil
}

// SaveAnalytics persists the analytics record.
func (s *Store) SaveAnalytics(analytics models.Analytics) error {
	return s.saveJSON(s.AnalyticsPath(), analytics)
}

// loadJSON decodes path into v. Returns false when the file is missing or
// malformed, in which case v must not be trusted and the caller falls back to
// the record's default. A malformed file is logged as a warning so a single
// corrupt record never takes the controller down.
func (s *Store) loadJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("state file is malformed, reinitializing", "path", path, "error", err)
		return false, nil
	}
	return true, nil
}

// saveJSON writes v to path atomically: marshal, write to a temp file in the
// same directory, fsync, then rename over the destination. A crash mid-write
// never leaves a partially-written file behind.
func (s *Store) saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
