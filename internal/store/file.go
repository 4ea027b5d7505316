package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"finreview/internal/models"

	"go.uber.org/zap"
)

// FileStore keeps all records in one JSON array file. Each append reads the
// full list, appends, and writes the full list back; the mutex serializes
// writers so concurrent appends cannot lose records. The file is replaced
// atomically via a temp file and rename.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

func (s *FileStore) Append(_ context.Context, record models.ResultRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".results-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp results file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp results file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace results file: %w", err)
	}

	s.logger.Debug("Result record appended",
		zap.String("file", s.path),
		zap.Int("total", len(records)),
	)

	return nil
}

func (s *FileStore) ReadAll(_ context.Context) ([]models.ResultRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// load reads the full list from disk, treating an absent file as empty.
func (s *FileStore) load() ([]models.ResultRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []models.ResultRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var records []models.ResultRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}

	return records, nil
}
