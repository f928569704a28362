// Package storage persists gate state across restarts. The registry's
// core remains an in-memory store; this package only snapshots and
// reloads its records so fulfilled orders stay provably fulfilled after
// a restart.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ruteri/order-target-gate/interfaces"
)

const snapshotFile = "orders.json"

// FileStore persists the full order record set as a single JSON document
// under a state directory.
type FileStore struct {
	path string
	log  *slog.Logger
}

// NewFileStore creates a snapshot store under the given base directory,
// creating it if needed.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	return &FileStore{
		path: filepath.Join(baseDir, snapshotFile),
		log:  log,
	}, nil
}

// Save writes the record set atomically: the snapshot is written to a
// temporary file and renamed over the previous one.
func (s *FileStore) Save(ctx context.Context, records []interfaces.OrderRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	s.log.Debug("Stored order snapshot",
		slog.String("path", s.path),
		slog.Int("records", len(records)))

	return nil
}

// Load reads the most recent snapshot. A missing snapshot is not an
// error; it returns an empty record set.
func (s *FileStore) Load(ctx context.Context) ([]interfaces.OrderRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.log.Debug("No order snapshot found", slog.String("path", s.path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var records []interfaces.OrderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s.log.Debug("Loaded order snapshot",
		slog.String("path", s.path),
		slog.Int("records", len(records)))

	return records, nil
}

// LocationURI returns the URI that identifies this store.
func (s *FileStore) LocationURI() string {
	return fmt.Sprintf("file://%s", s.path)
}
