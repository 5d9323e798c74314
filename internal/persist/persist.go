// Package persist owns the local durable record: one JSON blob at a fixed
// path, loaded through a tolerant migration that upgrades any older persisted
// shape without data loss.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/planloop/planloop/internal/domain"
	"github.com/planloop/planloop/internal/logger"
)

// Store reads and writes the local persisted record.
type Store struct {
	path           string
	log            logger.Logger
	seedWorkspaces []domain.Workspace
	seedBins       []domain.Bin
}

// New creates a Store persisting to path. The seed entities are installed
// whenever a load ends up with no workspaces or no bins.
func New(path string, seedWorkspaces []domain.Workspace, seedBins []domain.Bin, log logger.Logger) *Store {
	return &Store{
		path:           path,
		log:            log,
		seedWorkspaces: seedWorkspaces,
		seedBins:       seedBins,
	}
}

// Defaults returns a fresh seeded AppData: the state of a first boot.
func (s *Store) Defaults() domain.AppData {
	return s.Migrate(map[string]any{})
}

// HasRecord reports whether the record file holds a plausible persisted
// state. The sync adapter uses this at boot to decide whether local data is
// authoritative or a remote restore should be attempted.
func (s *Store) HasRecord() bool {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var raw map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil {
		return false
	}
	// Minimal plausibility: some workspace data was ever written.
	return len(asSlice(raw["workspaces"])) > 0
}

// Load reads, parses and migrates the record. A missing or unparsable file
// yields the seeded defaults; Load never fails.
func (s *Store) Load() domain.AppData {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read local record, starting from defaults",
				logger.String("path", s.path),
				logger.Error(err))
		}
		return s.Defaults()
	}
	return s.MigrateJSON(blob)
}

// MigrateJSON decodes a serialized record and migrates it. Unparsable input
// yields the seeded defaults. This is also the import path for remote
// payloads, so remote data passes through the same migration as local data.
func (s *Store) MigrateJSON(blob []byte) domain.AppData {
	var raw map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil {
		s.log.Warn("unparsable persisted record, starting from defaults",
			logger.Error(err))
		return s.Defaults()
	}
	return s.Migrate(raw)
}

// Save serializes data and writes it atomically (temp file + rename).
// Failures are logged and returned; callers treat them as degraded
// durability, never as fatal.
func (s *Store) Save(data domain.AppData) error {
	blob, err := json.Marshal(data)
	if err != nil {
		s.log.Error("failed to serialize local record", logger.Error(err))
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".planloop-*.json")
	if err != nil {
		s.log.Error("failed to create temp record file", logger.Error(err))
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		s.log.Error("failed to write local record", logger.Error(err))
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		s.log.Error("failed to close temp record file", logger.Error(err))
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		s.log.Error("failed to replace local record", logger.Error(err))
		return fmt.Errorf("failed to replace record: %w", err)
	}
	return nil
}

// Path returns the record file path.
func (s *Store) Path() string {
	return s.path
}
