// Package store provides flat-file persistence for the session collection.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"privateai/internal/config"
	"privateai/internal/models"
)

// SessionsFile is the name of the single file holding the whole collection.
const SessionsFile = "sessions.json"

// Store persists the full session collection to one JSON file. It has
// no notion of individual sessions: load and save only, full-collection
// overwrite, atomic replace.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Store{path: filepath.Join(baseDir, SessionsFile)}, nil
}

// DefaultStore creates a store in the default config directory.
func DefaultStore() (*Store, error) {
	dir, err := config.EnsureConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir)
}

// Path returns the sessions file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the full collection. A missing file or malformed content
// yields an empty collection; no error is surfaced either way.
func (s *Store) Load() []*models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("Failed to read sessions file")
		}
		return []*models.Session{}
	}

	var sessions []*models.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("Sessions file is malformed, starting empty")
		return []*models.Session{}
	}
	if sessions == nil {
		sessions = []*models.Session{}
	}
	return sessions
}

// Save writes the full collection snapshot. The write goes to a temp
// file that is fsynced and renamed over the target, so readers never
// observe a partial write.
func (s *Store) Save(sessions []*models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync sessions file: %w", err)
	}
	file.Close()

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace sessions file: %w", err)
	}
	return nil
}
