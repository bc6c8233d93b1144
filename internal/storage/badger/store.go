// Package badger keeps form drafts and share prompt flags in an embedded
// BadgerHold database, for hosts where many sessions share one data directory.
package badger

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/saveplan/internal/common"
)

// Draft records are a few hundred bytes and overwritten on every autosave.
const (
	memTableSize     = 8 << 20
	valueLogFileSize = 16 << 20
)

// Store is an open draft database.
type Store struct {
	db     *badgerhold.Store
	path   string
	logger *common.Logger
}

// NewStore opens or creates the draft database in dir.
func NewStore(logger *common.Logger, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create draft database directory %s: %w", dir, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil
	// Only the latest draft per session is ever read
	options.Options = options.Options.
		WithNumVersionsToKeep(1).
		WithMemTableSize(memTableSize).
		WithValueLogFileSize(valueLogFileSize).
		WithCompactL0OnClose(true)

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open draft database %s: %w", dir, err)
	}

	logger.Debug().Str("path", dir).Msg("Draft database opened")
	return &Store{db: db, path: dir, logger: logger}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("failed to close draft database %s: %w", s.path, err)
	}
	s.logger.Debug().Str("path", s.path).Msg("Draft database closed")
	return nil
}
