package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/interfaces"
)

// Record is one stored value: a session's draft envelope or share flag.
type Record struct {
	Key       string `badgerhold:"key"`
	Value     string
	UpdatedAt time.Time
}

// KVStorage implements interfaces.KeyValueStore over the draft database.
type KVStorage struct {
	store  *Store
	logger *common.Logger
}

// NewKVStorage creates a new KeyValueStore backed by BadgerHold. Closing it
// closes the underlying store.
func NewKVStorage(store *Store, logger *common.Logger) *KVStorage {
	return &KVStorage{store: store, logger: logger}
}

func (s *KVStorage) Get(_ context.Context, key string) (string, error) {
	var entry Record
	err := s.store.db.Get(key, &entry)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return "", fmt.Errorf("key '%s': %w", key, interfaces.ErrNotFound)
		}
		return "", fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	return entry.Value, nil
}

func (s *KVStorage) Set(_ context.Context, key, value string) error {
	entry := Record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := s.store.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}

func (s *KVStorage) Delete(_ context.Context, key string) error {
	err := s.store.db.Delete(key, Record{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete key '%s': %w", key, err)
	}
	return nil
}

func (s *KVStorage) Close() error {
	return s.store.Close()
}
