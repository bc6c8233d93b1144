// Package storage provides key-value persistence with pluggable backends.
package storage

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/interfaces"
	"github.com/bobmcallan/saveplan/internal/storage/badger"
	"github.com/bobmcallan/saveplan/internal/storage/rediscache"
)

// Backend type constants.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// NewKeyValueStore creates a key-value store based on the configuration.
// Supported backends: "file" (default), "badger", "memory".
func NewKeyValueStore(logger *common.Logger, config *common.StorageConfig) (interfaces.KeyValueStore, error) {
	backend := config.Backend
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		return NewFileStore(logger, filepath.Join(config.Path, "kv"))

	case BackendBadger:
		store, err := badger.NewStore(logger, filepath.Join(config.Path, "badger"))
		if err != nil {
			return nil, err
		}
		return badger.NewKVStorage(store, logger), nil

	case BackendMemory:
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, badger, memory)", backend)
	}
}

// NewExplanationCache returns a Redis-backed cache when redisAddr is set and an
// in-process cache otherwise.
func NewExplanationCache(logger *common.Logger, redisAddr string) interfaces.ExplanationCache {
	if redisAddr == "" {
		return NewMemoryCache(time.Now)
	}
	logger.Info().Str("addr", redisAddr).Msg("Using Redis explanation cache")
	return rediscache.New(redisAddr, logger)
}
