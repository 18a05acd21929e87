package main

import (
	"fmt"
	"os"

	"github.com/orneryd/graphkit/cmd/graphctl/config"
	"github.com/orneryd/graphkit/pkg/badgerstore"
	"github.com/orneryd/graphkit/pkg/storage"
)

// openStorage opens the backend named by cfg.Storage.Backend and returns
// it alongside a close function the caller must defer.
func openStorage(cfg *config.Config) (storage.Storage, func() error, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		s := storage.NewNativeStorage()
		return s, s.Close, nil

	case config.BackendConcurrent:
		s := storage.NewConcurrentStorage(storage.NewNativeStorage())
		return s, s.Close, nil

	case config.BackendBadger:
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating data directory: %w", err)
		}
		s, err := badgerstore.New(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening badger store: %w", err)
		}
		return s, s.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Storage.Backend)
	}
}
