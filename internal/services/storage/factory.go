package storage

import (
	"fmt"

	"github.com/phambaophuc/showcase/internal/config"
)

func NewNamespace(cfg *config.Config) (Namespace, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return NewMemoryNamespace(cfg.Store.QuotaBytes), nil
	case config.BackendRedis:
		return NewRedisNamespace(NewRedisClient(cfg.Redis), cfg.Store.Namespace, cfg.Store.QuotaBytes), nil
	case config.BackendSQLite:
		ns, err := NewSQLiteNamespace(cfg.Store.SQLitePath, cfg.Store.QuotaBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite namespace: %w", err)
		}
		return ns, nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}
