package storage

import (
	"context"
	"fmt"
	"sync"
)

type MemoryNamespace struct {
	mu    sync.RWMutex
	items map[string]string
	used  int64
	quota int64
}

// NewMemoryNamespace returns an in-process namespace. quota <= 0 means no
// limit.
func NewMemoryNamespace(quota int64) *MemoryNamespace {
	return &MemoryNamespace{
		items: make(map[string]string),
		quota: quota,
	}
}

func (m *MemoryNamespace) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var old int64
	if prev, ok := m.items[key]; ok {
		old = itemSize(key, prev)
	}

	next := m.used - old + itemSize(key, value)
	if m.quota > 0 && next > m.quota {
		return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, next, m.quota)
	}

	m.items[key] = value
	m.used = next
	return nil
}

func (m *MemoryNamespace) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	return value, ok, nil
}

func (m *MemoryNamespace) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.items[key]; ok {
		m.used -= itemSize(key, prev)
		delete(m.items, key)
	}
	return nil
}

func (m *MemoryNamespace) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryNamespace) Close() error {
	return nil
}

// Used reports the bytes currently counted against the quota.
func (m *MemoryNamespace) Used() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}

// Len reports the number of stored items.
func (m *MemoryNamespace) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
