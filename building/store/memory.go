// Package store provides Persister implementations.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/warp/building-console/building"
)

// =============================================================================
// MEMORY PERSISTER - In-memory snapshots (for testing/dev)
// =============================================================================

// Memory keeps snapshots as JSON, so a reload goes through the same
// encoding as the SQLite persister and the browser's local storage.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	saves     int
}

func NewMemory() *Memory {
	return &Memory{snapshots: make(map[string][]byte)}
}

func (m *Memory) SaveSnapshot(_ context.Context, key string, snap building.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key] = payload
	m.saves++
	return nil
}

func (m *Memory) LoadSnapshot(_ context.Context, key string) (*building.Snapshot, error) {
	m.mu.RLock()
	payload, ok := m.snapshots[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var snap building.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// Reset drops every stored snapshot.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = make(map[string][]byte)
	return nil
}

// Saves reports how many snapshots were written.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Raw returns the stored JSON for a key.
func (m *Memory) Raw(key string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.snapshots[key]...)
}
