// internal/store/memory.go

package store

import (
	"context"
	"sync"

	"github.com/dacionxo/leadharvest/internal/lead"
)

// MemoryStore keeps records in a map. Used by tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]lead.LeadRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]lead.LeadRecord)}
}

// Upsert merges the record into the stored one, present columns only.
func (m *MemoryStore) Upsert(ctx context.Context, record lead.LeadRecord) (bool, error) {
	key := record.PropertyURL()
	if key == "" {
		return false, ErrNoPropertyURL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[key]
	if !ok {
		existing = lead.LeadRecord{Columns: make(map[string]interface{})}
	}
	for col, v := range record.Columns {
		existing.Columns[col] = v
	}
	if len(record.Other) > 0 {
		if existing.Other == nil {
			existing.Other = make(map[string]interface{})
		}
		for k, v := range record.Other {
			existing.Other[k] = v
		}
	}
	m.records[key] = existing
	return true, nil
}

// Get returns the stored record for a property URL.
func (m *MemoryStore) Get(propertyURL string) (lead.LeadRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[propertyURL]
	return r, ok
}

// Len reports how many distinct properties are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Records returns a snapshot of all stored records.
func (m *MemoryStore) Records() []lead.LeadRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]lead.LeadRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
