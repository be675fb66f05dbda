package game

import (
	"context"
	"sync"
)

// MemoryRepository implements Repository with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of playerID to records
	records map[string][]*Record
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string][]*Record),
	}
}

// SaveRecord stores a settled session
func (r *MemoryRepository) SaveRecord(ctx context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.PlayerID] = append(r.records[record.PlayerID], record)
	return nil
}

// GetPlayerRecords retrieves a player's settled sessions
func (r *MemoryRepository) GetPlayerRecords(ctx context.Context, playerID string) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.records[playerID]
	if records == nil {
		return []*Record{}, nil
	}
	return records, nil
}

// Close is a no-op for memory repository since there are no resources to close
func (r *MemoryRepository) Close() error {
	return nil
}
