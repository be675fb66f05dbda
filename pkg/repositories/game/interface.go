package game

import (
	"context"
)

// Repository defines storage operations for settled game records
type Repository interface {
	// SaveRecord stores one settled session
	SaveRecord(ctx context.Context, record *Record) error

	// GetPlayerRecords retrieves a player's settled sessions, oldest first
	GetPlayerRecords(ctx context.Context, playerID string) ([]*Record, error)

	// Close closes any resources used by the repository
	Close() error
}
