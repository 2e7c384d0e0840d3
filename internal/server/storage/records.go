package storage

import (
	"context"

	"github.com/iudanet/vocabsync/internal/models"
)

//go:generate moq -out records_mock.go . RecordStorage

// RecordStorage defines interface for the per-user key/value records
type RecordStorage interface {
	// GetRecord retrieves the value stored by a user under key
	// Returns ErrRecordNotFound if there is no such record
	GetRecord(ctx context.Context, userID, key string) (*models.Record, error)

	// PutRecord creates or replaces the record for (UserID, Key).
	// The value is stored as is; conflict resolution happens on clients
	PutRecord(ctx context.Context, record *models.Record) error

	// ListKeys returns all keys stored by a user in ascending order
	// Returns empty slice if the user has no records
	ListKeys(ctx context.Context, userID string) ([]string, error)

	// Ping checks that the storage is reachable
	Ping(ctx context.Context) error
}
