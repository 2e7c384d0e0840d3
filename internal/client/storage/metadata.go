package storage

import "context"

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client sync metadata
type MetadataStorage interface {
	// SaveLastSyncTimestamp saves the unix time of the last value acknowledged by the cloud
	SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error

	// GetLastSyncTimestamp retrieves the unix time of the last acknowledged value
	// Returns 0 if nothing has been synchronized yet
	GetLastSyncTimestamp(ctx context.Context) (int64, error)
}
