package storage

import "errors"

// Common client storage errors
var (
	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrLocked indicates that another process holds the database file
	ErrLocked = errors.New("database is locked by another process")
)
