package storage

import "errors"

// Common storage errors
var (
	// ErrRecordNotFound indicates that the user has no value stored under the key
	ErrRecordNotFound = errors.New("record not found")
)
