package storage

import "context"

// Leaser is implemented by stores that keep the underlying file open only
// between Acquire and Release, leaving it free for other processes otherwise.
type Leaser interface {
	// Acquire opens the store. Calls may nest, each one needs a matching Release.
	Acquire(ctx context.Context) error

	// Release closes the store once the last lease is returned
	Release() error
}
