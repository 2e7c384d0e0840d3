package api

import "context"

//go:generate moq -out cloudkv_mock.go . CloudKV

// CloudKV defines the remote key/value store the sync engine converges with.
// Keys map 1:1 to local keys; values are stored as opaque strings.
type CloudKV interface {
	// FetchValue returns the stored value, or an empty string if the key has no record
	FetchValue(ctx context.Context, key string) (string, error)

	// SaveValue replaces the value stored under key. A non-nil error means the
	// value was not acknowledged and must be retried
	SaveValue(ctx context.Context, key, value string) error

	// CheckAvailability reports whether the cloud is reachable
	CheckAvailability(ctx context.Context) bool
}
