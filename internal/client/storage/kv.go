package storage

import "context"

//go:generate moq -out localkv_mock.go . LocalKV

// LocalKV defines the local key/value store used as the fast path of the
// sync engine. Keys and values are plain strings with whole-value
// replacement semantics.
type LocalKV interface {
	// GetValue returns the stored value or an empty string if key is absent
	GetValue(ctx context.Context, key string) (string, error)

	// SetValue stores value under key, replacing any previous value
	SetValue(ctx context.Context, key, value string) error
}
