package boltdb

import (
	"context"
	"fmt"
	"sync"

	"github.com/iudanet/vocabsync/internal/client/storage"
)

// Compile-time interface checks
var (
	_ storage.LocalKV         = (*Shared)(nil)
	_ storage.MetadataStorage = (*Shared)(nil)
	_ storage.Leaser          = (*Shared)(nil)
)

// Shared is a Storage that holds the database file only while leased.
// Between leases the file lock is free, so other processes can open the
// same database. Reads and writes outside a lease fail with
// storage.ErrStorageClosed.
type Shared struct {
	store  *Storage
	path   string
	opts   []Option
	mu     sync.RWMutex
	leases int
}

// NewShared creates a Shared storage for dbPath. The file is not opened
// until the first Acquire.
func NewShared(dbPath string, opts ...Option) *Shared {
	return &Shared{path: dbPath, opts: opts}
}

// Acquire opens the database unless a lease is already held.
func (s *Shared) Acquire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.leases == 0 {
		store, err := New(ctx, s.path, s.opts...)
		if err != nil {
			return err
		}
		s.store = store
	}
	s.leases++
	return nil
}

// Release closes the database when the last lease is returned.
func (s *Shared) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.leases == 0 {
		return nil
	}
	s.leases--
	if s.leases > 0 {
		return nil
	}

	err := s.store.Close()
	s.store = nil
	if err != nil {
		return fmt.Errorf("failed to release boltdb: %w", err)
	}
	return nil
}

// Close drops every lease and closes the database.
func (s *Shared) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leases = 0
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

// Path returns the database file path.
func (s *Shared) Path() string {
	return s.path
}

// GetValue reads key from the leased database.
func (s *Shared) GetValue(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return "", storage.ErrStorageClosed
	}
	return s.store.GetValue(ctx, key)
}

// SetValue writes key to the leased database.
func (s *Shared) SetValue(ctx context.Context, key, value string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return storage.ErrStorageClosed
	}
	return s.store.SetValue(ctx, key, value)
}

// Keys lists user keys of the leased database.
func (s *Shared) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, storage.ErrStorageClosed
	}
	return s.store.Keys(ctx)
}

// SaveLastSyncTimestamp implements storage.MetadataStorage.
func (s *Shared) SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return storage.ErrStorageClosed
	}
	return s.store.SaveLastSyncTimestamp(ctx, timestamp)
}

// GetLastSyncTimestamp implements storage.MetadataStorage.
func (s *Shared) GetLastSyncTimestamp(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return 0, storage.ErrStorageClosed
	}
	return s.store.GetLastSyncTimestamp(ctx)
}
