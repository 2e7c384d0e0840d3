package boltdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"

	"github.com/iudanet/vocabsync/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketKV       = []byte("kv")
	bucketMetadata = []byte("metadata")
)

// OpenTimeout сколько по умолчанию ждать освобождения файла БД другим процессом
const OpenTimeout = time.Second

// Compile-time interface checks
var (
	_ storage.LocalKV         = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
)

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db *bbolt.DB
}

// Option configures how the database file is opened.
type Option func(*openOptions)

type openOptions struct {
	timeout time.Duration
}

// WithOpenTimeout sets how long New waits for another process to release the file.
func WithOpenTimeout(d time.Duration) Option {
	return func(o *openOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file.
// When another process holds the file longer than the open timeout,
// the returned error wraps storage.ErrLocked.
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	o := openOptions{timeout: OpenTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	// Файл блокируется одним процессом, поэтому ждем ограниченное время
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: o.timeout})
	if errors.Is(err, berrors.ErrTimeout) {
		return nil, fmt.Errorf("failed to open boltdb %s after %s: %w (is the sync daemon draining?)",
			dbPath, o.timeout, storage.ErrLocked)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database. Calling Close more than once is safe.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database file path.
func (s *Storage) Path() string {
	if s.db == nil {
		return ""
	}
	return s.db.Path()
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketKV, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}
