package boltdb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/vocabsync/internal/client/storage"
)

var keyLastSyncTimestamp = []byte("last_sync_timestamp")

var errNoMetadataBucket = errors.New("metadata bucket not found")

// SaveLastSyncTimestamp records the unix time of the last value acknowledged by the cloud.
func (s *Storage) SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return errNoMetadataBucket
		}
		return bucket.Put(keyLastSyncTimestamp, binary.BigEndian.AppendUint64(nil, uint64(timestamp)))
	})
	if err != nil {
		return fmt.Errorf("failed to save last sync timestamp: %w", err)
	}
	return nil
}

// GetLastSyncTimestamp returns the recorded time, or 0 before the first acknowledged push.
func (s *Storage) GetLastSyncTimestamp(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var timestamp int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return errNoMetadataBucket
		}
		// значение другой длины считаем отсутствующим
		if buf := bucket.Get(keyLastSyncTimestamp); len(buf) == 8 {
			timestamp = int64(binary.BigEndian.Uint64(buf))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get last sync timestamp: %w", err)
	}

	return timestamp, nil
}
