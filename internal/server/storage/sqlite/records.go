package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/vocabsync/internal/models"
	"github.com/iudanet/vocabsync/internal/server/storage"
)

// GetRecord retrieves the value stored by a user under key
// Returns ErrRecordNotFound if there is no such record
func (s *Storage) GetRecord(ctx context.Context, userID, key string) (*models.Record, error) {
	query := `
		SELECT user_id, key, value, updated_at
		FROM kv_records
		WHERE user_id = ? AND key = ?
	`

	record := &models.Record{}
	var updatedAt int64

	err := s.db.QueryRowContext(ctx, query, userID, key).Scan(
		&record.UserID,
		&record.Key,
		&record.Value,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	record.UpdatedAt = time.Unix(updatedAt, 0)

	return record, nil
}

// PutRecord creates or replaces the record for (UserID, Key)
func (s *Storage) PutRecord(ctx context.Context, record *models.Record) error {
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now()
	}

	query := `
		INSERT INTO kv_records (user_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		record.UserID,
		record.Key,
		record.Value,
		record.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}

	return nil
}

// ListKeys returns all keys stored by a user in ascending order
func (s *Storage) ListKeys(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT key
		FROM kv_records
		WHERE user_id = ?
		ORDER BY key ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return keys, nil
}
