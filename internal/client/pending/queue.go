// Package pending keeps the durable list of writes that reached the local
// store but were not yet acknowledged by the cloud.
//
// The list lives as a single JSON array under a reserved key of the local
// store and is rewritten as a whole on every mutation. At most one operation
// per (key, type) is kept: a newer write for the same key replaces the queued
// one in place.
package pending

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/iudanet/vocabsync/internal/client/storage"
	"github.com/iudanet/vocabsync/internal/crdt"
	"github.com/iudanet/vocabsync/internal/models"
	"github.com/iudanet/vocabsync/internal/validation"
)

// StorageKey ключ локального хранилища, под которым лежит очередь
const StorageKey = validation.ReservedPendingKey

// Queue is a durable, deduplicated queue of pending operations.
// All mutations are serialized by one mutex per queue instance.
type Queue struct {
	local  storage.LocalKV
	clock  crdt.Clock
	logger *slog.Logger
	newID  func() string
	mu     sync.Mutex
}

// New creates a queue persisted through local.
func New(local storage.LocalKV, clock crdt.Clock, logger *slog.Logger) *Queue {
	if clock == nil {
		clock = crdt.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Queue{
		local:  local,
		clock:  clock,
		logger: logger,
		newID:  func() string { return uuid.New().String() },
	}
}

// Enqueue records an operation for key. An existing operation with the same
// key and type is replaced in place, otherwise the operation is appended.
// The list is persisted before Enqueue returns.
func (q *Queue) Enqueue(ctx context.Context, opType models.OperationType, key, value string) (models.PendingOperation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ops, err := q.load(ctx)
	if err != nil {
		return models.PendingOperation{}, err
	}

	op := models.PendingOperation{
		ID:        q.newID(),
		Type:      opType,
		Key:       key,
		Value:     value,
		Timestamp: q.clock.Now(),
	}

	replaced := false
	for i := range ops {
		if ops[i].SameTarget(op) {
			ops[i] = op
			replaced = true
			break
		}
	}
	if !replaced {
		ops = append(ops, op)
	}

	if err := q.save(ctx, ops); err != nil {
		return models.PendingOperation{}, err
	}

	q.logger.Debug("Pending operation enqueued",
		"id", op.ID,
		"key", key,
		"type", opType,
		"replaced", replaced,
		"queue_len", len(ops))

	return op, nil
}

// Dequeue removes the operation with the given id. Removing an id that is
// no longer queued is not an error.
func (q *Queue) Dequeue(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	ops, err := q.load(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range ops {
		if ops[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Уже удалена (например, заменена более новой записью)
		return nil
	}

	ops = append(ops[:idx], ops[idx+1:]...)

	if err := q.save(ctx, ops); err != nil {
		return err
	}

	q.logger.Debug("Pending operation removed", "id", id, "queue_len", len(ops))

	return nil
}

// Snapshot returns a copy of the queued operations in queue order.
func (q *Queue) Snapshot(ctx context.Context) ([]models.PendingOperation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.load(ctx)
}

// Len returns the number of queued operations.
func (q *Queue) Len(ctx context.Context) (int, error) {
	ops, err := q.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return len(ops), nil
}

// load читает список из локального хранилища. Вызывается под q.mu.
// Отсутствующий или поврежденный blob считается пустой очередью.
func (q *Queue) load(ctx context.Context) ([]models.PendingOperation, error) {
	raw, err := q.local.GetValue(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending operations: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var ops []models.PendingOperation
	if err := json.Unmarshal([]byte(raw), &ops); err != nil {
		q.logger.Warn("Pending operations blob is corrupted, treating queue as empty",
			"error", err,
			"size", len(raw))
		return nil, nil
	}

	return ops, nil
}

// save перезаписывает список целиком. Вызывается под q.mu.
func (q *Queue) save(ctx context.Context, ops []models.PendingOperation) error {
	if ops == nil {
		ops = []models.PendingOperation{}
	}

	data, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("failed to marshal pending operations: %w", err)
	}

	if err := q.local.SetValue(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist pending operations: %w", err)
	}

	return nil
}
