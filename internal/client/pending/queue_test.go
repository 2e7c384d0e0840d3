package pending

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vocabsync/internal/client/storage"
	"github.com/iudanet/vocabsync/internal/client/storage/boltdb"
	"github.com/iudanet/vocabsync/internal/crdt"
	"github.com/iudanet/vocabsync/internal/models"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func openStore(t *testing.T, dbPath string) *boltdb.Storage {
	t.Helper()

	store, err := boltdb.New(context.Background(), dbPath)
	require.NoError(t, err)
	return store
}

func newTestQueue(t *testing.T) (*Queue, *boltdb.Storage) {
	t.Helper()

	store := openStore(t, filepath.Join(t.TempDir(), "queue.db"))
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return New(store, crdt.NewManualClock(1000), setupTestLogger()), store
}

func TestQueue_EmptyOnFirstUse(t *testing.T) {
	queue, _ := newTestQueue(t)

	ops, err := queue.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ops)

	n, err := queue.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestQueue_Enqueue(t *testing.T) {
	ctx := context.Background()
	queue, _ := newTestQueue(t)

	op, err := queue.Enqueue(ctx, models.OperationSave, "lang", "en-encoded")
	require.NoError(t, err)

	assert.NotEmpty(t, op.ID)
	assert.Equal(t, models.OperationSave, op.Type)
	assert.Equal(t, "lang", op.Key)
	assert.Equal(t, "en-encoded", op.Value)
	assert.Equal(t, int64(1000), op.Timestamp)

	ops, err := queue.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, op, ops[0])
}

func TestQueue_Enqueue_DeduplicatesSameKey(t *testing.T) {
	ctx := context.Background()
	queue, _ := newTestQueue(t)

	first, err := queue.Enqueue(ctx, models.OperationSave, "lang", "first")
	require.NoError(t, err)
	_, err = queue.Enqueue(ctx, models.OperationSave, "theme", "dark")
	require.NoError(t, err)
	second, err := queue.Enqueue(ctx, models.OperationSave, "lang", "second")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	ops, err := queue.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	// Замена происходит на месте: порядок сохраняется
	assert.Equal(t, "lang", ops[0].Key)
	assert.Equal(t, "second", ops[0].Value)
	assert.Equal(t, second.ID, ops[0].ID)
	assert.Equal(t, "theme", ops[1].Key)
}

func TestQueue_Dequeue(t *testing.T) {
	ctx := context.Background()
	queue, _ := newTestQueue(t)

	a, err := queue.Enqueue(ctx, models.OperationSave, "a", "1")
	require.NoError(t, err)
	b, err := queue.Enqueue(ctx, models.OperationSave, "b", "2")
	require.NoError(t, err)
	c, err := queue.Enqueue(ctx, models.OperationSave, "c", "3")
	require.NoError(t, err)

	require.NoError(t, queue.Dequeue(ctx, b.ID))

	ops, err := queue.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, a.ID, ops[0].ID)
	assert.Equal(t, c.ID, ops[1].ID)
}

func TestQueue_Dequeue_MissingIDIsNoop(t *testing.T) {
	ctx := context.Background()
	queue, _ := newTestQueue(t)

	_, err := queue.Enqueue(ctx, models.OperationSave, "lang", "en")
	require.NoError(t, err)

	require.NoError(t, queue.Dequeue(ctx, "does-not-exist"))

	n, err := queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestQueue_Dequeue_ReplacedOperation(t *testing.T) {
	ctx := context.Background()
	queue, _ := newTestQueue(t)

	// Операция заменена новой записью до подтверждения облаком:
	// удаление по старому id не должно трогать новую операцию
	old, err := queue.Enqueue(ctx, models.OperationSave, "lang", "old")
	require.NoError(t, err)
	_, err = queue.Enqueue(ctx, models.OperationSave, "lang", "new")
	require.NoError(t, err)

	require.NoError(t, queue.Dequeue(ctx, old.ID))

	ops, err := queue.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "new", ops[0].Value)
}

func TestQueue_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "restart.db")

	store := openStore(t, dbPath)
	queue := New(store, crdt.NewManualClock(1000), setupTestLogger())

	var enqueued []models.PendingOperation
	for i := 0; i < 3; i++ {
		op, err := queue.Enqueue(ctx, models.OperationSave, fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i))
		require.NoError(t, err)
		enqueued = append(enqueued, op)
	}
	require.NoError(t, store.Close())

	// Новый процесс: новое хранилище и новая очередь поверх того же файла
	reopened := openStore(t, dbPath)
	defer func() {
		require.NoError(t, reopened.Close())
	}()
	restored := New(reopened, crdt.SystemClock{}, setupTestLogger())

	ops, err := restored.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, enqueued, ops)
}

func TestQueue_CorruptedBlobIsEmpty(t *testing.T) {
	ctx := context.Background()
	queue, store := newTestQueue(t)

	require.NoError(t, store.SetValue(ctx, StorageKey, "{not json"))

	ops, err := queue.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)

	// Следующая запись перезаписывает поврежденный blob
	_, err = queue.Enqueue(ctx, models.OperationSave, "lang", "en")
	require.NoError(t, err)

	ops, err = queue.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestQueue_EmptyAfterLastDequeuePersistsEmptyArray(t *testing.T) {
	ctx := context.Background()
	queue, store := newTestQueue(t)

	op, err := queue.Enqueue(ctx, models.OperationSave, "lang", "en")
	require.NoError(t, err)
	require.NoError(t, queue.Dequeue(ctx, op.ID))

	raw, err := store.GetValue(ctx, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestQueue_StorageErrors(t *testing.T) {
	ctx := context.Background()
	readErr := errors.New("read failed")
	writeErr := errors.New("write failed")

	t.Run("read error", func(t *testing.T) {
		local := &storage.LocalKVMock{
			GetValueFunc: func(ctx context.Context, key string) (string, error) {
				return "", readErr
			},
		}
		queue := New(local, nil, setupTestLogger())

		_, err := queue.Enqueue(ctx, models.OperationSave, "lang", "en")
		assert.ErrorIs(t, err, readErr)

		_, err = queue.Snapshot(ctx)
		assert.ErrorIs(t, err, readErr)

		assert.ErrorIs(t, queue.Dequeue(ctx, "id"), readErr)
	})

	t.Run("write error", func(t *testing.T) {
		local := &storage.LocalKVMock{
			GetValueFunc: func(ctx context.Context, key string) (string, error) {
				return "", nil
			},
			SetValueFunc: func(ctx context.Context, key, value string) error {
				return writeErr
			},
		}
		queue := New(local, nil, setupTestLogger())

		_, err := queue.Enqueue(ctx, models.OperationSave, "lang", "en")
		assert.ErrorIs(t, err, writeErr)

		calls := local.SetValueCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, StorageKey, calls[0].Key)
	})
}

func TestQueue_ConcurrentEnqueue(t *testing.T) {
	ctx := context.Background()
	queue, _ := newTestQueue(t)

	goroutines := 20
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := queue.Enqueue(ctx, models.OperationSave, fmt.Sprintf("key-%d", i), "v")
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	// Ни одна запись не потеряна при конкурентном read-modify-write
	n, err := queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, goroutines, n)
}

func TestQueue_ConcurrentEnqueueSameKey(t *testing.T) {
	ctx := context.Background()
	queue, _ := newTestQueue(t)

	goroutines := 20
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := queue.Enqueue(ctx, models.OperationSave, "lang", fmt.Sprintf("v%d", i))
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	n, err := queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
