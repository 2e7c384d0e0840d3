package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	stdsync "sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/vocabsync/internal/client/pending"
	"github.com/iudanet/vocabsync/internal/client/storage/boltdb"
	"github.com/iudanet/vocabsync/internal/crdt"
)

var errOffline = errors.New("cloud offline")

// memCloud потокобезопасное облако в памяти
type memCloud struct {
	values    map[string]string
	failKeys  map[string]bool
	saves     []string
	mu        stdsync.Mutex
	available bool
}

func newMemCloud() *memCloud {
	return &memCloud{
		values:    make(map[string]string),
		failKeys:  make(map[string]bool),
		available: true,
	}
}

func (c *memCloud) FetchValue(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.available {
		return "", errOffline
	}
	return c.values[key], nil
}

func (c *memCloud) SaveValue(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.available || c.failKeys[key] {
		return errOffline
	}
	c.values[key] = value
	c.saves = append(c.saves, key)
	return nil
}

func (c *memCloud) CheckAvailability(_ context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

func (c *memCloud) setAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.available = available
}

func (c *memCloud) failKey(key string, fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failKeys[key] = fail
}

func (c *memCloud) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *memCloud) get(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

func (c *memCloud) saveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.saves)
}

type testEnv struct {
	engine *Engine
	local  *boltdb.Storage
	queue  *pending.Queue
	cloud  *memCloud
	clock  *crdt.ManualClock
	dbPath string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEnv создает движок поверх временного BoltDB и облака в памяти
func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "engine_test.db")
	local, err := boltdb.New(context.Background(), dbPath)
	require.NoError(t, err)

	clock := crdt.NewManualClock(1000)
	logger := discardLogger()
	queue := pending.New(local, clock, logger)
	cloud := newMemCloud()

	opts = append([]Option{WithLogger(logger), WithClock(clock)}, opts...)
	engine := NewEngine(local, cloud, queue, opts...)

	t.Cleanup(func() {
		engine.Wait()
		require.NoError(t, local.Close())
	})

	return &testEnv{
		engine: engine,
		local:  local,
		queue:  queue,
		cloud:  cloud,
		clock:  clock,
		dbPath: dbPath,
	}
}
