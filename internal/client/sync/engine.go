// Package sync keeps a local key/value store converged with a cloud copy.
//
// Reads and writes always hit the local store first. Cloud traffic happens in
// detached tasks: reads trigger a last-writer-wins reconciliation of the key,
// writes are pushed and, when the push fails, recorded in the pending queue.
// Run drains that queue in the background with an adaptive delay.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"
	"sync/atomic"

	"github.com/iudanet/vocabsync/internal/client/api"
	"github.com/iudanet/vocabsync/internal/client/pending"
	"github.com/iudanet/vocabsync/internal/client/storage"
	"github.com/iudanet/vocabsync/internal/codec"
	"github.com/iudanet/vocabsync/internal/crdt"
	"github.com/iudanet/vocabsync/internal/models"
	"github.com/iudanet/vocabsync/internal/validation"
)

// Engine is the read/write entry point for synced values.
type Engine struct {
	local    storage.LocalKV
	cloud    api.CloudKV
	queue    *pending.Queue
	metadata storage.MetadataStorage
	clock    crdt.Clock
	logger   *slog.Logger
	cfg      Config

	tasks   stdsync.WaitGroup
	running atomic.Bool

	// localMu упорядочивает запись Set и шаг сравнения-записи в Reconcile
	localMu stdsync.Mutex

	// mu защищает backoff и поля статуса
	mu          stdsync.Mutex
	backoff     *Backoff
	lastPushAt  int64
	lastDrainAt int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the clock used to stamp values.
func WithClock(clock crdt.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithConfig overrides retry and timeout settings.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg.withDefaults()
	}
}

// WithMetadata records the time of the last acknowledged push.
func WithMetadata(metadata storage.MetadataStorage) Option {
	return func(e *Engine) {
		e.metadata = metadata
	}
}

// NewEngine creates an engine over the given stores.
func NewEngine(local storage.LocalKV, cloud api.CloudKV, queue *pending.Queue, opts ...Option) *Engine {
	e := &Engine{
		local:  local,
		cloud:  cloud,
		queue:  queue,
		clock:  crdt.SystemClock{},
		logger: slog.Default(),
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.backoff = NewBackoff(e.cfg)
	return e
}

// Get returns the local value of key immediately and reconciles the key
// with the cloud in the background.
func (e *Engine) Get(ctx context.Context, key string) (string, error) {
	stamped, err := e.readLocal(ctx, key)
	if err != nil {
		return "", err
	}

	e.spawn(ctx, func(ctx context.Context) ReconcileResult {
		return e.Reconcile(ctx, key)
	})

	return stamped.Value, nil
}

// GetBlocking reconciles key with the cloud and then returns the local value.
func (e *Engine) GetBlocking(ctx context.Context, key string) (string, error) {
	if err := validation.ValidateKey(key); err != nil {
		return "", err
	}

	e.Reconcile(ctx, key)

	stamped, err := e.readLocal(ctx, key)
	if err != nil {
		return "", err
	}
	return stamped.Value, nil
}

// Set stamps value with the current time and writes it to the local store.
// The cloud push runs in the background; the returned task reports whether
// the value was pushed or queued.
func (e *Engine) Set(ctx context.Context, key, value string) (*Task, error) {
	if err := validation.ValidateKey(key); err != nil {
		return nil, err
	}

	encoded := codec.Encode(value, e.clock.Now())

	e.localMu.Lock()
	err := e.local.SetValue(ctx, key, encoded)
	e.localMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to save value locally: %w", err)
	}

	e.logger.Debug("Value saved locally", "key", key)

	return e.spawn(ctx, func(ctx context.Context) ReconcileResult {
		return e.pushOrEnqueue(ctx, key, encoded)
	}), nil
}

// Reconcile converges one key between the local store and the cloud using
// last-writer-wins on the stamped timestamps. Cloud errors are logged and
// never returned.
func (e *Engine) Reconcile(ctx context.Context, key string) ReconcileResult {
	if !e.cloud.CheckAvailability(ctx) {
		e.logger.Debug("Cloud unavailable, skipping reconcile", "key", key)
		return Skipped
	}

	cloudRaw, err := e.cloud.FetchValue(ctx, key)
	if err != nil {
		e.logger.Warn("Failed to fetch cloud value", "key", key, "error", err)
		return Skipped
	}
	if cloudRaw == "" {
		return Skipped
	}
	cloudValue := codec.Decode(cloudRaw)

	e.localMu.Lock()
	localRaw, err := e.local.GetValue(ctx, key)
	if err != nil {
		e.localMu.Unlock()
		e.logger.Warn("Failed to read local value", "key", key, "error", err)
		return Skipped
	}

	decision := crdt.Resolve(codec.Decode(localRaw), cloudValue)
	if decision == crdt.TakeCloud {
		err = e.local.SetValue(ctx, key, cloudRaw)
	}
	e.localMu.Unlock()

	e.logger.Debug("Reconciled key", "key", key, "decision", decision.String())

	switch decision {
	case crdt.TakeCloud:
		if err != nil {
			e.logger.Warn("Failed to store cloud value locally", "key", key, "error", err)
			return Skipped
		}
		return Pulled
	case crdt.KeepLocal:
		return e.pushOrEnqueue(ctx, key, localRaw)
	default:
		return InSync
	}
}

// Wait blocks until every background task started so far has finished.
func (e *Engine) Wait() {
	e.tasks.Wait()
}

// spawn runs fn detached from the caller's cancellation, bounded by CloudTimeout.
func (e *Engine) spawn(ctx context.Context, fn func(context.Context) ReconcileResult) *Task {
	task := newTask()
	e.tasks.Add(1)

	go func() {
		defer e.tasks.Done()

		taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.CloudTimeout)
		defer cancel()

		task.finish(fn(taskCtx))
	}()

	return task
}

// pushOrEnqueue saves raw to the cloud and falls back to the pending queue.
func (e *Engine) pushOrEnqueue(ctx context.Context, key, raw string) ReconcileResult {
	err := e.cloud.SaveValue(ctx, key, raw)
	if err == nil {
		e.markPushed(ctx)
		e.logger.Debug("Value pushed to cloud", "key", key)
		return Pushed
	}

	e.logger.Warn("Cloud save failed, queueing value", "key", key, "error", err)

	// Таймаут облачного вызова не должен мешать записи в очередь
	if _, qerr := e.queue.Enqueue(context.WithoutCancel(ctx), models.OperationSave, key, raw); qerr != nil {
		e.logger.Error("Failed to queue value", "key", key, "error", qerr)
		return Failed
	}
	return Queued
}

func (e *Engine) readLocal(ctx context.Context, key string) (models.StampedValue, error) {
	if err := validation.ValidateKey(key); err != nil {
		return models.StampedValue{}, err
	}

	raw, err := e.local.GetValue(ctx, key)
	if err != nil {
		return models.StampedValue{}, fmt.Errorf("failed to read local value: %w", err)
	}
	return codec.Decode(raw), nil
}

func (e *Engine) markPushed(ctx context.Context) {
	now := e.clock.Now()

	e.mu.Lock()
	e.lastPushAt = now
	e.mu.Unlock()

	if e.metadata == nil {
		return
	}
	if err := e.metadata.SaveLastSyncTimestamp(context.WithoutCancel(ctx), now); err != nil {
		e.logger.Warn("Failed to save last sync timestamp", "error", err)
	}
}
