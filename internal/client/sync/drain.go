package sync

import (
	"context"
	"time"

	"github.com/iudanet/vocabsync/internal/client/storage"
	"github.com/iudanet/vocabsync/internal/codec"
	"github.com/iudanet/vocabsync/internal/models"
)

// Run drains the pending queue until ctx is cancelled, sleeping between
// batches for a delay that adapts to the outcome of the previous batch.
// Only one Run may be active per engine.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	e.logger.Info("Pending drain loop started",
		"base_delay", e.cfg.BaseDelay,
		"min_delay", e.cfg.MinDelay,
		"max_delay", e.cfg.MaxDelay)

	for {
		delay := e.drainOnce(ctx)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			e.logger.Info("Pending drain loop stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// batchResult summarizes one pass over the pending queue.
type batchResult struct {
	attempted int
	succeeded int
	nextDelay time.Duration
}

// drainOnce pushes every queued operation once and returns the delay before
// the next batch.
func (e *Engine) drainOnce(ctx context.Context) time.Duration {
	return e.drain(ctx).nextDelay
}

func (e *Engine) drain(ctx context.Context) batchResult {
	defer e.markDrained()

	// Хранилище с арендой открывается только на время пачки
	if leaser, ok := e.local.(storage.Leaser); ok {
		if err := leaser.Acquire(ctx); err != nil {
			e.logger.Warn("Local store is busy, skipping drain", "error", err)
			return batchResult{nextDelay: e.observe(0, 0)}
		}
		defer func() {
			if err := leaser.Release(); err != nil {
				e.logger.Warn("Failed to release local store", "error", err)
			}
		}()
	}

	ops, err := e.queue.Snapshot(ctx)
	if err != nil {
		e.logger.Warn("Failed to read pending queue", "error", err)
		return batchResult{attempted: 1, nextDelay: e.observe(1, 0)}
	}

	if len(ops) == 0 {
		e.mu.Lock()
		e.backoff.Reset()
		e.mu.Unlock()
		return batchResult{nextDelay: e.cfg.BaseDelay}
	}

	var res batchResult
	for _, op := range ops {
		if ctx.Err() != nil {
			break
		}
		if op.Type != models.OperationSave {
			e.logger.Warn("Skipping unknown pending operation", "id", op.ID, "type", op.Type)
			continue
		}

		res.attempted++
		if e.drainOperation(ctx, op) {
			res.succeeded++
		}
	}

	res.nextDelay = e.observe(res.attempted, res.succeeded)

	e.logger.Info("Pending queue drained",
		"attempted", res.attempted,
		"succeeded", res.succeeded,
		"next_delay", res.nextDelay)

	return res
}

// drainOperation pushes one operation and dequeues it on acknowledgement.
func (e *Engine) drainOperation(ctx context.Context, op models.PendingOperation) bool {
	value := op.Value

	// Если локально лежит более новое значение, отправляем его вместо записанного в очередь
	localRaw, err := e.local.GetValue(ctx, op.Key)
	if err != nil {
		e.logger.Warn("Failed to read local value", "key", op.Key, "error", err)
	} else if codec.Decode(localRaw).IsNewerThan(codec.Decode(op.Value)) {
		value = localRaw
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.CloudTimeout)
	err = e.cloud.SaveValue(callCtx, op.Key, value)
	cancel()
	if err != nil {
		e.logger.Debug("Pending push failed", "key", op.Key, "error", err)
		return false
	}

	e.markPushed(ctx)

	if err := e.queue.Dequeue(ctx, op.ID); err != nil {
		// значение уже в облаке, повторная отправка безопасна
		e.logger.Warn("Failed to dequeue pushed operation", "id", op.ID, "error", err)
	}
	return true
}

func (e *Engine) observe(attempted, succeeded int) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.backoff.Observe(attempted, succeeded)
}

func (e *Engine) markDrained() {
	now := e.clock.Now()
	e.mu.Lock()
	e.lastDrainAt = now
	e.mu.Unlock()
}
