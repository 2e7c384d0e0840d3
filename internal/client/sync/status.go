package sync

import (
	"context"
	"fmt"
	"time"
)

// Status is a point-in-time view of the sync state.
type Status struct {
	QueueDepth          int
	CurrentDelay        time.Duration
	ConsecutiveFailures int
	// LastPushAt unix seconds of the last acknowledged cloud push, 0 if none
	LastPushAt int64
	// LastDrainAt unix seconds of the last drain batch in this process, 0 if none
	LastDrainAt int64
	Running     bool
}

// Status reports queue depth and backoff state.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	depth, err := e.queue.Len(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to read queue depth: %w", err)
	}

	e.mu.Lock()
	st := Status{
		QueueDepth:          depth,
		CurrentDelay:        e.backoff.Delay(),
		ConsecutiveFailures: e.backoff.Failures(),
		LastPushAt:          e.lastPushAt,
		LastDrainAt:         e.lastDrainAt,
		Running:             e.running.Load(),
	}
	e.mu.Unlock()

	// Другой процесс мог отправлять значения, берем сохраненное время
	if st.LastPushAt == 0 && e.metadata != nil {
		ts, err := e.metadata.GetLastSyncTimestamp(ctx)
		if err != nil {
			e.logger.Warn("Failed to get last sync timestamp", "error", err)
		} else {
			st.LastPushAt = ts
		}
	}

	return st, nil
}
