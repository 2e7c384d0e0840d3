package sync

import "context"

// ReconcileResult describes what a background step did to one key.
type ReconcileResult int

const (
	// Skipped cloud unreachable, no cloud record, or a fetch/local read failed
	Skipped ReconcileResult = iota
	// InSync local and cloud carry the same timestamp
	InSync
	// Pulled the newer cloud value replaced the local one
	Pulled
	// Pushed the local value was acknowledged by the cloud
	Pushed
	// Queued the cloud push failed and the value is in the pending queue
	Queued
	// Failed the value could be neither pushed nor queued
	Failed
)

func (r ReconcileResult) String() string {
	switch r {
	case InSync:
		return "in_sync"
	case Pulled:
		return "pulled"
	case Pushed:
		return "pushed"
	case Queued:
		return "queued"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

// Task is a handle to detached cloud work started by Get or Set.
type Task struct {
	done   chan struct{}
	result ReconcileResult
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func (t *Task) finish(result ReconcileResult) {
	t.result = result
	close(t.done)
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result returns the outcome. It is only meaningful after Done is closed.
func (t *Task) Result() ReconcileResult {
	select {
	case <-t.done:
		return t.result
	default:
		return Skipped
	}
}
