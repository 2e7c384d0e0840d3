package sync

import "errors"

// ErrAlreadyRunning is returned by Run when the drain loop is already active.
var ErrAlreadyRunning = errors.New("sync: pending drain loop already running")
