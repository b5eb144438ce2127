package process

import (
	"context"
	"fmt"
	"time"
)

const defaultStopTimeout = 5 * time.Second

// Terminate asks the handle's process group to stop and escalates to a kill
// when it is still alive after grace. Processes that are already gone report
// ErrProcessNotFound.
func Terminate(ctx context.Context, handle *Handle, grace time.Duration) error {
	if handle == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if grace <= 0 {
		grace = defaultStopTimeout
	}
	if handle.Exited() {
		return ErrProcessNotFound
	}
	if err := stopProcess(ctx, handle.PID, handle.PGID, handle.waitFunc(), grace); err != nil {
		return fmt.Errorf("terminate %s (pid %d): %w", handle.Name, handle.PID, err)
	}
	return nil
}

// Alive reports whether pid refers to a running process.
func Alive(pid int) bool {
	return isProcessAlive(pid)
}
