//go:build windows

package process

import (
	"context"
	"os"
	"os/exec"
	"time"
)

func GroupID(pid int) int {
	return 0
}

func stopProcess(ctx context.Context, pid, pgid int, wait func(context.Context) error, grace time.Duration) error {
	if pid <= 0 {
		return nil
	}
	_ = pgid
	process, err := os.FindProcess(pid)
	if err != nil {
		return ErrProcessNotFound
	}
	_ = process.Kill()
	return waitForExit(ctx, pid, wait, grace)
}

func waitForExit(ctx context.Context, pid int, wait func(context.Context) error, grace time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if grace <= 0 {
		grace = defaultStopTimeout
	}
	if wait != nil {
		waitCtx, cancel := context.WithTimeout(ctx, grace)
		defer cancel()
		err := wait(waitCtx)
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		return err
	}
	if pid <= 0 {
		return nil
	}
	deadline := time.Now().Add(grace)
	for {
		if !isProcessAlive(pid) {
			return nil
		}
		if time.Now().After(deadline) {
			return context.DeadlineExceeded
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil || process == nil {
		return false
	}
	_ = process.Release()
	return true
}
