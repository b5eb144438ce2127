//go:build !windows

package main

import (
	"os"
	"syscall"
)

func signalTerminate(proc *os.Process) error {
	return proc.Signal(syscall.SIGTERM)
}
