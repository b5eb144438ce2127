//go:build windows

package main

import "os"

func signalTerminate(proc *os.Process) error {
	return proc.Kill()
}
