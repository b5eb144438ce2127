//go:build !windows

package process

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, out *lockedBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected output %q, got %q", want, out.String())
}

func TestExecSpawnerCapturesOutput(t *testing.T) {
	out := &lockedBuffer{}
	spawner := ExecSpawner{Stdout: out, Stderr: out}
	handle, err := spawner.Spawn(context.Background(), "echo", []string{"echo", "world_name:=empty.world"})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := handle.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	waitForOutput(t, out, "world_name:=empty.world")
	if handle.Argv[0] != "echo" || handle.Name != "echo" {
		t.Fatalf("unexpected handle %v", handle)
	}
}

func TestExecSpawnerTTY(t *testing.T) {
	out := &lockedBuffer{}
	spawner := ExecSpawner{Stdout: out, TTY: true}
	handle, err := spawner.Spawn(context.Background(), "tty-check", []string{"sh", "-c", "test -t 1 && echo on-tty"})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := handle.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	waitForOutput(t, out, "on-tty")
}

func TestExecSpawnerErrors(t *testing.T) {
	spawner := ExecSpawner{}
	if _, err := spawner.Spawn(context.Background(), "empty", []string{" "}); !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("expected empty command error, got %v", err)
	}
	if _, err := spawner.Spawn(context.Background(), "missing", []string{"simlaunch-definitely-missing-binary"}); err == nil {
		t.Fatalf("expected lookup error")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := spawner.Spawn(ctx, "sleep", []string{"sleep", "1"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled context error, got %v", err)
	}
}

func TestExecRunner(t *testing.T) {
	result, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 3")
	if err == nil {
		t.Fatalf("expected exit error")
	}
	if result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", result.ExitCode)
	}
	if strings.TrimSpace(string(result.Stdout)) != "out" || strings.TrimSpace(string(result.Stderr)) != "err" {
		t.Fatalf("unexpected output %q %q", result.Stdout, result.Stderr)
	}

	result, err = ExecRunner{}.Run(context.Background(), "simlaunch-definitely-missing-binary")
	if err == nil || result.ExitCode != 127 {
		t.Fatalf("expected 127 for missing binary, got %d (%v)", result.ExitCode, err)
	}
}
