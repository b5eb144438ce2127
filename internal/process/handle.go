package process

import (
	"context"
	"strings"
	"sync"
	"time"
)

const pollInterval = 50 * time.Millisecond

// Handle references one spawned process. Handles created by a Spawner own
// the child and can wait for it; handles rebuilt from a run record only know
// the IDs and fall back to polling.
type Handle struct {
	PID       int
	PGID      int
	Name      string
	Argv      []string
	StartedAt time.Time

	done    chan struct{}
	once    sync.Once
	exitErr error
}

// NewHandle builds a handle for a process this program did not start.
func NewHandle(pid, pgid int, name string, argv []string) *Handle {
	return &Handle{
		PID:  pid,
		PGID: pgid,
		Name: name,
		Argv: append([]string(nil), argv...),
	}
}

func newOwnedHandle(pid, pgid int, name string, argv []string) *Handle {
	handle := NewHandle(pid, pgid, name, argv)
	handle.StartedAt = time.Now().UTC()
	handle.done = make(chan struct{})
	return handle
}

func (h *Handle) finish(err error) {
	if h == nil || h.done == nil {
		return
	}
	h.once.Do(func() {
		h.exitErr = err
		close(h.done)
	})
}

// Owned reports whether the handle was spawned by this process.
func (h *Handle) Owned() bool {
	return h != nil && h.done != nil
}

// Exited reports whether an owned child has been reaped.
func (h *Handle) Exited() bool {
	if !h.Owned() {
		return false
	}
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Wait blocks until an owned child exits or ctx is done. For handles that do
// not own their process Wait polls liveness.
func (h *Handle) Wait(ctx context.Context) error {
	if h == nil {
		return nil
	}
	if !h.Owned() {
		for isProcessAlive(h.PID) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollInterval):
			}
		}
		return nil
	}
	select {
	case <-h.done:
		return h.exitErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handle) waitFunc() func(context.Context) error {
	if !h.Owned() {
		return nil
	}
	return h.Wait
}

func (h *Handle) String() string {
	if h == nil {
		return "<none>"
	}
	return h.Name + "[" + strings.Join(h.Argv, " ") + "]"
}

// Slot holds at most one handle.
type Slot struct {
	handle *Handle
}

// Some wraps handle; a nil handle yields an empty slot.
func Some(handle *Handle) Slot {
	return Slot{handle: handle}
}

func None() Slot {
	return Slot{}
}

func (s Slot) Present() bool {
	return s.handle != nil
}

func (s Slot) Get() (*Handle, bool) {
	return s.handle, s.handle != nil
}
