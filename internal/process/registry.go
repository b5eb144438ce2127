package process

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrProcessNotFound = errors.New("process not running")

// Registry tracks the handles that are still expected to be running.
type Registry struct {
	mu      sync.Mutex
	entries map[int]*Handle
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[int]*Handle),
	}
}

func (r *Registry) Register(handle *Handle) {
	if r == nil || handle == nil || handle.PID <= 0 {
		return
	}
	r.mu.Lock()
	r.entries[handle.PID] = handle
	r.mu.Unlock()
}

func (r *Registry) Unregister(handle *Handle) {
	if r == nil || handle == nil || handle.PID <= 0 {
		return
	}
	r.mu.Lock()
	if existing, ok := r.entries[handle.PID]; ok && existing == handle {
		delete(r.entries, handle.PID)
	}
	r.mu.Unlock()
}

// Handles returns the registered handles ordered by start time.
func (r *Registry) Handles() []*Handle {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	handles := make([]*Handle, 0, len(r.entries))
	for _, handle := range r.entries {
		handles = append(handles, handle)
	}
	r.mu.Unlock()
	sort.Slice(handles, func(i, j int) bool {
		if handles[i].StartedAt.Equal(handles[j].StartedAt) {
			return handles[i].PID < handles[j].PID
		}
		return handles[i].StartedAt.Before(handles[j].StartedAt)
	})
	return handles
}

// StopAll terminates every registered handle, most recently started first.
func (r *Registry) StopAll(ctx context.Context, grace time.Duration) error {
	if r == nil {
		return nil
	}
	handles := r.Handles()

	var stopErr error
	for i := len(handles) - 1; i >= 0; i-- {
		handle := handles[i]
		if err := Terminate(ctx, handle, grace); err != nil && !errors.Is(err, ErrProcessNotFound) {
			stopErr = errors.Join(stopErr, err)
		}
		r.Unregister(handle)
	}
	return stopErr
}
