package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"simlaunch/internal/launcher"
	"simlaunch/internal/logging"
	"simlaunch/internal/process"
	"simlaunch/internal/state"
)

// runShutdown takes a held run down: the subsystems through the launch
// coordinator, then the run record, then whatever the registry still tracks.
// Run does the work once; later calls return the first result.
type runShutdown struct {
	logger      *logging.Logger
	coordinator *launcher.Coordinator
	handles     launcher.Handles
	store       state.Store
	registry    *process.Registry
	grace       time.Duration

	once sync.Once
	err  error
}

func (s *runShutdown) Run(ctx context.Context) error {
	s.once.Do(func() {
		s.phase("subsystems", func() error {
			// Stop logs its own failures.
			s.coordinator.Stop(ctx, s.handles)
			return nil
		})
		s.phase("run record", s.store.Remove)
		s.phase("registry", func() error {
			leftover := s.registry.Handles()
			if len(leftover) == 0 {
				return nil
			}
			s.logger.Warn("stopping processes still tracked", map[string]string{
				"count": strconv.Itoa(len(leftover)),
			})
			return s.registry.StopAll(ctx, s.grace)
		})
	})
	return s.err
}

func (s *runShutdown) phase(name string, stop func() error) {
	s.logger.Debug("shutdown phase starting", map[string]string{"phase": name})
	if err := stop(); err != nil {
		s.err = errors.Join(s.err, fmt.Errorf("%s: %w", name, err))
		s.logger.Warn("shutdown phase failed", map[string]string{
			"phase": name,
			"error": err.Error(),
		})
	}
}
