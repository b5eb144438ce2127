package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"simlaunch/internal/launchspec"
	"simlaunch/internal/logging"
	"simlaunch/internal/process"
	"simlaunch/internal/robot"
)

var (
	ErrSpawn       = errors.New("spawn failed")
	ErrInterrupted = errors.New("start interrupted")
)

const (
	SimulatorName = "simulator"
	PlannerName   = "planner"
)

// Delays are fixed waits. A subsystem counts as ready once its delay has
// elapsed; nothing probes it.
type Delays struct {
	AfterSimulator time.Duration
	AfterPlanner   time.Duration
	BeforeStop     time.Duration
	StopGrace      time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		AfterSimulator: 10 * time.Second,
		AfterPlanner:   30 * time.Second,
		BeforeStop:     10 * time.Second,
		StopGrace:      5 * time.Second,
	}
}

type Sleeper interface {
	Sleep(time.Duration)
}

type SleeperFunc func(time.Duration)

func (f SleeperFunc) Sleep(d time.Duration) {
	f(d)
}

// WallClock blocks for the full duration and cannot be interrupted.
var WallClock Sleeper = SleeperFunc(time.Sleep)

// Handles is the pair of subsystem processes owned by the caller between
// Start and Stop. Either slot may be empty.
type Handles struct {
	Simulator process.Slot
	Planner   process.Slot
}

// Terminator stops one process. process.Terminate is the default.
type Terminator func(ctx context.Context, handle *process.Handle, grace time.Duration) error

type Options struct {
	Catalog    launchspec.Catalog
	Spawner    process.Spawner
	Sleeper    Sleeper
	Terminator Terminator
	Delays     Delays
	Logger     *logging.Logger
	Progress   io.Writer
	// OnSpawn sees every process right after it starts, before any delay.
	OnSpawn func(name string, handle *process.Handle)
}

// Coordinator starts the simulator and planner for one robot in sequence and
// stops them again.
type Coordinator struct {
	catalog    launchspec.Catalog
	spawner    process.Spawner
	sleeper    Sleeper
	terminator Terminator
	delays     Delays
	logger     *logging.Logger
	progress   io.Writer
	onSpawn    func(string, *process.Handle)
}

func New(opts Options) *Coordinator {
	coordinator := &Coordinator{
		catalog:    opts.Catalog,
		spawner:    opts.Spawner,
		sleeper:    opts.Sleeper,
		terminator: opts.Terminator,
		delays:     opts.Delays,
		logger:     opts.Logger,
		progress:   opts.Progress,
		onSpawn:    opts.OnSpawn,
	}
	if coordinator.spawner == nil {
		coordinator.spawner = process.ExecSpawner{}
	}
	if coordinator.sleeper == nil {
		coordinator.sleeper = WallClock
	}
	if coordinator.terminator == nil {
		coordinator.terminator = process.Terminate
	}
	if coordinator.logger == nil {
		coordinator.logger = logging.Discard()
	}
	if coordinator.progress == nil {
		coordinator.progress = io.Discard
	}
	return coordinator
}

func (c *Coordinator) Resolve(id robot.ID, useTaskWorld bool) (launchspec.Launch, error) {
	return c.catalog.Resolve(id, useTaskWorld)
}

// Start spawns the simulator, waits, spawns the planner and waits again.
// Unknown robots fail before anything is spawned. When the planner fails to
// spawn, or ctx is cancelled by the end of a delay, the processes already
// started are terminated so no half-started run is left behind.
func (c *Coordinator) Start(ctx context.Context, id robot.ID, useTaskWorld bool) (Handles, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	launch, err := c.catalog.Resolve(id, useTaskWorld)
	if err != nil {
		return Handles{}, err
	}
	logger := c.logger.With(map[string]string{
		"robot": string(launch.Robot),
		"world": launch.World,
	})
	if err := interrupted(ctx); err != nil {
		return Handles{}, err
	}

	simulator, err := c.spawn(ctx, logger, SimulatorName, launch.Simulator)
	if err != nil {
		return Handles{}, err
	}
	c.wait(logger, SimulatorName, c.delays.AfterSimulator)
	if err := interrupted(ctx); err != nil {
		c.rollback(ctx, logger, err, simulator)
		return Handles{}, err
	}

	planner, err := c.spawn(ctx, logger, PlannerName, launch.Planner)
	if err != nil {
		c.rollback(ctx, logger, err, simulator)
		return Handles{}, err
	}
	c.wait(logger, PlannerName, c.delays.AfterPlanner)
	if err := interrupted(ctx); err != nil {
		c.rollback(ctx, logger, err, planner, simulator)
		return Handles{}, err
	}

	return Handles{Simulator: simulator, Planner: planner}, nil
}

func interrupted(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
}

// rollback terminates slots in the given order. Termination must outlive the
// cancelled start context or the grace period would be skipped.
func (c *Coordinator) rollback(ctx context.Context, logger *logging.Logger, cause error, slots ...process.Slot) {
	logger.Warn("start aborted; stopping started processes", map[string]string{"error": cause.Error()})
	ctx = context.WithoutCancel(ctx)
	for _, slot := range slots {
		c.terminate(ctx, logger, slot)
	}
}

// Stop waits, then asks every present process to terminate. Failures are
// logged and not returned.
func (c *Coordinator) Stop(ctx context.Context, handles Handles) {
	c.wait(c.logger, "stop", c.delays.BeforeStop)
	c.terminate(ctx, c.logger, handles.Simulator)
	c.terminate(ctx, c.logger, handles.Planner)
}

func (c *Coordinator) spawn(ctx context.Context, logger *logging.Logger, name string, command launchspec.Command) (process.Slot, error) {
	fmt.Fprintf(c.progress, "Starting command %s\n", command)
	if !command.Present() {
		logger.Info("no command configured; skipping", map[string]string{"process": name})
		return process.None(), nil
	}
	handle, err := c.spawner.Spawn(ctx, name, command.Argv())
	if err != nil {
		logger.Error("spawn failed", map[string]string{
			"process": name,
			"error":   err.Error(),
		})
		return process.None(), fmt.Errorf("%w: %s: %v", ErrSpawn, name, err)
	}
	logger.Info("process started", map[string]string{
		"process": name,
		"pid":     strconv.Itoa(handle.PID),
		"command": command.String(),
	})
	if c.onSpawn != nil {
		c.onSpawn(name, handle)
	}
	return process.Some(handle), nil
}

func (c *Coordinator) wait(logger *logging.Logger, phase string, delay time.Duration) {
	if delay <= 0 {
		return
	}
	logger.Debug("waiting", map[string]string{
		"phase": phase,
		"delay": delay.String(),
	})
	c.sleeper.Sleep(delay)
}

func (c *Coordinator) terminate(ctx context.Context, logger *logging.Logger, slot process.Slot) {
	handle, ok := slot.Get()
	if !ok {
		return
	}
	fields := map[string]string{
		"process": handle.Name,
		"pid":     strconv.Itoa(handle.PID),
	}
	err := c.terminator(ctx, handle, c.delays.StopGrace)
	switch {
	case err == nil:
		logger.Info("process terminated", fields)
	case errors.Is(err, process.ErrProcessNotFound):
		logger.Debug("process already exited", fields)
	default:
		fields["error"] = err.Error()
		logger.Warn("terminate failed", fields)
	}
}
