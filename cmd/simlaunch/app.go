package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"simlaunch/internal/config"
	"simlaunch/internal/launcher"
	"simlaunch/internal/logging"
	"simlaunch/internal/process"
	"simlaunch/internal/robot"
	"simlaunch/internal/state"
	"simlaunch/internal/version"
)

const noEnvMessage = "No env supplied for startup. Make sure to start directly through the runfile"

// app is what every subcommand needs once settings are resolved.
type app struct {
	out      io.Writer
	errOut   io.Writer
	deps     deps
	settings config.Settings
	logger   *logging.Logger
	registry *process.Registry
	store    state.Store
}

func newApp(out, errOut io.Writer, d deps, settings config.Settings) *app {
	a := &app{
		out:      out,
		errOut:   errOut,
		deps:     d,
		settings: settings,
		logger:   logging.NewLoggerWithOutput(settings.LogLevel, errOut),
		registry: process.NewRegistry(),
		store:    state.Store{Path: settings.StatePath},
	}
	sources := make(map[string]string, len(settings.Sources))
	for key, source := range settings.Sources {
		sources[key] = string(source)
	}
	a.logger.Debug("settings resolved", sources)
	return a
}

func (a *app) coordinator(logger *logging.Logger, onSpawn func(string, *process.Handle)) *launcher.Coordinator {
	return launcher.New(launcher.Options{
		Catalog:    a.settings.Catalog,
		Spawner:    a.deps.spawner(a.settings, a.registry),
		Sleeper:    a.deps.sleeper,
		Terminator: a.deps.terminator,
		Delays:     a.settings.Delays,
		Logger:     logger,
		Progress:   a.out,
		OnSpawn:    onSpawn,
	})
}

// interruptible installs the shutdown signal handlers until release is called.
func (a *app) interruptible(ctx context.Context) (context.Context, func()) {
	signalCh, stopNotify := a.deps.signals()
	ctx, stopWatching := watchSignals(ctx, a.logger, signalCh)
	return ctx, func() {
		stopWatching()
		stopNotify()
	}
}

// start launches both subsystems and records the run. While starting, the
// record names this process as its launcher and gains each process as soon
// as it is spawned, so stop can reach a start that is still waiting.
// holdPID is the launcher recorded once start succeeds, zero when the
// children are left detached.
func (a *app) start(ctx context.Context, env string, useTaskWorld bool, holdPID int) (*launcher.Coordinator, launcher.Handles, state.Record, error) {
	id := robot.Normalize(env)
	launch, err := a.settings.Catalog.Resolve(id, useTaskWorld)
	if err != nil {
		return nil, launcher.Handles{}, state.Record{}, err
	}
	if err := a.ensureNoActiveRun(); err != nil {
		return nil, launcher.Handles{}, state.Record{}, err
	}

	record := state.Record{
		RunID:        state.NewRunID(),
		Robot:        launch.Robot,
		World:        launch.World,
		UseTaskWorld: useTaskWorld,
		StartedAt:    time.Now().UTC(),
		LauncherPID:  a.deps.pid,
	}
	logger := a.logger.With(map[string]string{"run_id": record.RunID})
	coordinator := a.coordinator(logger, func(name string, handle *process.Handle) {
		switch name {
		case launcher.SimulatorName:
			record.Simulator = state.FromHandle(handle)
		case launcher.PlannerName:
			record.Planner = state.FromHandle(handle)
		}
		a.saveRecord(logger, record)
	})

	handles, err := coordinator.Start(ctx, id, useTaskWorld)
	if err != nil {
		if removeErr := a.store.Remove(); removeErr != nil {
			logger.Warn("run record not removed", map[string]string{"error": removeErr.Error()})
		}
		return nil, launcher.Handles{}, state.Record{}, err
	}

	record.LauncherPID = holdPID
	record.Simulator = state.FromSlot(handles.Simulator)
	record.Planner = state.FromSlot(handles.Planner)
	a.saveRecord(logger, record)
	return coordinator, handles, record, nil
}

func (a *app) saveRecord(logger *logging.Logger, record state.Record) {
	if err := a.store.Save(record); err != nil {
		logger.Warn("run record not saved; stop will need the process ids", map[string]string{
			"path":  a.store.Path,
			"error": err.Error(),
		})
	}
}

func (a *app) ensureNoActiveRun() error {
	record, err := a.store.Load()
	if errors.Is(err, state.ErrNoRecord) {
		return nil
	}
	if err != nil {
		a.logger.Warn("ignoring unreadable run record", map[string]string{
			"path":  a.store.Path,
			"error": err.Error(),
		})
		return a.store.Remove()
	}
	if record.Alive() || (record.LauncherPID > 0 && record.LauncherPID != a.deps.pid && process.Alive(record.LauncherPID)) {
		return fmt.Errorf("%w: run %s for %s; stop it first", errActiveRun, record.RunID, record.Robot)
	}
	a.logger.Info("removing stale run record", map[string]string{"run_id": record.RunID})
	return a.store.Remove()
}

// up starts the subsystems and leaves them running after this process exits.
// A signal during start rolls back what was already spawned.
func (a *app) up(ctx context.Context, env string, useTaskWorld bool) error {
	if strings.TrimSpace(env) == "" {
		fmt.Fprintln(a.out, noEnvMessage)
		return nil
	}
	if a.settings.TTY {
		return fmt.Errorf("%w: --tty needs the run command to keep the terminal open", errUsage)
	}
	ctx, release := a.interruptible(ctx)
	defer release()
	if _, _, _, err := a.start(ctx, env, useTaskWorld, 0); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "\nAll launchfiles started")
	return nil
}

// hold starts the subsystems and keeps them in the foreground until a signal
// arrives or every started process has exited.
func (a *app) hold(ctx context.Context, env string, useTaskWorld bool) error {
	if strings.TrimSpace(env) == "" {
		return fmt.Errorf("%w: --env is required", errUsage)
	}
	signalCtx, release := a.interruptible(ctx)
	defer release()
	coordinator, handles, record, err := a.start(signalCtx, env, useTaskWorld, a.deps.pid)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "\nAll launchfiles started")

	holdCtx, cancel := context.WithCancel(signalCtx)
	defer cancel()
	go func() {
		waitAll(holdCtx, handles)
		cancel()
	}()
	<-holdCtx.Done()

	shutdown := &runShutdown{
		logger:      a.logger,
		coordinator: coordinator,
		handles:     handles,
		store:       a.store,
		registry:    a.registry,
		grace:       a.settings.Delays.StopGrace,
	}
	if err := shutdown.Run(context.Background()); err != nil {
		return fmt.Errorf("%w: %v", errStop, err)
	}
	a.logger.Info("run stopped", map[string]string{"run_id": record.RunID})
	return nil
}

func waitAll(ctx context.Context, handles launcher.Handles) {
	for _, slot := range []process.Slot{handles.Simulator, handles.Planner} {
		handle, ok := slot.Get()
		if !ok {
			continue
		}
		_ = handle.Wait(ctx)
		if ctx.Err() != nil {
			return
		}
	}
}

// stop ends the recorded run. A run held by another launcher is asked to
// stop itself so it can clean up its own record.
func (a *app) stop(ctx context.Context) error {
	record, err := a.store.Load()
	if errors.Is(err, state.ErrNoRecord) {
		fmt.Fprintln(a.out, "No active run recorded")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errStop, err)
	}
	logger := a.logger.With(map[string]string{"run_id": record.RunID})

	if record.LauncherPID > 0 && record.LauncherPID != a.deps.pid && process.Alive(record.LauncherPID) {
		launcherProc, err := os.FindProcess(record.LauncherPID)
		if err == nil {
			err = signalTerminate(launcherProc)
		}
		if err != nil {
			return fmt.Errorf("%w: signal launcher %d: %v", errStop, record.LauncherPID, err)
		}
		logger.Info("stop requested from holding launcher", map[string]string{
			"launcher_pid": strconv.Itoa(record.LauncherPID),
		})
		fmt.Fprintf(a.out, "Stop requested from launcher pid %d\n", record.LauncherPID)
		return nil
	}

	coordinator := a.coordinator(logger, nil)
	coordinator.Stop(ctx, launcher.Handles{
		Simulator: record.Simulator.Slot(),
		Planner:   record.Planner.Slot(),
	})
	if err := a.store.Remove(); err != nil {
		return fmt.Errorf("%w: %v", errStop, err)
	}
	fmt.Fprintln(a.out, "All launchfiles stopped")
	return nil
}

func (a *app) world(env string, useTaskWorld bool) error {
	if strings.TrimSpace(env) == "" {
		return fmt.Errorf("%w: --env is required", errUsage)
	}
	name, err := a.settings.Catalog.WorldName(robot.Normalize(env), useTaskWorld)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, name)
	return nil
}

func (a *app) robots() error {
	catalog := a.settings.Catalog
	writer := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ROBOT\tWORLD\tSIMULATOR\tPLANNER")
	for _, id := range catalog.Robots() {
		launch, err := catalog.Resolve(id, false)
		if err != nil {
			return err
		}
		simulator, _ := catalog.Simulator.Lookup(id)
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", id, launch.World, simulator, launch.Planner)
	}
	return writer.Flush()
}

func (a *app) purge(ctx context.Context) error {
	if err := launcher.Purge(ctx, a.deps.runner, a.logger); err != nil {
		return fmt.Errorf("%w: %v", errStop, err)
	}
	fmt.Fprintln(a.out, "ROS and gazebo processes purged")
	return nil
}

func (a *app) printVersion() {
	fmt.Fprintln(a.out, version.Line(programName))
}
