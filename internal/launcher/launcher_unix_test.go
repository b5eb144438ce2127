//go:build !windows

package launcher

import (
	"context"
	"io"
	"testing"
	"time"

	"simlaunch/internal/launchspec"
	"simlaunch/internal/process"
	"simlaunch/internal/robot"
)

func TestStartStopRealProcesses(t *testing.T) {
	simulator := launchspec.NewTable(launchspec.SimulatorTableName, map[robot.ID]launchspec.Command{
		robot.Tiago: launchspec.NewCommand("sh", "-c", "sleep 10", "world"),
	})
	planner := launchspec.NewTable(launchspec.PlannerTableName, map[robot.ID]launchspec.Command{
		robot.Tiago: {},
	})
	registry := process.NewRegistry()
	coordinator := New(Options{
		Catalog: launchspec.NewCatalog(simulator, planner, nil),
		Spawner: process.ExecSpawner{Registry: registry, Stdout: io.Discard, Stderr: io.Discard},
		Sleeper: SleeperFunc(func(time.Duration) {}),
		Delays:  Delays{StopGrace: time.Second},
	})

	handles, err := coordinator.Start(context.Background(), robot.Tiago, false)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	handle, ok := handles.Simulator.Get()
	if !ok {
		t.Fatalf("expected simulator handle")
	}
	if !process.Alive(handle.PID) {
		t.Fatalf("expected simulator to be running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	coordinator.Stop(ctx, handles)
	if !handle.Exited() {
		t.Fatalf("expected simulator to exit after stop")
	}
	if len(registry.Handles()) != 0 {
		t.Fatalf("expected registry to be empty, got %d", len(registry.Handles()))
	}
}
