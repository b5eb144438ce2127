package launchspec

import (
	"errors"
	"reflect"
	"testing"

	"simlaunch/internal/robot"
)

func TestWorldNames(t *testing.T) {
	catalog := DefaultCatalog()
	cases := []struct {
		robot        robot.ID
		useTaskWorld bool
		want         string
	}{
		{robot: robot.PR2, want: "empty.world"},
		{robot: robot.Tiago, want: "empty"},
		{robot: robot.HSR, want: "empty.world"},
		{robot: robot.PR2, useTaskWorld: true, want: "modulation_tasks.world"},
		{robot: robot.Tiago, useTaskWorld: true, want: "modulation_tasks"},
		{robot: robot.HSR, useTaskWorld: true, want: "modulation_tasks.world"},
	}
	for _, tc := range cases {
		got, err := catalog.WorldName(tc.robot, tc.useTaskWorld)
		if err != nil {
			t.Fatalf("%s: world name: %v", tc.robot, err)
		}
		if got != tc.want {
			t.Fatalf("%s task=%v: expected %q, got %q", tc.robot, tc.useTaskWorld, tc.want, got)
		}
	}
}

func TestWorldPolicyStripsSubstring(t *testing.T) {
	policy := DefaultCatalog().World(robot.HSR)
	if got := policy.Apply("fast_empty"); got != "_empty.world" {
		t.Fatalf("expected fast stripped, got %q", got)
	}
}

func TestResolveAppendsWorldToSimulatorOnly(t *testing.T) {
	catalog := DefaultCatalog()
	launch, err := catalog.Resolve(robot.PR2, false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	simulator := launch.Simulator.Argv()
	if simulator[len(simulator)-1] != "world_name:=empty.world" {
		t.Fatalf("expected world arg last, got %#v", simulator)
	}
	for _, arg := range launch.Planner.Argv() {
		if arg == "world_name:=empty.world" {
			t.Fatalf("planner must not receive world arg: %#v", launch.Planner.Argv())
		}
	}

	original, err := catalog.Simulator.Lookup(robot.PR2)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(original.Argv()) != len(simulator)-1 {
		t.Fatalf("table entry was mutated: %#v", original.Argv())
	}

	again, err := catalog.Resolve(robot.PR2, false)
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if !reflect.DeepEqual(again.Simulator.Argv(), simulator) {
		t.Fatalf("expected stable resolution, got %#v", again.Simulator.Argv())
	}
}

func TestResolveTiagoHasNoPlanner(t *testing.T) {
	launch, err := DefaultCatalog().Resolve(robot.Tiago, false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if launch.Planner.Present() {
		t.Fatalf("expected absent planner, got %v", launch.Planner)
	}
	if !launch.Simulator.Present() {
		t.Fatalf("expected simulator command")
	}
}

func TestResolveUnknownRobot(t *testing.T) {
	_, err := DefaultCatalog().Resolve(robot.ID("pr2old"), false)
	if !errors.Is(err, ErrUnknownRobot) {
		t.Fatalf("expected unknown robot error, got %v", err)
	}
}

func TestAllDefaultRobotsResolve(t *testing.T) {
	catalog := DefaultCatalog()
	if err := catalog.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, id := range robot.All() {
		if _, err := catalog.Resolve(id, false); err != nil {
			t.Fatalf("%s: %v", id, err)
		}
	}
	if got := catalog.Robots(); !reflect.DeepEqual(got, []robot.ID{robot.HSR, robot.PR2, robot.Tiago}) {
		t.Fatalf("unexpected robots %#v", got)
	}
}

func TestCommandArgvIsCopy(t *testing.T) {
	command := NewCommand("roslaunch", "pkg", "file.launch")
	argv := command.Argv()
	argv[0] = "changed"
	if command.Argv()[0] != "roslaunch" {
		t.Fatalf("command mutated through Argv copy")
	}
	if NewCommand(" ", "").Present() {
		t.Fatalf("expected blank argv to be absent")
	}
	if got := (Command{}).With("x").Present(); got {
		t.Fatalf("expected absent command to stay absent")
	}
}

func TestNewTableCopiesInput(t *testing.T) {
	commands := map[robot.ID]Command{robot.PR2: ParseCommand("a b")}
	table := NewTable("sim", commands)
	commands[robot.Tiago] = ParseCommand("c")
	if _, err := table.Lookup(robot.Tiago); !errors.Is(err, ErrUnknownRobot) {
		t.Fatalf("expected table to ignore later map changes, got %v", err)
	}
}
