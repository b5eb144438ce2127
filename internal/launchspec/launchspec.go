package launchspec

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"simlaunch/internal/robot"
)

var ErrUnknownRobot = errors.New("unknown robot")

// WorldArgKey is the roslaunch argument that selects the simulated world.
const WorldArgKey = "world_name"

// Command is an argv that may be absent. The zero value is absent.
type Command struct {
	argv []string
}

// NewCommand returns an absent command when argv is empty.
func NewCommand(argv ...string) Command {
	argv = normalizeArgv(argv)
	if len(argv) == 0 {
		return Command{}
	}
	return Command{argv: argv}
}

// ParseCommand splits a command line on whitespace.
func ParseCommand(line string) Command {
	return NewCommand(strings.Fields(line)...)
}

func (c Command) Present() bool {
	return len(c.argv) > 0
}

// Argv returns a copy of the command line, nil when absent.
func (c Command) Argv() []string {
	if !c.Present() {
		return nil
	}
	return append([]string(nil), c.argv...)
}

// With returns a new command with args appended. Absent commands stay absent.
func (c Command) With(args ...string) Command {
	if !c.Present() {
		return c
	}
	argv := make([]string, 0, len(c.argv)+len(args))
	argv = append(argv, c.argv...)
	argv = append(argv, args...)
	return NewCommand(argv...)
}

func (c Command) String() string {
	if !c.Present() {
		return "<none>"
	}
	return strings.Join(c.argv, " ")
}

// Table maps each robot to the command it launches for one subsystem.
type Table struct {
	name     string
	commands map[robot.ID]Command
}

// NewTable copies commands; later changes to the map do not leak in.
func NewTable(name string, commands map[robot.ID]Command) Table {
	copied := make(map[robot.ID]Command, len(commands))
	for id, command := range commands {
		copied[id] = NewCommand(command.argv...)
	}
	return Table{
		name:     strings.TrimSpace(name),
		commands: copied,
	}
}

func (t Table) Name() string {
	return t.name
}

// Lookup fails only when the robot is not a key of the table. A key mapped
// to an absent command is not an error.
func (t Table) Lookup(id robot.ID) (Command, error) {
	command, ok := t.commands[id]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q has no %s entry", ErrUnknownRobot, id, t.name)
	}
	return command, nil
}

func (t Table) Robots() []robot.ID {
	ids := make([]robot.ID, 0, len(t.commands))
	for id := range t.commands {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (t Table) with(id robot.ID, command Command) Table {
	next := NewTable(t.name, t.commands)
	next.commands[id] = command
	return next
}

// WorldPolicy derives the world file name passed to the simulator.
type WorldPolicy struct {
	Extension string
	Strip     string
}

const (
	BaseWorldEmpty = "empty"
	BaseWorldTasks = "modulation_tasks"
)

func BaseWorld(useTaskWorld bool) string {
	if useTaskWorld {
		return BaseWorldTasks
	}
	return BaseWorldEmpty
}

func (p WorldPolicy) Name(useTaskWorld bool) string {
	return p.Apply(BaseWorld(useTaskWorld))
}

// Apply adds the extension to base and then removes every Strip occurrence.
func (p WorldPolicy) Apply(base string) string {
	name := base + p.Extension
	if p.Strip != "" {
		name = strings.ReplaceAll(name, p.Strip, "")
	}
	return name
}

// WorldArg formats the roslaunch argument selecting world.
func WorldArg(world string) string {
	return WorldArgKey + ":=" + world
}

func normalizeArgv(argv []string) []string {
	if len(argv) == 0 {
		return nil
	}
	result := make([]string, 0, len(argv))
	for _, arg := range argv {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		result = append(result, arg)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
