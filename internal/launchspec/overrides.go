package launchspec

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"simlaunch/internal/robot"
)

// Argv decodes either a whitespace separated string or a YAML sequence.
// An empty string or empty sequence means "do not launch".
type Argv []string

func (a *Argv) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var line string
		if err := value.Decode(&line); err != nil {
			return err
		}
		*a = Argv(ParseCommand(line).Argv())
		return nil
	case yaml.SequenceNode:
		var args []string
		if err := value.Decode(&args); err != nil {
			return err
		}
		*a = Argv(NewCommand(args...).Argv())
		return nil
	default:
		return fmt.Errorf("line %d: command must be a string or a list", value.Line)
	}
}

// RobotOverride replaces individual fields of a built-in robot entry. Nil
// fields keep the built-in value.
type RobotOverride struct {
	Simulator      *Argv   `yaml:"simulator,omitempty"`
	Planner        *Argv   `yaml:"planner,omitempty"`
	WorldExtension *string `yaml:"world_extension,omitempty"`
	WorldStrip     *string `yaml:"world_strip,omitempty"`
}

type Overrides struct {
	Robots map[string]RobotOverride `yaml:"robots,omitempty"`
}

func (o Overrides) Empty() bool {
	return len(o.Robots) == 0
}

// Apply returns a new catalog with the overrides layered on top of c.
func (c Catalog) Apply(overrides Overrides) (Catalog, error) {
	if overrides.Empty() {
		return c, nil
	}
	keys := make([]string, 0, len(overrides.Robots))
	for key := range overrides.Robots {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	simulator := c.Simulator
	planner := c.Planner
	worlds := make(map[robot.ID]WorldPolicy, len(c.worlds))
	for id, policy := range c.worlds {
		worlds[id] = policy
	}

	for _, key := range keys {
		id, err := robot.Parse(key)
		if err != nil {
			return Catalog{}, fmt.Errorf("override %q: %w", key, err)
		}
		override := overrides.Robots[key]
		if override.Simulator != nil {
			simulator = simulator.with(id, NewCommand((*override.Simulator)...))
		}
		if override.Planner != nil {
			planner = planner.with(id, NewCommand((*override.Planner)...))
		}
		policy := worlds[id]
		if override.WorldExtension != nil {
			policy.Extension = *override.WorldExtension
		}
		if override.WorldStrip != nil {
			policy.Strip = *override.WorldStrip
		}
		worlds[id] = policy
	}

	next := NewCatalog(simulator, planner, worlds)
	if err := next.Validate(); err != nil {
		return Catalog{}, err
	}
	return next, nil
}
