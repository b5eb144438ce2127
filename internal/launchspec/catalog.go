package launchspec

import (
	"fmt"

	"simlaunch/internal/robot"
)

// Catalog bundles the simulator and planner tables with the per-robot world
// policy. It is built once at startup and never mutated afterwards.
type Catalog struct {
	Simulator Table
	Planner   Table
	worlds    map[robot.ID]WorldPolicy
}

// Launch is a fully resolved start request for one robot.
type Launch struct {
	Robot        robot.ID
	UseTaskWorld bool
	World        string
	Simulator    Command
	Planner      Command
}

func NewCatalog(simulator, planner Table, worlds map[robot.ID]WorldPolicy) Catalog {
	copied := make(map[robot.ID]WorldPolicy, len(worlds))
	for id, policy := range worlds {
		copied[id] = policy
	}
	return Catalog{
		Simulator: simulator,
		Planner:   planner,
		worlds:    copied,
	}
}

func (c Catalog) World(id robot.ID) WorldPolicy {
	return c.worlds[id]
}

// WorldName returns the world the simulator would be started with.
func (c Catalog) WorldName(id robot.ID, useTaskWorld bool) (string, error) {
	if _, err := c.Simulator.Lookup(id); err != nil {
		return "", err
	}
	return c.worlds[id].Name(useTaskWorld), nil
}

// Resolve looks the robot up in both tables and appends the world argument to
// the simulator command only.
func (c Catalog) Resolve(id robot.ID, useTaskWorld bool) (Launch, error) {
	simulator, err := c.Simulator.Lookup(id)
	if err != nil {
		return Launch{}, err
	}
	planner, err := c.Planner.Lookup(id)
	if err != nil {
		return Launch{}, err
	}
	world := c.worlds[id].Name(useTaskWorld)
	return Launch{
		Robot:        id,
		UseTaskWorld: useTaskWorld,
		World:        world,
		Simulator:    simulator.With(WorldArg(world)),
		Planner:      planner,
	}, nil
}

// Robots lists robots that are keys of both tables.
func (c Catalog) Robots() []robot.ID {
	var ids []robot.ID
	for _, id := range c.Simulator.Robots() {
		if _, err := c.Planner.Lookup(id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// Validate reports robots that are present in only one table.
func (c Catalog) Validate() error {
	for _, id := range c.Simulator.Robots() {
		if _, err := c.Planner.Lookup(id); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}
	for _, id := range c.Planner.Robots() {
		if _, err := c.Simulator.Lookup(id); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}
	return nil
}
