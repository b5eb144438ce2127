package state

import (
	"time"

	"github.com/google/uuid"

	"simlaunch/internal/process"
	"simlaunch/internal/robot"
)

// ProcessRecord identifies one started subsystem process.
type ProcessRecord struct {
	Name string   `yaml:"name"`
	PID  int      `yaml:"pid"`
	PGID int      `yaml:"pgid"`
	Argv []string `yaml:"argv"`
}

// Record describes a started run so a later invocation can stop it.
type Record struct {
	RunID        string         `yaml:"run_id"`
	Robot        robot.ID       `yaml:"robot"`
	World        string         `yaml:"world"`
	UseTaskWorld bool           `yaml:"use_task_world"`
	StartedAt    time.Time      `yaml:"started_at"`
	LauncherPID  int            `yaml:"launcher_pid,omitempty"`
	Simulator    *ProcessRecord `yaml:"simulator,omitempty"`
	Planner      *ProcessRecord `yaml:"planner,omitempty"`
}

func NewRunID() string {
	return uuid.New().String()
}

func FromSlot(slot process.Slot) *ProcessRecord {
	handle, ok := slot.Get()
	if !ok {
		return nil
	}
	return FromHandle(handle)
}

func FromHandle(handle *process.Handle) *ProcessRecord {
	if handle == nil {
		return nil
	}
	return &ProcessRecord{
		Name: handle.Name,
		PID:  handle.PID,
		PGID: handle.PGID,
		Argv: append([]string(nil), handle.Argv...),
	}
}

// Slot rebuilds a handle that does not own its process.
func (p *ProcessRecord) Slot() process.Slot {
	if p == nil || p.PID <= 0 {
		return process.None()
	}
	return process.Some(process.NewHandle(p.PID, p.PGID, p.Name, p.Argv))
}

// Alive reports whether any recorded process is still running.
func (r Record) Alive() bool {
	for _, proc := range []*ProcessRecord{r.Simulator, r.Planner} {
		if proc != nil && process.Alive(proc.PID) {
			return true
		}
	}
	return false
}
