package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

var ErrEmptyCommand = errors.New("empty command")

// Spawner starts external processes and hands back their handles.
type Spawner interface {
	Spawn(ctx context.Context, name string, argv []string) (*Handle, error)
}

// ExecSpawner starts each process in its own process group so the group can
// be signalled as a whole and outlives this program when it exits.
type ExecSpawner struct {
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
	// TTY attaches the child to a pseudo-terminal. The child then depends on
	// this program keeping the terminal open.
	TTY      bool
	Registry *Registry
}

func (s ExecSpawner) Spawn(ctx context.Context, name string, argv []string) (*Handle, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	argv = trimArgv(argv)
	if len(argv) == 0 {
		return nil, fmt.Errorf("spawn %s: %w", name, ErrEmptyCommand)
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", name, err)
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Args[0] = argv[0]
	cmd.Dir = s.Dir
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}

	stdout := s.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := s.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	if s.TTY {
		if err := startWithPty(cmd, stdout); err != nil {
			return nil, fmt.Errorf("spawn %s: %w", name, err)
		}
	} else {
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		setProcessGroup(cmd)
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("spawn %s: %w", name, err)
		}
	}

	pid := cmd.Process.Pid
	handle := newOwnedHandle(pid, GroupID(pid), name, argv)
	s.Registry.Register(handle)
	go func() {
		err := cmd.Wait()
		s.Registry.Unregister(handle)
		handle.finish(err)
	}()
	return handle, nil
}

func trimArgv(argv []string) []string {
	result := make([]string, 0, len(argv))
	for _, arg := range argv {
		if strings.TrimSpace(arg) == "" {
			continue
		}
		result = append(result, arg)
	}
	return result
}
