package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"simlaunch/internal/config"
	"simlaunch/internal/launcher"
	"simlaunch/internal/process"
)

const programName = "simlaunch"

// deps are the seams the tests replace.
type deps struct {
	getenv     func(string) string
	spawner    func(settings config.Settings, registry *process.Registry) process.Spawner
	sleeper    launcher.Sleeper
	terminator launcher.Terminator
	runner     process.Runner
	signals    func() (<-chan os.Signal, func())
	pid        int
}

func defaultDeps() deps {
	return deps{
		getenv: os.Getenv,
		spawner: func(settings config.Settings, registry *process.Registry) process.Spawner {
			return process.ExecSpawner{
				Stdout:   os.Stdout,
				Stderr:   os.Stderr,
				TTY:      settings.TTY,
				Registry: registry,
			}
		},
		sleeper:    launcher.WallClock,
		terminator: process.Terminate,
		runner:     process.ExecRunner{},
		signals: func() (<-chan os.Signal, func()) {
			ch := make(chan os.Signal, 2)
			signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
			return ch, func() { signal.Stop(ch) }
		},
		pid: os.Getpid(),
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	return runWithDeps(args, out, errOut, defaultDeps())
}

func runWithDeps(args []string, out io.Writer, errOut io.Writer, d deps) int {
	root := newRootCommand(out, errOut, d)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(errOut, "%s: %v\n", programName, err)
	}
	return exitCodeFor(err)
}
