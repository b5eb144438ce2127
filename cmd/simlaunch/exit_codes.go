package main

import (
	"errors"

	"simlaunch/internal/config"
	"simlaunch/internal/launcher"
	"simlaunch/internal/launchspec"
	"simlaunch/internal/robot"
)

const (
	exitCodeSuccess = 0
	exitCodeUsage   = 1
	exitCodeConfig  = 2
	exitCodeLaunch  = 3
	exitCodeStop    = 4
)

var (
	errUsage     = errors.New("usage")
	errActiveRun = errors.New("run already active")
	errStop      = errors.New("stop failed")
)

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitCodeSuccess
	case errors.Is(err, config.ErrInvalid),
		errors.Is(err, launchspec.ErrUnknownRobot),
		errors.Is(err, robot.ErrUnknown):
		return exitCodeConfig
	case errors.Is(err, launcher.ErrSpawn),
		errors.Is(err, launcher.ErrInterrupted),
		errors.Is(err, errActiveRun):
		return exitCodeLaunch
	case errors.Is(err, errStop):
		return exitCodeStop
	default:
		return exitCodeUsage
	}
}
