package launcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"simlaunch/internal/logging"
	"simlaunch/internal/process"
)

// PurgeSteps kill every ROS node and any gazebo server or client left over
// from earlier runs, including ones this program did not start.
var PurgeSteps = [][]string{
	{"rosnode", "kill", "-a"},
	{"killall", "-9", "gzserver", "gzclient"},
}

// Purge runs every step even when an earlier one fails.
func Purge(ctx context.Context, runner process.Runner, logger *logging.Logger) error {
	if runner == nil {
		runner = process.ExecRunner{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	var purgeErr error
	for _, step := range PurgeSteps {
		command := strings.Join(step, " ")
		result, err := runner.Run(ctx, step[0], step[1:]...)
		fields := map[string]string{
			"command":   command,
			"exit_code": strconv.Itoa(result.ExitCode),
		}
		if err != nil {
			fields["error"] = err.Error()
			if stderr := strings.TrimSpace(string(result.Stderr)); stderr != "" {
				fields["stderr"] = stderr
			}
			logger.Warn("purge step failed", fields)
			purgeErr = errors.Join(purgeErr, fmt.Errorf("%s: %w", command, err))
			continue
		}
		logger.Info("purge step done", fields)
	}
	return purgeErr
}
