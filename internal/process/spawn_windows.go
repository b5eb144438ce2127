//go:build windows

package process

import (
	"errors"
	"io"
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {}

func startWithPty(cmd *exec.Cmd, output io.Writer) error {
	return errors.New("tty mode is not supported on windows")
}
