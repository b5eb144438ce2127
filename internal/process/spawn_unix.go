//go:build !windows

package process

import (
	"io"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// pty.Start makes the child a session leader, which already gives it its own
// process group; Setpgid must stay unset or the exec fails with EPERM.
func startWithPty(cmd *exec.Cmd, output io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	// The copy ends with EIO once the child side closes.
	go func() {
		defer ptmx.Close()
		_, _ = io.Copy(output, ptmx)
	}()
	return nil
}
