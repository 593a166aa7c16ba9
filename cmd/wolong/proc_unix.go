//go:build unix

package main

import (
	"os/exec"
	"syscall"
)

// detachDaemon puts wolongd in its own process group so it outlives the shell
func detachDaemon(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
