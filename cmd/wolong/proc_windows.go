//go:build windows

package main

import (
	"os/exec"
	"syscall"
)

// detachDaemon starts wolongd in a new process group, away from the parent console
func detachDaemon(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
