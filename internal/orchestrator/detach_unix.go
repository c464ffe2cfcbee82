// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package orchestrator

import (
	"os/exec"
	"syscall"
)

// detach puts the child in a new session so it survives the parent's
// terminal and process group.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
