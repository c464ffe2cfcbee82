// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package orchestrator

import "os/exec"

func detach(*exec.Cmd) {}
