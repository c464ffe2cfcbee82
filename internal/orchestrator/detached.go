// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/apex/log"

	"github.com/staranto/famo/internal/errs"
)

// DetachedPublisher hands the upload to a child process in its own session
// and returns without waiting. The child is Executable run as
//
//	Executable upload --key KEY --file FILE
//
// where FILE is a temporary copy of the blob. The child owns FILE, writes
// its log to FILE.log and removes FILE when finished. Env is appended to the
// child's environment; credentials travel there and never in argv.
type DetachedPublisher struct {
	Executable string
	Env        []string
	// TempDir holds the blob handed to the child. Defaults to os.TempDir().
	TempDir string
	Logger  log.Interface

	// spawn starts cmd and lets go of it.
	spawn func(cmd *exec.Cmd) error
}

func (p *DetachedPublisher) Publish(_ context.Context, key string, blob []byte) (Outcome, error) {
	f, err := os.CreateTemp(p.TempDir, "famo-upload-*.bin")
	if err != nil {
		return MissBuiltUnpublished, errs.Filesystem("create", p.TempDir, err)
	}
	file := f.Name()
	if _, err := f.Write(blob); err != nil {
		f.Close()
		os.Remove(file)
		return MissBuiltUnpublished, errs.Filesystem("write", file, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(file)
		return MissBuiltUnpublished, errs.Filesystem("close", file, err)
	}

	logFile, err := os.OpenFile(file+".log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:mnd
	if err != nil {
		os.Remove(file)
		return MissBuiltUnpublished, errs.Filesystem("create", file+".log", err)
	}
	defer logFile.Close()

	// The child must outlive this process, so no CommandContext.
	cmd := exec.Command(p.Executable, "upload", "--key", key, "--file", file) //nolint:gosec
	cmd.Env = append(os.Environ(), p.Env...)
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	detach(cmd)

	spawn := p.spawn
	if spawn == nil {
		spawn = startAndRelease
	}
	if err := spawn(cmd); err != nil {
		os.Remove(file)
		return MissBuiltUnpublished, fmt.Errorf("failed to start detached upload: %w", err)
	}

	orDiscard(p.Logger).WithFields(log.Fields{"file": file, "log": file + ".log"}).
		Info("--- Uploading in the background")
	return MissBuiltDeferred, nil
}

func startAndRelease(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
