// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package runner executes build commands through the shell.
package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/apex/log"

	"github.com/staranto/famo/internal/errs"
)

// Runner runs a build command to completion.
type Runner interface {
	Run(ctx context.Context, command string) error
}

// Shell runs commands with `sh -c` in Dir. When Verbose is set the child
// shares famo's stdout and stderr, otherwise its output is discarded.
type Shell struct {
	Dir     string
	Verbose bool
	Logger  log.Interface

	// Stdout and Stderr override the verbose destinations. Nil means the
	// process' own streams.
	Stdout io.Writer
	Stderr io.Writer
}

var _ Runner = (*Shell)(nil)

// Run executes command. A non-zero exit is returned as a build error
// wrapping the *exec.ExitError.
func (s *Shell) Run(ctx context.Context, command string) error {
	if s.Logger != nil {
		s.Logger.Infof("Execute `%s`", command)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = s.Dir
	cmd.Stdin = nil
	if s.Verbose {
		cmd.Stdout = orDefault(s.Stdout, os.Stdout)
		cmd.Stderr = orDefault(s.Stderr, os.Stderr)
	}

	if err := cmd.Run(); err != nil {
		return errs.Build(command, err)
	}
	return nil
}

// ExitCode extracts the exit status of a failed build, if there is one.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

func orDefault(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
