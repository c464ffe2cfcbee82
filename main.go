// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/staranto/famo/internal/command"
	"github.com/staranto/famo/internal/runner"
	"github.com/staranto/famo/internal/version"
)

func main() {
	os.Exit(realMain(os.Args, os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	// Short-circuit --version/-v.
	for _, a := range args[1:] {
		if a == "--version" || a == "-v" {
			fmt.Fprintln(stdout, version.Version)
			return 0
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := command.InitApp(ctx, args, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if err := app.Run(ctx, command.GetMeta(app).Args); err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}

	return 0
}

// exitCode is the build's own exit status when the build failed, and 1 for
// everything else.
func exitCode(err error) int {
	if code, ok := runner.ExitCode(err); ok {
		return code
	}
	return 1
}
