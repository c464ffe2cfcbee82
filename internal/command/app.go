// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/staranto/famo/internal/config"
	"github.com/staranto/famo/internal/lang"
	mylog "github.com/staranto/famo/internal/log"
	"github.com/staranto/famo/internal/meta"
)

// InitApp builds the famo command tree. Command output goes to stdout; logs
// and errors go to stderr. The args to run, with @sets expanded, are in
// GetMeta(app).Args.
func InitApp(ctx context.Context, args []string, stdout, stderr io.Writer) (*cli.Command, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return nil, err
	}

	// Per-toolchain settings in the config file win over top-level ones.
	profile := lang.Detect(wd)
	if profile != nil {
		cfg = cfg.WithNamespace("profiles." + profile.Name)
	}

	expanded, err := ExpandArgSets(args, cfg)
	if err != nil {
		return nil, err
	}

	m := &meta.Meta{
		Args:       expanded,
		Config:     cfg,
		Context:    ctx,
		Profile:    profile,
		WorkDir:    wd,
		Executable: Executable(),
	}

	app := &cli.Command{
		Name:      "famo",
		Usage:     "cache build artifacts keyed by the contents of their inputs",
		UsageText: "famo [options] [watch ...]",
		ArgsUsage: "[watch ...]",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     NewRootFlags(cfg),
		Metadata: map[string]any{
			"meta": m,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger, err := mylog.New(cmd.String("log-level"), stderr)
			if err != nil {
				return ctx, err
			}
			m.Logger = logger
			return ctx, nil
		},
		Action: RootCommandAction,
		// main maps errors to exit codes, including the build's own.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	app.Commands = append(app.Commands,
		HashCommandBuilder(),
		DetectCommandBuilder(),
		PurgeCommandBuilder(),
		UploadCommandBuilder(),
		CompletionCommandBuilder(),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range append([]*cli.Command{app}, app.Commands...) {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
