// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/famo/internal/archive"
	"github.com/staranto/famo/internal/errs"
	"github.com/staranto/famo/internal/fingerprint"
	"github.com/staranto/famo/internal/orchestrator"
	"github.com/staranto/famo/internal/runner"
)

// RootCommandAction is `famo [watch ...]`: restore the cached artifact for
// the watched inputs, or build it and upload it.
func RootCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "cache") {
		return nil
	}

	m := GetMeta(cmd)
	logger := Logger(cmd)

	if m.Profile != nil {
		logger.Infof("Auto detection works! The project is recognized as '%s'.", m.Profile.Name)
	}

	in, err := ResolveInputs(cmd)
	if err != nil {
		return err
	}

	codec, err := archive.ParseCodec(cmd.String("codec"))
	if err != nil {
		return errs.Config("codec", err)
	}
	alg, err := fingerprint.ParseAlgorithm(cmd.String("digest"))
	if err != nil {
		return errs.Config("digest", err)
	}

	st, settings, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}

	logger.WithFields(log.Fields{
		"watch":   in.Watches,
		"archive": in.Archive,
		"command": in.Command,
		"store":   settings.Redacted().Kind,
	}).Debug("resolved inputs")

	verbose := cmd.Bool("verbose")
	opts := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithCodec(codec),
		orchestrator.WithFingerprinter(func(paths []string) (string, error) {
			return fingerprint.Hex(paths, fingerprint.WithAlgorithm(alg))
		}),
		orchestrator.WithRunner(&runner.Shell{
			Dir:     m.WorkDir,
			Verbose: verbose,
			Logger:  logger,
			Stdout:  cmd.Root().Writer,
			Stderr:  cmd.Root().ErrWriter,
		}),
	}
	if cmd.Bool("async") {
		opts = append(opts, orchestrator.WithPublisher(&orchestrator.DetachedPublisher{
			Executable: m.Executable,
			Env:        ChildEnv(settings, cmd.String("log-level")),
			Logger:     logger,
		}))
	}

	o, err := orchestrator.New(orchestrator.Config{
		Watches:   in.Watches,
		Archive:   in.Archive,
		Command:   in.Command,
		KeyPrefix: cmd.String("key"),
		WorkDir:   m.WorkDir,
		Verbose:   verbose,
	}, st, opts...)
	if err != nil {
		return err
	}

	res, err := o.Run(ctx)
	if err != nil {
		return err
	}

	logger.WithFields(log.Fields{
		"key":     res.Key,
		"outcome": res.Outcome,
	}).Debug("finished")
	return nil
}
