// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/famo/internal/errs"
	"github.com/staranto/famo/internal/fingerprint"
)

// HashCommandAction prints the fingerprint of the watched inputs without
// touching the store. With --verbose each file's digest is listed first.
func HashCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "hash") {
		return nil
	}

	in, err := ResolveInputs(cmd)
	if err != nil && len(in.Watches) == 0 {
		return err
	}

	alg, err := fingerprint.ParseAlgorithm(cmd.String("digest"))
	if err != nil {
		return errs.Config("digest", err)
	}
	opt := fingerprint.WithAlgorithm(alg)
	w := cmd.Root().Writer

	if cmd.Bool("verbose") {
		digests, err := fingerprint.Digests(in.Watches, opt)
		if err != nil {
			return err
		}
		for _, d := range digests {
			fmt.Fprintf(w, "%x  %s\n", d.Value, d.Path)
		}
	}

	hex, err := fingerprint.Hex(in.Watches, opt)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, hex)
	return nil
}

func HashCommandBuilder() *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "print the cache key of the watched inputs",
		UsageText: "famo hash [options] [watch ...]",
		ArgsUsage: "[watch ...]",
		Action:    HashCommandAction,
	}
}
