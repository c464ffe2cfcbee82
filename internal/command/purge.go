// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/famo/internal/store/local"
)

// PurgeCommandAction removes local store artifacts older than --older-than.
func PurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "purge") {
		return nil
	}

	st, err := local.New(cmd.String("cache-dir"))
	if err != nil {
		return err
	}

	n, err := st.Purge(cmd.Duration("older-than"), Logger(cmd))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "removed %d artifact(s) from %s\n", n, st.Dir)
	return nil
}

func PurgeCommandBuilder() *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "remove old artifacts from the local store",
		UsageText: "famo purge [--older-than DURATION]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "older-than",
				Usage: "age beyond which artifacts are removed; 0 disables",
				Value: DefaultPurgeAge,
			},
		},
		Action: PurgeCommandAction,
	}
}
