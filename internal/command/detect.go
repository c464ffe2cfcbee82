// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/famo/internal/errs"
	"github.com/staranto/famo/internal/lang"
)

// DetectCommandAction prints the toolchain profile recognised in the working
// directory, or the named one.
func DetectCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "detect") {
		return nil
	}

	m := GetMeta(cmd)
	p := m.Profile
	if name := cmd.Args().First(); name != "" {
		named, ok := lang.Lookup(name)
		if !ok {
			return errs.Config("detect", fmt.Errorf("unknown toolchain %q", name))
		}
		p = &named
	}
	if p == nil {
		return errs.Config("detect", errors.New("no supported toolchain found in "+m.WorkDir))
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "name:    %s\n", p.Name)
	fmt.Fprintf(w, "watch:   %s\n", strings.Join(p.Markers, " "))
	fmt.Fprintf(w, "archive: %s\n", p.Archive)
	fmt.Fprintf(w, "command: %s\n", p.Command)
	return nil
}

func DetectCommandBuilder() *cli.Command {
	return &cli.Command{
		Name:      "detect",
		Usage:     "show the detected or named toolchain and its defaults",
		UsageText: "famo detect [toolchain]",
		Action:    DetectCommandAction,
	}
}
