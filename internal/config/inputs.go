// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/staranto/famo/internal/errs"
	"github.com/staranto/famo/internal/lang"
)

// Inputs are the three settings a cache run cannot do without.
type Inputs struct {
	Watches []string
	Archive string
	Command string
}

// ResolveInputs fills whatever given leaves empty from the detected
// toolchain profile, which may be nil. Anything still missing is a
// configuration error.
func ResolveInputs(given Inputs, profile *lang.Profile) (Inputs, error) {
	out := Inputs{
		Watches: append([]string(nil), given.Watches...),
		Archive: given.Archive,
		Command: given.Command,
	}

	if profile != nil {
		if len(out.Watches) == 0 {
			out.Watches = append([]string(nil), profile.Markers...)
		}
		if out.Archive == "" {
			out.Archive = profile.Archive
		}
		if out.Command == "" {
			out.Command = profile.Command
		}
	}

	var missing []string
	if len(out.Watches) == 0 {
		missing = append(missing, "watch paths")
	}
	if out.Archive == "" {
		missing = append(missing, "archive directory (--archive)")
	}
	if out.Command == "" {
		missing = append(missing, "build command (--command)")
	}
	if len(missing) > 0 {
		return out, errs.Config("resolve inputs",
			fmt.Errorf("no toolchain detected and missing %s", strings.Join(missing, ", ")))
	}

	return out, nil
}
