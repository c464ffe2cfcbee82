// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/apex/log"

	"github.com/staranto/famo/internal/config"
	"github.com/staranto/famo/internal/lang"
)

// Meta is the state shared by every command. InitApp fills everything but
// Logger, which the root command's Before hook sets once --log-level is
// known.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	Logger  *log.Logger
	// Profile is the toolchain detected in WorkDir, if any.
	Profile *lang.Profile
	WorkDir string
	// Executable is famo's own path, re-run for detached uploads.
	Executable string
}
