// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package command defines the famo CLI: the root cache command and the hash,
// detect, purge, upload and completion subcommands.
package command
