// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// famo is the main package for the famo build cache. It wires the CLI,
// delegates to internal packages, and maps failures to exit codes.
package main
