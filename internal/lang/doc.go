// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package lang recognizes common toolchains from their manifest and lock
// files and supplies default watch, archive and build settings for them.
package lang
