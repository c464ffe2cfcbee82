// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package store defines the object store famo keeps artifacts in and picks
// a backend for it. Objects are addressed as {bucket}/{prefix}/{fingerprint}.
package store
