// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package orchestrator drives a single cache run:
//
//	fingerprint -> check -> restore             (hit)
//	                     -> build -> pack -> publish (miss)
//
// A failed restore falls through to the build exactly like a miss,
// including the upload afterwards. Store and archive failures are logged as
// warnings and never fail the run; a failed build always does.
package orchestrator
