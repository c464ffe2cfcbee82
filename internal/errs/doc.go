// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package errs defines the failure taxonomy shared by the cache pipeline:
// configuration, filesystem, archive, transport and build errors.
package errs
