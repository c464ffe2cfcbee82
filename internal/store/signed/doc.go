// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package signed is a minimal S3 client using the legacy header signature
// (HMAC-SHA1 over a canonical string). It predates SigV4 and is kept for
// endpoints that only speak it.
package signed
