// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package archive converts a directory tree to a single compressed blob and
// back. Pack and Unpack handle the tar container; Encode and Decode handle
// compression (gzip, zstd, lz4 or none).
//
// Unpack is staged: a corrupt blob fails before the destination is touched.
// The final merge renames entries one at a time, so an I/O failure during the
// merge itself can leave the destination partially restored.
package archive
