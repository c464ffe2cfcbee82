// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint derives the cache key of a watch set. Each regular file
// contributes the digest of its contents followed by its path, read as a big
// unsigned integer; the key is the hex sum of those integers.
//
// Summing is what makes the key independent of walk and listing order. It is
// also weaker than hashing a canonical concatenation: two unrelated file sets
// can in principle sum to the same value. That trade-off is intentional.
//
// Symbolic links are followed. A directory whose resolved path is already
// being walked is skipped, so link cycles terminate.
package fingerprint
