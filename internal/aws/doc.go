// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package aws loads AWS SDK v2 configuration and builds S3 clients for the
// s3 store.
package aws
