// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"

	"github.com/staranto/famo/internal/errs"
)

// Unavailable stands in for a backend whose client could not be built. Every
// call fails with the construction error, so a run still builds and only the
// cache is lost.
type Unavailable struct {
	Err error
}

func (u *Unavailable) Exists(_ context.Context, key string) (bool, error) {
	return false, errs.Transport("exists", key, 0, u.Err)
}

func (u *Unavailable) Get(_ context.Context, key string) ([]byte, error) {
	return nil, errs.Transport("get", key, 0, u.Err)
}

func (u *Unavailable) Put(_ context.Context, key string, _ []byte) error {
	return errs.Transport("put", key, 0, u.Err)
}
