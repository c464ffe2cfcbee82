// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package errs

import (
	"errors"
	"io/fs"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		want string
	}{
		{
			name: "config",
			err:  Config("resolve archive", errors.New("not specified")),
			kind: ErrConfig,
			want: "configuration error: resolve archive: not specified",
		},
		{
			name: "filesystem",
			err:  Filesystem("read", "src/main.go", fs.ErrPermission),
			kind: ErrFilesystem,
			want: "filesystem error: read src/main.go: permission denied",
		},
		{
			name: "transport with status",
			err:  Transport("put", "ab12", 403, errors.New("AccessDenied")),
			kind: ErrTransport,
			want: "transport error: put ab12 (status 403): AccessDenied",
		},
		{
			name: "archive without cause",
			err:  Archive("decode", "", nil),
			kind: ErrArchive,
			want: "archive error: decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.want, tt.err.Error())
			for _, other := range []error{ErrConfig, ErrFilesystem, ErrArchive, ErrTransport, ErrBuild} {
				if other != tt.kind {
					assert.NotErrorIs(t, tt.err, other)
				}
			}
		})
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := &exec.ExitError{}
	err := Build("false", cause)

	var exitErr *exec.ExitError
	assert.True(t, errors.As(err, &exitErr))
	assert.ErrorIs(t, err, ErrBuild)
	assert.ErrorIs(t, Filesystem("stat", "x", fs.ErrNotExist), fs.ErrNotExist)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, 404, StatusOf(Transport("get", "k", 404, nil)))
	assert.Equal(t, 0, StatusOf(errors.New("plain")))
}
