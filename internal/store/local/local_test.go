// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/famo/internal/errs"
)

func TestDir(t *testing.T) {
	t.Run("env wins", func(t *testing.T) {
		t.Setenv("FAMO_CACHE_DIR", "/tmp/famo-cache")
		dir, ok := Dir()
		assert.True(t, ok)
		assert.Equal(t, "/tmp/famo-cache", dir)
	})

	t.Run("user cache dir", func(t *testing.T) {
		t.Setenv("FAMO_CACHE_DIR", "")
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
		t.Setenv("HOME", "/tmp/home")
		dir, ok := Dir()
		assert.True(t, ok)
		assert.Equal(t, "famo", filepath.Base(dir))
	})
}

func TestNewDefaultsToDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "cache")
	t.Setenv("FAMO_CACHE_DIR", base)

	s, err := New("")
	require.NoError(t, err)
	assert.Equal(t, base, s.Dir)
	assert.DirExists(t, base)
}

func TestPutGetExists(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"abc123", "ci/rust/abc123"} {
		t.Run(key, func(t *testing.T) {
			ok, err := s.Exists(ctx, key)
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = s.Get(ctx, key)
			assert.ErrorIs(t, err, errs.ErrTransport)

			require.NoError(t, s.Put(ctx, key, []byte("artifact")))
			ok, err = s.Exists(ctx, key)
			require.NoError(t, err)
			assert.True(t, ok)

			got, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []byte("artifact"), got)

			require.NoError(t, s.Put(ctx, key, []byte("newer")))
			got, err = s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []byte("newer"), got)
		})
	}

	leftovers, err := filepath.Glob(filepath.Join(s.Dir, ".put-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestInvalidKeys(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "a/../../b"} {
		t.Run(key, func(t *testing.T) {
			_, err := s.Exists(ctx, key)
			assert.ErrorIs(t, err, errs.ErrTransport)
			assert.ErrorIs(t, s.Put(ctx, key, []byte("x")), errs.ErrTransport)
		})
	}
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "old", []byte("1")))
	require.NoError(t, s.Put(ctx, "ci/old", []byte("2")))
	require.NoError(t, s.Put(ctx, "fresh", []byte("3")))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.Dir, "old"), past, past))
	require.NoError(t, os.Chtimes(filepath.Join(s.Dir, "ci", "old"), past, past))

	handler := memory.New()
	logger := &log.Logger{Handler: handler, Level: log.DebugLevel}

	removed, err := s.Purge(24*time.Hour, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Len(t, handler.Entries, 2)

	ok, err := s.Exists(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Exists(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err = s.Purge(0, logger)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
