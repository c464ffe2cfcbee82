// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/famo/internal/errs"
)

// Store keeps artifacts as plain files beneath Dir.
type Store struct {
	Dir string
}

// Dir resolves the base cache directory.
// Precedence:
//  1. FAMO_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/famo
//
// Returns ("", false) if a base cannot be resolved.
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("FAMO_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "famo"), true
	}
	return "", false
}

// New returns a store rooted at dir, or at Dir() when dir is empty. The
// directory is created if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		base, ok := Dir()
		if !ok {
			return nil, errs.Config("local store", errors.New("cannot resolve a cache directory"))
		}
		dir = base
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return nil, errs.Filesystem("mkdir", dir, fmt.Errorf("failed to create cache base directory: %w", err))
	}
	return &Store{Dir: dir}, nil
}

// EntryPath returns where key lives on disk.
func (s *Store) EntryPath(key string) (string, error) {
	rel := filepath.FromSlash(strings.Trim(key, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.Dir, rel), nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	p, err := s.EntryPath(key)
	if err != nil {
		return false, errs.Transport("exists", key, 0, err)
	}
	info, err := os.Stat(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, errs.Transport("exists", key, 0, err)
	}
	return info.Mode().IsRegular(), nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.EntryPath(key)
	if err != nil {
		return nil, errs.Transport("get", key, 0, err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, errs.Transport("get", key, 0, err)
	}
	return b, nil
}

// Put writes data to a temporary file beside the entry and renames it into
// place, so readers never observe a partial artifact.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	p, err := s.EntryPath(key)
	if err != nil {
		return errs.Transport("put", key, 0, err)
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return errs.Transport("put", key, 0, fmt.Errorf("failed to create cache directory: %w", err))
	}

	f, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return errs.Transport("put", key, 0, err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errs.Transport("put", key, 0, fmt.Errorf("failed to write to cache: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errs.Transport("put", key, 0, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return errs.Transport("put", key, 0, err)
	}
	return nil
}

// Purge removes entries whose modification time is older than maxAge and
// returns how many were removed. A non-positive maxAge disables purging.
func (s *Store) Purge(maxAge time.Duration, logger log.Interface) (int, error) {
	if maxAge <= 0 {
		logger.Debug("cache cleaning disabled")
		return 0, nil
	}
	removed := 0
	err := filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if time.Since(info.ModTime()) <= maxAge {
			return nil
		}
		if err := os.Remove(path); err != nil {
			logger.WithError(err).Warnf("failed to remove cache file %s", path)
			return nil
		}
		logger.Debugf("removed cache file %s", path)
		removed++
		return nil
	})
	if err != nil {
		return removed, errs.Filesystem("purge", s.Dir, fmt.Errorf("failed to purge cache: %w", err))
	}
	return removed, nil
}
