// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		want    string
		archive string
		command string
	}{
		{"rust", []string{"Cargo.toml", "Cargo.lock"}, "rust", "target", "cargo build"},
		{"yarn", []string{"package.json", "yarn.lock"}, "yarn", "node_modules", "yarn build"},
		{"node_js", []string{"package.json", "package-lock.json"}, "node_js", "node_modules", "npm build"},
		{"ruby", []string{"Gemfile", "Gemfile.lock"}, "ruby", "vendor", "bundle install --path vendor/bundle"},
		{"crystal", []string{"shard.yaml", "shard.lock"}, "crystal", "lib", "shards build"},
		{"yarn wins over npm", []string{"package.json", "yarn.lock", "package-lock.json"}, "yarn", "node_modules", "yarn build"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, tt.files...)

			got := Detect(dir)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
			assert.Equal(t, tt.archive, got.Archive)
			assert.Equal(t, tt.command, got.Command)
		})
	}
}

func TestDetectNone(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, Detect(t.TempDir()))
	})

	t.Run("partial markers", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "Cargo.toml")
		assert.Nil(t, Detect(dir))
	})

	t.Run("marker is a directory", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "Gemfile")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "Gemfile.lock"), 0o755))
		assert.Nil(t, Detect(dir))
	})
}

func TestProfilesIsACopy(t *testing.T) {
	ps := Profiles()
	ps[0].Markers[0] = "mutated"
	ps[0].Name = "mutated"

	p, ok := Lookup("rust")
	require.True(t, ok)
	assert.Equal(t, []string{"Cargo.toml", "Cargo.lock"}, p.Markers)

	_, ok = Lookup("cobol")
	assert.False(t, ok)
}
