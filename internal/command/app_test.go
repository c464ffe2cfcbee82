// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/famo/internal/errs"
	"github.com/staranto/famo/internal/fingerprint"
	"github.com/staranto/famo/internal/runner"
)

// sandbox moves into a fresh project directory, hides any config file or
// FAMO_ variable from the host, and returns the project and cache dirs.
func sandbox(t *testing.T) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("builds run through sh")
	}
	home := t.TempDir()
	for _, k := range []string{
		"FAMO_CFG", EnvAccessKeyID, EnvSecretAccessKey, EnvBucket, EnvEndpoint,
		EnvRegion, EnvKey, EnvArchive, EnvCommand, EnvStore, EnvCodec, EnvDigest,
		EnvCacheDir, EnvLog, "XDG_CONFIG_HOME", "APPDATA",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("HOME", home)

	project := t.TempDir()
	t.Chdir(project)
	return project, filepath.Join(home, "cache")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	ctx := context.Background()
	app, err := InitApp(ctx, append([]string{"famo"}, args...), &buf, &buf)
	require.NoError(t, err)
	err = app.Run(ctx, GetMeta(app).Args)
	return buf.String(), err
}

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Count(string(b), "\n")
}

const buildCmd = "mkdir -p out && echo built > out/artifact && echo run >> builds.log"

func TestCacheMissThenHit(t *testing.T) {
	project, cache := sandbox(t)
	write(t, filepath.Join(project, "src", "main.c"), "int main() { return 0; }")

	args := []string{"--store", "local", "--cache-dir", cache, "--key", "ci", "-a", "out", "-c", buildCmd, "src"}

	out, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "The cache doesn't exist.")
	assert.Equal(t, 1, countLines(t, filepath.Join(project, "builds.log")))

	hex, err := fingerprint.Hex([]string{"src"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cache, "ci", hex))

	require.NoError(t, os.RemoveAll(filepath.Join(project, "out")))

	out, err = run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "The cache exists.")
	assert.Equal(t, 1, countLines(t, filepath.Join(project, "builds.log")), "build must be skipped on a hit")

	b, err := os.ReadFile(filepath.Join(project, "out", "artifact"))
	require.NoError(t, err)
	assert.Equal(t, "built\n", string(b))

	// A changed input is a new key.
	write(t, filepath.Join(project, "src", "main.c"), "int main() { return 1; }")
	_, err = run(t, args...)
	require.NoError(t, err)
	assert.Equal(t, 2, countLines(t, filepath.Join(project, "builds.log")))
}

func TestBuildFailureKeepsExitCode(t *testing.T) {
	project, cache := sandbox(t)
	write(t, filepath.Join(project, "input"), "x")

	_, err := run(t, "--store", "local", "--cache-dir", cache, "-a", "out", "-c", "exit 4", "input")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrBuild)

	code, ok := runner.ExitCode(err)
	assert.True(t, ok)
	assert.Equal(t, 4, code)

	entries, _ := os.ReadDir(cache)
	assert.Empty(t, entries)
}

func TestUnusableStoreStillBuilds(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, project string) []string
	}{
		{
			name: "local cache dir under a file",
			setup: func(t *testing.T, project string) []string {
				notADir := filepath.Join(project, "notadir")
				write(t, notADir, "x")
				return []string{"--store", "local", "--cache-dir", filepath.Join(notADir, "cache")}
			},
		},
		{
			name: "s3 with a missing profile",
			setup: func(t *testing.T, project string) []string {
				aws := t.TempDir()
				t.Setenv("AWS_CONFIG_FILE", filepath.Join(aws, "config"))
				t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(aws, "credentials"))
				t.Setenv("AWS_PROFILE", "does-not-exist")
				return []string{"--store", "s3", "--bucket", "b"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, _ := sandbox(t)
			write(t, filepath.Join(project, "input"), "x")

			args := append(tt.setup(t, project), "-a", "out", "-c", "mkdir -p out && echo ran > built.txt", "input")
			out, err := run(t, args...)
			require.NoError(t, err)
			assert.Contains(t, out, "failed to set up the cache store")
			assert.FileExists(t, filepath.Join(project, "built.txt"))
		})
	}
}

func TestMissingInputsIsConfigError(t *testing.T) {
	_, cache := sandbox(t)

	_, err := run(t, "--store", "local", "--cache-dir", cache, "-c", "true", "input")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConfig)
	assert.Contains(t, err.Error(), "--archive")
}

func TestProfileAndNamespacedConfig(t *testing.T) {
	project, cache := sandbox(t)
	write(t, filepath.Join(project, "Cargo.toml"), "[package]\nname = \"demo\"\n")
	write(t, filepath.Join(project, "Cargo.lock"), "# lock\n")
	write(t, filepath.Join(project, "famo.yaml"), `
command: "false"
store: local
profiles:
  rust:
    command: mkdir -p target && echo rust > target/app
`)

	out, err := run(t, "--cache-dir", cache)
	require.NoError(t, err)
	assert.Contains(t, out, "The project is recognized as 'rust'.")
	assert.FileExists(t, filepath.Join(project, "target", "app"))

	hex, err := fingerprint.Hex([]string{"Cargo.toml", "Cargo.lock"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cache, hex))
}

func TestHashCommand(t *testing.T) {
	project, _ := sandbox(t)
	write(t, filepath.Join(project, "a.txt"), "alpha")
	write(t, filepath.Join(project, "dir", "b.txt"), "beta")

	for _, digest := range []string{"sha256", "blake3", "blake2b"} {
		t.Run(digest, func(t *testing.T) {
			alg, err := fingerprint.ParseAlgorithm(digest)
			require.NoError(t, err)
			want, err := fingerprint.Hex([]string{"a.txt", "dir"}, fingerprint.WithAlgorithm(alg))
			require.NoError(t, err)

			out, err := run(t, "hash", "--digest", digest, "a.txt", "dir")
			require.NoError(t, err)
			assert.Equal(t, want, strings.TrimSpace(out))
		})
	}

	t.Run("verbose lists files", func(t *testing.T) {
		out, err := run(t, "hash", "--verbose", "dir", "a.txt")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasSuffix(lines[0], "  dir/b.txt") || strings.HasSuffix(lines[0], "  "+filepath.Join("dir", "b.txt")))
		assert.True(t, strings.HasSuffix(lines[1], "  a.txt"))
	})
}

func TestDetectCommand(t *testing.T) {
	project, _ := sandbox(t)

	_, err := run(t, "detect")
	assert.ErrorIs(t, err, errs.ErrConfig)

	write(t, filepath.Join(project, "Gemfile"), "source 'https://rubygems.org'")
	write(t, filepath.Join(project, "Gemfile.lock"), "GEM")

	out, err := run(t, "detect")
	require.NoError(t, err)
	assert.Contains(t, out, "name:    ruby")
	assert.Contains(t, out, "watch:   Gemfile Gemfile.lock")
	assert.Contains(t, out, "archive: vendor")

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "rust", want: "watch:   Cargo.toml Cargo.lock"},
		{name: "cobol", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "detect", tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, "name:    "+tt.name)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestUploadCommand(t *testing.T) {
	project, cache := sandbox(t)
	blob := filepath.Join(project, "famo-upload-1.bin")
	write(t, blob, "encoded artifact")

	_, err := run(t, "upload", "--store", "local", "--cache-dir", cache, "--key", "ci/abc123", "--file", blob)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(cache, "ci", "abc123"))
	require.NoError(t, err)
	assert.Equal(t, "encoded artifact", string(b))
	assert.NoFileExists(t, blob)

	_, err = run(t, "upload", "--store", "local", "--cache-dir", cache, "--key", "ci/abc123")
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestPurgeCommand(t *testing.T) {
	_, cache := sandbox(t)
	old := filepath.Join(cache, "ci", "old")
	fresh := filepath.Join(cache, "ci", "fresh")
	write(t, old, "o")
	write(t, fresh, "f")
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	out, err := run(t, "purge", "--cache-dir", cache, "--older-than", "24h")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1 artifact(s)")
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
}

func TestCompletionCommand(t *testing.T) {
	sandbox(t)

	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _famo famo")

	out, err = run(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "compdef _famo famo")
}

func TestInvalidFlagValue(t *testing.T) {
	_, cache := sandbox(t)

	_, err := run(t, "--store", "local", "--cache-dir", cache, "--codec", "brotli", "-a", "out", "-c", "true", "x")
	assert.Error(t, err)
}
