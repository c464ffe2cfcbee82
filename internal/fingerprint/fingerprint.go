// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"math/big"
	"os"
	"path/filepath"
	"slices"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"

	"github.com/staranto/famo/internal/errs"
)

// Algorithm names the 256-bit digest applied to each file.
type Algorithm string

const (
	SHA256  Algorithm = "sha256"
	BLAKE3  Algorithm = "blake3"
	BLAKE2b Algorithm = "blake2b"
)

// Algorithms lists the supported digests, default first.
var Algorithms = []Algorithm{SHA256, BLAKE3, BLAKE2b}

// ParseAlgorithm maps a flag value to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(name)
	if slices.Contains(Algorithms, a) {
		return a, nil
	}
	return "", fmt.Errorf("unknown digest algorithm: %q", name)
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case BLAKE3:
		return blake3.New()
	case BLAKE2b:
		h, _ := blake2b.New256(nil) // only fails for oversized keys
		return h
	default:
		return sha256.New()
	}
}

type options struct {
	algorithm Algorithm
}

// Option customizes fingerprint computation.
type Option func(*options)

// WithAlgorithm selects the per-file digest. Keys produced with different
// algorithms never match, so all producers and consumers of a bucket must
// agree.
func WithAlgorithm(a Algorithm) Option {
	return func(o *options) { o.algorithm = a }
}

// FileDigest is the contribution of a single file to a fingerprint.
type FileDigest struct {
	Path  string
	Value *big.Int
}

// Hex returns the cache key for paths: the lowercase hex rendering of the sum
// of every file digest. An empty or entirely missing watch set yields "0".
func Hex(paths []string, opts ...Option) (string, error) {
	s, err := Sum(paths, opts...)
	if err != nil {
		return "", err
	}
	return s.Text(16), nil
}

// Sum adds up the digests of every file reachable from paths. Addition is
// commutative, so the order of paths and of directory listings never matters.
func Sum(paths []string, opts ...Option) (*big.Int, error) {
	digests, err := Digests(paths, opts...)
	if err != nil {
		return nil, err
	}
	total := new(big.Int)
	for _, d := range digests {
		total.Add(total, d.Value)
	}
	return total, nil
}

// Digests returns one FileDigest per regular file reachable from paths, in
// walk order. Paths that cannot be stat'ed are skipped.
func Digests(paths []string, opts ...Option) ([]FileDigest, error) {
	o := options{algorithm: SHA256}
	for _, opt := range opts {
		opt(&o)
	}

	w := &walker{algorithm: o.algorithm}
	for _, p := range paths {
		if err := w.visit(p); err != nil {
			return nil, err
		}
	}
	return w.digests, nil
}

type walker struct {
	algorithm Algorithm
	digests   []FileDigest
	// stack holds the resolved paths of the directories being recursed.
	stack []string
}

func (w *walker) visit(path string) error {
	// Anything that cannot be stat'ed, such as a missing path, a symlink
	// loop or a forbidden entry, is neither a file nor a directory.
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	switch {
	case info.Mode().IsRegular():
		return w.file(path)
	case info.IsDir():
		return w.dir(path)
	}
	return nil
}

func (w *walker) dir(path string) error {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return errs.Filesystem("resolve", path, err)
	}
	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return errs.Filesystem("resolve", path, err)
	}
	if slices.Contains(w.stack, resolved) {
		return nil
	}
	w.stack = append(w.stack, resolved)
	defer func() { w.stack = w.stack[:len(w.stack)-1] }()

	entries, err := os.ReadDir(path)
	if err != nil {
		return errs.Filesystem("read dir", path, err)
	}
	for _, e := range entries {
		if err := w.visit(child(path, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// child appends name to dir without cleaning dir, so a watch of ./src hashes
// ./src/a.rs rather than src/a.rs.
func child(dir, name string) string {
	if dir != "" && os.IsPathSeparator(dir[len(dir)-1]) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

func (w *walker) file(path string) error {
	contents, err := uniqueContents(path)
	if err != nil {
		return err
	}
	w.digests = append(w.digests, FileDigest{
		Path:  path,
		Value: toInt(w.algorithm, contents),
	})
	return nil
}

// uniqueContents is the file's bytes followed by its path, so equal contents
// at different paths contribute different digests.
func uniqueContents(path string) ([]byte, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Filesystem("read", path, err)
	}
	return append(contents, path...), nil
}

func toInt(a Algorithm, b []byte) *big.Int {
	h := a.newHash()
	h.Write(b)
	return new(big.Int).SetBytes(h.Sum(nil))
}
