// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/staranto/famo/internal/errs"
)

const stagePattern = ".famo-unpack-*"

var (
	ErrUnsafeEntry = errors.New("entry escapes the destination")
	ErrEmpty       = errors.New("empty archive")
)

// PackBytes packs root into memory. See Pack.
func PackBytes(root, base string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Pack(&buf, root, base); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Pack writes root (a directory tree or a single file) to w as a tar stream.
//
// Entry names are root's path relative to base when root lies beneath base,
// and root's base name otherwise, so unpacking into base recreates root in
// place. Symbolic links are stored as links and never followed.
func Pack(w io.Writer, root, base string) error {
	info, err := os.Lstat(root)
	if err != nil {
		return errs.Archive("pack", root, err)
	}

	prefix, err := entryPrefix(root, base)
	if err != nil {
		return errs.Archive("pack", root, err)
	}

	tw := tar.NewWriter(w)
	if !info.IsDir() {
		if err := addEntry(tw, root, prefix, info); err != nil {
			return err
		}
		return closeWriter(tw, root)
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return errs.Archive("walk", p, walkErr)
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return errs.Archive("walk", p, err)
		}
		name := path.Join(prefix, filepath.ToSlash(rel))
		if name == "." {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return errs.Archive("stat", p, err)
		}
		return addEntry(tw, p, name, info)
	})
	if err != nil {
		return err
	}
	return closeWriter(tw, root)
}

func closeWriter(tw *tar.Writer, root string) error {
	if err := tw.Close(); err != nil {
		return errs.Archive("pack", root, err)
	}
	return nil
}

func entryPrefix(root, base string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if base != "" {
		absBase, err := filepath.Abs(base)
		if err != nil {
			return "", err
		}
		if rel, err := filepath.Rel(absBase, absRoot); err == nil && filepath.IsLocal(rel) {
			return filepath.ToSlash(rel), nil
		}
	}
	return filepath.Base(absRoot), nil
}

func addEntry(tw *tar.Writer, p, name string, info fs.FileInfo) error {
	var link string
	switch mode := info.Mode(); {
	case mode&fs.ModeSymlink != 0:
		target, err := os.Readlink(p)
		if err != nil {
			return errs.Archive("readlink", p, err)
		}
		link = target
	case mode.IsRegular(), mode.IsDir():
	default:
		// Sockets, devices and pipes have no place in a build artifact.
		return nil
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return errs.Archive("header", p, err)
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}
	normalize(hdr)

	if err := tw.WriteHeader(hdr); err != nil {
		return errs.Archive("write header", p, err)
	}
	if hdr.Typeflag != tar.TypeReg {
		return nil
	}

	f, err := os.Open(p)
	if err != nil {
		return errs.Archive("open", p, err)
	}
	defer f.Close()

	if _, err := io.CopyN(tw, f, hdr.Size); err != nil {
		return errs.Archive("copy", p, err)
	}
	return nil
}

// normalize strips host-specific metadata so equal trees pack equally.
// Modification times survive since incremental build tools rely on them.
func normalize(hdr *tar.Header) {
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""
	hdr.ModTime = hdr.ModTime.Truncate(time.Second)
	hdr.AccessTime, hdr.ChangeTime = time.Time{}, time.Time{}
	hdr.PAXRecords = nil
}

// UnpackBytes unpacks an in-memory tar stream into dest. See Unpack.
func UnpackBytes(data []byte, dest string) error {
	if len(data) == 0 {
		return errs.Archive("unpack", dest, ErrEmpty)
	}
	return Unpack(bytes.NewReader(data), dest)
}

type staged struct {
	name string
	typ  byte
	mode fs.FileMode
}

// Unpack recreates the tree stored in r beneath dest. Entries are first
// extracted into a staging directory inside dest, so a malformed stream is
// rejected before dest changes. The staged tree is then merged into dest:
// directories are created, files and links replace same-named entries, and
// everything else in dest is left alone.
//
// The merge renames one entry at a time and is not atomic. If it fails
// partway, for example on a permission error, dest is left partly restored.
func Unpack(r io.Reader, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil { //nolint:mnd
		return errs.Filesystem("mkdir", dest, err)
	}
	stage, err := os.MkdirTemp(dest, stagePattern)
	if err != nil {
		return errs.Filesystem("mkdir", dest, err)
	}
	defer os.RemoveAll(stage)

	entries, err := extract(tar.NewReader(r), stage)
	if err != nil {
		return err
	}
	return merge(stage, dest, entries)
}

func extract(tr *tar.Reader, stage string) ([]staged, error) {
	var entries []staged
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, errs.Archive("read", "", err)
		}

		name := path.Clean(strings.TrimSuffix(hdr.Name, "/"))
		local := filepath.FromSlash(name)
		if !filepath.IsLocal(local) {
			return nil, errs.Archive("read", hdr.Name, ErrUnsafeEntry)
		}
		if err := checkParents(stage, local); err != nil {
			return nil, errs.Archive("read", hdr.Name, err)
		}
		target := filepath.Join(stage, local)
		mode := hdr.FileInfo().Mode().Perm()

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil { //nolint:mnd
				return nil, errs.Filesystem("mkdir", target, err)
			}
		case tar.TypeReg:
			if err := writeFile(tr, target, mode, hdr.ModTime); err != nil {
				return nil, err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil { //nolint:mnd
				return nil, errs.Filesystem("mkdir", target, err)
			}
			_ = os.RemoveAll(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return nil, errs.Filesystem("symlink", target, err)
			}
		default:
			continue
		}
		entries = append(entries, staged{name: local, typ: hdr.Typeflag, mode: mode})
	}
}

// checkParents rejects names whose parent directories inside stage are
// symbolic links, since writing through them could land outside dest.
func checkParents(stage, name string) error {
	dir := stage
	parts := strings.Split(filepath.Dir(name), string(filepath.Separator))
	for _, part := range parts {
		if part == "." {
			continue
		}
		dir = filepath.Join(dir, part)
		info, err := os.Lstat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return fmt.Errorf("%w: parent %s is a symlink", ErrUnsafeEntry, part)
		}
	}
	return nil
}

func writeFile(r io.Reader, target string, mode fs.FileMode, mtime time.Time) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil { //nolint:mnd
		return errs.Filesystem("mkdir", target, err)
	}
	_ = os.RemoveAll(target)
	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode|0o200) //nolint:mnd
	if err != nil {
		return errs.Filesystem("create", target, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return errs.Archive("read", target, err)
	}
	if err := f.Close(); err != nil {
		return errs.Filesystem("close", target, err)
	}
	_ = os.Chmod(target, mode)
	_ = os.Chtimes(target, mtime, mtime)
	return nil
}

func merge(stage, dest string, entries []staged) error {
	for _, e := range entries {
		src := filepath.Join(stage, e.name)
		dst := filepath.Join(dest, e.name)
		if e.typ != tar.TypeDir {
			// A later duplicate of the same name already moved it.
			if _, err := os.Lstat(src); errors.Is(err, fs.ErrNotExist) {
				continue
			}
		}

		existing, statErr := os.Lstat(dst)
		exists := statErr == nil

		if e.typ == tar.TypeDir {
			if exists && !existing.IsDir() {
				if err := os.RemoveAll(dst); err != nil {
					return errs.Filesystem("replace", dst, err)
				}
			}
			if err := os.MkdirAll(dst, 0o755); err != nil { //nolint:mnd
				return errs.Filesystem("mkdir", dst, err)
			}
			_ = os.Chmod(dst, e.mode|0o700) //nolint:mnd
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil { //nolint:mnd
			return errs.Filesystem("mkdir", dst, err)
		}
		if exists && existing.IsDir() {
			if err := os.RemoveAll(dst); err != nil {
				return errs.Filesystem("replace", dst, err)
			}
		}
		if err := os.Rename(src, dst); err != nil {
			return errs.Filesystem("rename", dst, err)
		}
	}
	return nil
}
