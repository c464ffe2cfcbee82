// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kinds of failure. Every error produced by the cache pipeline wraps exactly
// one of these so callers can apply the failure policy with errors.Is.
var (
	ErrConfig     = errors.New("configuration error")
	ErrFilesystem = errors.New("filesystem error")
	ErrArchive    = errors.New("archive error")
	ErrTransport  = errors.New("transport error")
	ErrBuild      = errors.New("build error")
)

// Error carries the context of a failed operation. Status is the HTTP status
// for transport failures and zero otherwise.
type Error struct {
	Kind   error
	Op     string
	Path   string
	Status int
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Config(op string, err error) error {
	return &Error{Kind: ErrConfig, Op: op, Err: err}
}

func Filesystem(op, path string, err error) error {
	return &Error{Kind: ErrFilesystem, Op: op, Path: path, Err: err}
}

func Archive(op, path string, err error) error {
	return &Error{Kind: ErrArchive, Op: op, Path: path, Err: err}
}

func Transport(op, key string, status int, err error) error {
	return &Error{Kind: ErrTransport, Op: op, Path: key, Status: status, Err: err}
}

func Build(command string, err error) error {
	return &Error{Kind: ErrBuild, Op: "run", Path: fmt.Sprintf("`%s`", command), Err: err}
}

// StatusOf returns the HTTP status recorded anywhere in err's chain, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
