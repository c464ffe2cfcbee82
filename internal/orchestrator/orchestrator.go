// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/staranto/famo/internal/archive"
	"github.com/staranto/famo/internal/errs"
	"github.com/staranto/famo/internal/fingerprint"
	"github.com/staranto/famo/internal/runner"
	"github.com/staranto/famo/internal/store"
)

// Outcome is how a run ended when it did not fail.
type Outcome int

const (
	// Hit means the artifact was restored and the build skipped.
	Hit Outcome = iota + 1
	// MissBuilt means the build ran and its artifact was uploaded.
	MissBuilt
	// MissBuiltUnpublished means the build ran but the artifact could not be
	// packed or uploaded.
	MissBuiltUnpublished
	// MissBuiltDeferred means the build ran and the upload was handed to a
	// detached process whose result is not observed.
	MissBuiltDeferred
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case MissBuilt:
		return "miss-built"
	case MissBuiltUnpublished:
		return "miss-built-unpublished"
	case MissBuiltDeferred:
		return "miss-built-deferred"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Config describes one cache run.
type Config struct {
	// Watches are the inputs whose contents key the cache.
	Watches []string
	// Archive is the build output directory (or file) to cache.
	Archive string
	// Command builds Archive.
	Command string
	// KeyPrefix is prepended to the fingerprint to form the object key.
	KeyPrefix string
	// WorkDir is where the build runs and where artifacts are restored.
	// Archive entries are named relative to it. Defaults to ".".
	WorkDir string
	// Verbose passes the build's output through.
	Verbose bool
}

// Validate reports the first missing setting as a configuration error.
func (c Config) Validate() error {
	switch {
	case len(c.Watches) == 0:
		return errs.Config("validate", errors.New("no watch paths"))
	case strings.TrimSpace(c.Archive) == "":
		return errs.Config("validate", errors.New("no archive directory"))
	case strings.TrimSpace(c.Command) == "":
		return errs.Config("validate", errors.New("no build command"))
	}
	return nil
}

// Fingerprinter derives the cache key from the watch list.
type Fingerprinter func(paths []string) (string, error)

// Result is the key a run used and how it ended.
type Result struct {
	Key         string
	Fingerprint string
	Outcome     Outcome
}

// Orchestrator runs fingerprint, check, then restore or build and publish.
// Only configuration, fingerprint and build failures are fatal; everything
// touching the store or the archive degrades to a rebuild or a skipped
// upload.
type Orchestrator struct {
	cfg         Config
	store       store.Store
	fingerprint Fingerprinter
	runner      runner.Runner
	publisher   Publisher
	logger      log.Interface
	codec       archive.Codec
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithFingerprinter replaces the default SHA-256 fingerprint.
func WithFingerprinter(f Fingerprinter) Option {
	return func(o *Orchestrator) { o.fingerprint = f }
}

// WithRunner replaces the sh -c build runner.
func WithRunner(r runner.Runner) Option {
	return func(o *Orchestrator) { o.runner = r }
}

// WithPublisher replaces the synchronous store upload.
func WithPublisher(p Publisher) Option {
	return func(o *Orchestrator) { o.publisher = p }
}

func WithLogger(l log.Interface) Option {
	return func(o *Orchestrator) { o.logger = orDiscard(l) }
}

// WithCodec selects the compression for uploads. Restores detect the codec
// on their own.
func WithCodec(c archive.Codec) Option {
	return func(o *Orchestrator) { o.codec = c }
}

// New validates cfg and applies opts.
func New(cfg Config, st store.Store, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errs.Config("validate", errors.New("no object store"))
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}

	o := &Orchestrator{
		cfg:   cfg,
		store: st,
		fingerprint: func(paths []string) (string, error) {
			return fingerprint.Hex(paths)
		},
		logger: orDiscard(nil),
		codec:  archive.DefaultCodec,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.runner == nil {
		o.runner = &runner.Shell{Dir: cfg.WorkDir, Verbose: cfg.Verbose, Logger: o.logger}
	}
	if o.publisher == nil {
		o.publisher = &StorePublisher{Store: st, Logger: o.logger}
	}
	return o, nil
}

// Run executes the pipeline once. The error is non-nil only for a failed
// fingerprint or a failed build.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	o.stage("fingerprint")
	hex, err := o.fingerprint(o.cfg.Watches)
	if err != nil {
		if !errors.Is(err, errs.ErrFilesystem) {
			err = errs.Filesystem("fingerprint", "", err)
		}
		return Result{}, err
	}
	res := Result{Key: store.ObjectKey(o.cfg.KeyPrefix, hex), Fingerprint: hex}
	o.logger.WithField("key", res.Key).Infof("Cache key: %s", hex)

	if o.restore(ctx, res.Key) {
		res.Outcome = Hit
		o.stage("done")
		return res, nil
	}

	o.stage("build")
	if err := o.runner.Run(ctx, o.cfg.Command); err != nil {
		if !errors.Is(err, errs.ErrBuild) {
			err = errs.Build(o.cfg.Command, err)
		}
		return res, err
	}

	res.Outcome = o.publish(ctx, res.Key)
	o.stage("done")
	return res, nil
}

// restore reports whether the cached artifact for key now sits in WorkDir.
func (o *Orchestrator) restore(ctx context.Context, key string) bool {
	o.stage("check")
	exists, err := o.store.Exists(ctx, key)
	if err != nil {
		o.warn(err, "failed to check the cache, building instead")
		return false
	}
	if !exists {
		o.logger.Info("The cache doesn't exist.")
		return false
	}
	o.logger.Info("The cache exists.")

	o.stage("restore")
	o.logger.Info("--- Downloading")
	blob, err := o.store.Get(ctx, key)
	if err != nil {
		o.warn(err, "failed to download the cache, building instead")
		return false
	}
	o.done(len(blob))

	o.logger.Info("--- Decoding")
	packed, err := archive.Decode(blob)
	if err != nil {
		o.warn(err, "failed to decode the cache, building instead")
		return false
	}
	o.done(len(packed))

	o.logger.Info("--- Unpacking")
	if err := archive.UnpackBytes(packed, o.cfg.WorkDir); err != nil {
		o.warn(err, "failed to unpack the cache, building instead")
		return false
	}
	o.logger.Info("--- ---> Done")
	return true
}

func (o *Orchestrator) publish(ctx context.Context, key string) Outcome {
	o.stage("pack")
	root := o.cfg.Archive
	if !filepath.IsAbs(root) {
		root = filepath.Join(o.cfg.WorkDir, root)
	}

	o.logger.Info("--- Archiving")
	packed, err := archive.PackBytes(root, o.cfg.WorkDir)
	if err != nil {
		o.warn(err, "failed to archive the build output, not uploading")
		return MissBuiltUnpublished
	}
	o.done(len(packed))

	o.logger.WithField("codec", o.codec).Info("--- Encoding")
	blob, err := archive.Encode(packed, o.codec)
	if err != nil {
		o.warn(err, "failed to encode the build output, not uploading")
		return MissBuiltUnpublished
	}
	o.done(len(blob))

	o.stage("publish")
	outcome, err := o.publisher.Publish(ctx, key, blob)
	if err != nil {
		o.warn(err, "failed to upload the cache")
		return MissBuiltUnpublished
	}
	return outcome
}

func (o *Orchestrator) stage(name string) {
	o.logger.WithField("stage", name).Debug("stage")
}

func (o *Orchestrator) done(n int) {
	o.logger.WithField("bytes", n).Infof("--- ---> Done (%s)", humanize.Bytes(uint64(n)))
}

func (o *Orchestrator) warn(err error, msg string) {
	entry := o.logger.WithError(err)
	if status := errs.StatusOf(err); status != 0 {
		entry = entry.WithField("status", status)
	}
	entry.Warn(msg)
}
