// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/famo/internal/archive"
	"github.com/staranto/famo/internal/config"
	"github.com/staranto/famo/internal/fingerprint"
	mylog "github.com/staranto/famo/internal/log"
	"github.com/staranto/famo/internal/store"
)

// Environment variables, shared by the flags and the detached upload child.
const (
	EnvAccessKeyID     = "FAMO_ACCESS_KEY_ID"
	EnvSecretAccessKey = "FAMO_SECRET_ACCESS_KEY"
	EnvBucket          = "FAMO_BUCKET"
	EnvEndpoint        = "FAMO_ENDPOINT"
	EnvRegion          = "FAMO_REGION"
	EnvKey             = "FAMO_KEY"
	EnvArchive         = "FAMO_ARCHIVE"
	EnvCommand         = "FAMO_COMMAND"
	EnvStore           = "FAMO_STORE"
	EnvCodec           = "FAMO_CODEC"
	EnvDigest          = "FAMO_DIGEST"
	EnvCacheDir        = "FAMO_CACHE_DIR"
	EnvLog             = "FAMO_LOG"
)

// DefaultPurgeAge is how old a local artifact must be before purge removes it.
const DefaultPurgeAge = 7 * 24 * time.Hour

// Sources builds a flag's value chain: the environment variable first, then
// the config file under the active namespace, then the config file's top
// level.
func Sources(cfg config.Type, env, key string) cli.ValueSourceChain {
	var srcs []cli.ValueSource
	if env != "" {
		srcs = append(srcs, cli.EnvVar(env))
	}
	if cfg.Source != "" && key != "" {
		if cfg.Namespace != "" {
			srcs = append(srcs, yaml.YAML(cfg.Namespace+"."+key, altsrc.StringSourcer(cfg.Source)))
		}
		srcs = append(srcs, yaml.YAML(key, altsrc.StringSourcer(cfg.Source)))
	}
	return cli.NewValueSourceChain(srcs...)
}

// NewStoreFlags are the object store connection flags. They are shared by the
// root command and the upload subcommand.
func NewStoreFlags(cfg config.Type) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "access_key_id",
			Usage:   "access key id for the object store",
			Sources: Sources(cfg, EnvAccessKeyID, "access_key_id"),
		},
		&cli.StringFlag{
			Name:    "secret_access_key",
			Usage:   "secret access key for the object store",
			Sources: Sources(config.Type{}, EnvSecretAccessKey, ""),
		},
		&cli.StringFlag{
			Name:    "bucket",
			Aliases: []string{"b"},
			Usage:   "bucket holding the artifacts",
			Sources: Sources(cfg, EnvBucket, "bucket"),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Aliases: []string{"e"},
			Usage:   "object store endpoint (host[:port] or URL)",
			Sources: Sources(cfg, EnvEndpoint, "endpoint"),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "region",
			Aliases: []string{"r"},
			Usage:   "object store region",
			Sources: Sources(cfg, EnvRegion, "region"),
		},
		&cli.StringFlag{
			Name:    "store",
			Usage:   "object store backend: s3, signed or local",
			Sources: Sources(cfg, EnvStore, "store"),
			Value:   string(store.KindS3),
			Validator: func(value string) error {
				return FlagValidators(value, StoreValidator)
			},
		},
		&cli.StringFlag{
			Name:    "cache-dir",
			Usage:   "directory for the local store",
			Sources: Sources(cfg, EnvCacheDir, "cache_dir"),
		},
	}
}

// NewRootFlags are the flags of the cache run itself.
func NewRootFlags(cfg config.Type) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "key",
			Aliases: []string{"k"},
			Usage:   "prefix for object keys",
			Sources: Sources(cfg, EnvKey, "key"),
			// upload has its own --key naming a whole object.
			Local: true,
		},
		&cli.StringFlag{
			Name:    "archive",
			Aliases: []string{"a"},
			Usage:   "directory produced by the build and cached",
			Sources: Sources(cfg, EnvArchive, "archive"),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "command",
			Aliases: []string{"c"},
			Usage:   "build command, run with sh -c",
			Sources: Sources(cfg, EnvCommand, "command"),
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "show the build's output",
			Sources:     Sources(cfg, "", "verbose"),
			HideDefault: true,
		},
		&cli.BoolFlag{
			Name:        "async",
			Usage:       "upload in a detached background process",
			Sources:     Sources(cfg, "", "async"),
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:    "codec",
			Usage:   "compression for uploads: gzip, zstd, lz4 or none",
			Sources: Sources(cfg, EnvCodec, "codec"),
			Value:   archive.DefaultCodec.String(),
			Validator: func(value string) error {
				return FlagValidators(value, CodecValidator)
			},
		},
		&cli.StringFlag{
			Name:    "digest",
			Usage:   "per-file digest for fingerprints: sha256, blake3 or blake2b",
			Sources: Sources(cfg, EnvDigest, "digest"),
			Value:   string(fingerprint.SHA256),
			Validator: func(value string) error {
				return FlagValidators(value, DigestValidator)
			},
		},
		&cli.BoolFlag{
			Name:        "tldr",
			Usage:       "show the tldr page",
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "debug, info, warn or error",
			Sources: Sources(cfg, EnvLog, "log_level"),
			Value:   mylog.DefaultLevel,
			Validator: func(value string) error {
				return FlagValidators(value, LogLevelValidator)
			},
		},
	}
	return append(flags, NewStoreFlags(cfg)...)
}
