// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/urfave/cli/v3"

	"github.com/staranto/famo/internal/config"
	"github.com/staranto/famo/internal/errs"
	"github.com/staranto/famo/internal/meta"
	"github.com/staranto/famo/internal/store"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr famo-<subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if pathHas("tldr") {
			c := exec.CommandContext(ctx, "tldr", "famo-"+subcmd)
			c.Stdout = cmd.Root().Writer
			c.Stderr = cmd.Root().ErrWriter
			_ = c.Run()
		}
		return true
	}
	return false
}

func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}

// GetMeta returns the *meta.Meta stored in the root command's Metadata. If
// missing or of an unexpected type, it returns an empty Meta.
func GetMeta(cmd *cli.Command) *meta.Meta {
	if cmd == nil {
		return &meta.Meta{}
	}
	root := cmd.Root()
	if root.Metadata == nil {
		return &meta.Meta{}
	}
	if m, ok := root.Metadata["meta"].(*meta.Meta); ok {
		return m
	}
	return &meta.Meta{}
}

// Logger returns the logger the root Before hook built, or a discarding one
// before it has run.
func Logger(cmd *cli.Command) log.Interface {
	if m := GetMeta(cmd); m.Logger != nil {
		return m.Logger
	}
	return &log.Logger{Handler: discard.Default, Level: log.FatalLevel}
}

// StoreSettings collects the object store flags.
func StoreSettings(cmd *cli.Command) (store.Settings, error) {
	kind, err := store.ParseKind(cmd.String("store"))
	if err != nil {
		return store.Settings{}, errs.Config("store", err)
	}
	return store.Settings{
		Kind:            kind,
		Bucket:          cmd.String("bucket"),
		Endpoint:        cmd.String("endpoint"),
		Region:          cmd.String("region"),
		AccessKeyID:     cmd.String("access_key_id"),
		SecretAccessKey: cmd.String("secret_access_key"),
		CacheDir:        cmd.String("cache-dir"),
	}, nil
}

// NewStore builds the object store selected by the flags.
func NewStore(ctx context.Context, cmd *cli.Command) (store.Store, store.Settings, error) {
	s, err := StoreSettings(cmd)
	if err != nil {
		return nil, s, err
	}
	st, err := store.New(ctx, s, Logger(cmd))
	return st, s, err
}

// ResolveInputs gathers watch paths, archive and command. Watch paths come
// from the positional args, then the config file's watch list. Whatever is
// still missing comes from the detected toolchain profile.
func ResolveInputs(cmd *cli.Command) (config.Inputs, error) {
	m := GetMeta(cmd)

	watches := cmd.Args().Slice()
	if len(watches) == 0 {
		fromCfg, err := m.Config.GetStringSlice("watch", nil)
		if err != nil {
			return config.Inputs{}, errs.Config("watch", err)
		}
		watches = fromCfg
	}

	return config.ResolveInputs(config.Inputs{
		Watches: watches,
		Archive: cmd.String("archive"),
		Command: cmd.String("command"),
	}, m.Profile)
}

// ChildEnv passes the resolved store settings to a detached upload. Values
// set by flags would otherwise be lost, since the child only sees argv
// --key and --file.
func ChildEnv(s store.Settings, level string) []string {
	env := []string{
		EnvStore + "=" + string(s.Kind),
		EnvLog + "=" + level,
	}
	add := func(name, value string) {
		if value != "" {
			env = append(env, name+"="+value)
		}
	}
	add(EnvBucket, s.Bucket)
	add(EnvEndpoint, s.Endpoint)
	add(EnvRegion, s.Region)
	add(EnvAccessKeyID, s.AccessKeyID)
	add(EnvSecretAccessKey, s.SecretAccessKey)
	add(EnvCacheDir, s.CacheDir)
	return env
}

// ErrUnknownSet is returned by ExpandArgSets for an @name with no config
// entry.
var ErrUnknownSet = errors.New("unknown argument set")

// ExpandArgSets replaces every @name in args with the entries of the
// config's sets.name list. Each entry is split on whitespace, so
//
//	sets:
//	  ci:
//	    - --store s3 --bucket ci-cache
//	    - --async
//
// lets `famo @ci` stand for `famo --store s3 --bucket ci-cache --async`.
func ExpandArgSets(args []string, cfg config.Type) ([]string, error) {
	out := make([]string, 0, len(args))
	for i, a := range args {
		if i == 0 || !strings.HasPrefix(a, "@") || len(a) == 1 {
			out = append(out, a)
			continue
		}
		set := a[1:]
		entries, err := cfg.GetStringSlice("sets." + set)
		if err != nil {
			return nil, errs.Config("expand", fmt.Errorf("%w: %s", ErrUnknownSet, set))
		}
		for _, e := range entries {
			out = append(out, strings.Fields(e)...)
		}
	}
	return out, nil
}

// Executable returns famo's own path for detached uploads.
func Executable() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	return os.Args[0]
}
