// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/famo/internal/errs"
	"github.com/staranto/famo/internal/store/local"
	"github.com/staranto/famo/internal/store/s3"
	"github.com/staranto/famo/internal/store/signed"
)

// Store is a flat key/value object store holding encoded artifacts. Every
// error returned by an implementation is an errs.ErrTransport.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Kind selects a Store implementation.
type Kind string

const (
	KindS3     Kind = "s3"
	KindSigned Kind = "signed"
	KindLocal  Kind = "local"
)

// Kinds lists the supported backends, default first.
var Kinds = []Kind{KindS3, KindSigned, KindLocal}

// ParseKind validates a --store value.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown store %q (want one of s3, signed, local)", s)
}

// Settings is the union of every backend's connection settings.
type Settings struct {
	Kind            Kind
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	CacheDir        string
}

// Redacted returns a copy safe to log.
func (s Settings) Redacted() Settings {
	if s.SecretAccessKey != "" {
		s.SecretAccessKey = "****"
	}
	return s
}

// ObjectKey joins the optional key prefix and the fingerprint.
func ObjectKey(prefix, fingerprint string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return fingerprint
	}
	return path.Join(prefix, fingerprint)
}

// New builds the store selected by s.Kind. Only missing or unknown settings
// are errors. A client that cannot be built is logged and replaced by an
// Unavailable store.
func New(ctx context.Context, s Settings, logger log.Interface) (Store, error) {
	logger.WithFields(log.Fields{
		"store":    s.Kind,
		"bucket":   s.Bucket,
		"endpoint": s.Endpoint,
		"region":   s.Region,
	}).Debug("NewStore")

	switch s.Kind {
	case KindS3, "":
		if s.Bucket == "" {
			return nil, errs.Config("store", fmt.Errorf("s3 store needs a bucket"))
		}
		st, err := s3.New(ctx, s3.Options{
			Bucket:          s.Bucket,
			Endpoint:        s.Endpoint,
			Region:          s.Region,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
		})
		if err != nil {
			return unavailable(s.Kind, err, logger), nil
		}
		return st, nil
	case KindSigned:
		if s.Bucket == "" || s.Endpoint == "" {
			return nil, errs.Config("store", fmt.Errorf("signed store needs a bucket and an endpoint"))
		}
		return signed.New(signed.Options{
			Endpoint:        s.Endpoint,
			Bucket:          s.Bucket,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
		}), nil
	case KindLocal:
		st, err := local.New(s.CacheDir)
		if err != nil {
			return unavailable(s.Kind, err, logger), nil
		}
		return st, nil
	}

	return nil, errs.Config("store", fmt.Errorf("unknown store %q", s.Kind))
}

func unavailable(kind Kind, err error, logger log.Interface) Store {
	logger.WithError(err).WithField("store", kind).Warn("failed to set up the cache store, continuing without it")
	return &Unavailable{Err: err}
}
