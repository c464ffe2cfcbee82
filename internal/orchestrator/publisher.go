// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"

	"github.com/staranto/famo/internal/store"
)

// Publisher uploads an encoded artifact under key.
type Publisher interface {
	Publish(ctx context.Context, key string, blob []byte) (Outcome, error)
}

// StorePublisher uploads synchronously.
type StorePublisher struct {
	Store  store.Store
	Logger log.Interface
}

func (p *StorePublisher) Publish(ctx context.Context, key string, blob []byte) (Outcome, error) {
	logger := orDiscard(p.Logger)
	logger.Info("--- Uploading")
	if err := p.Store.Put(ctx, key, blob); err != nil {
		return MissBuiltUnpublished, err
	}
	logger.Info("--- ---> Done!")
	return MissBuilt, nil
}

func orDiscard(l log.Interface) log.Interface {
	if l == nil {
		return &log.Logger{Handler: discard.Default, Level: log.FatalLevel}
	}
	return l
}
