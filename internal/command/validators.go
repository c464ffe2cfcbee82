// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/famo/internal/archive"
	"github.com/staranto/famo/internal/fingerprint"
	"github.com/staranto/famo/internal/store"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func CodecValidator(value any) error {
	_, err := archive.ParseCodec(value.(string))
	return err
}

func DigestValidator(value any) error {
	_, err := fingerprint.ParseAlgorithm(value.(string))
	return err
}

func StoreValidator(value any) error {
	_, err := store.ParseKind(value.(string))
	return err
}

func LogLevelValidator(value any) error {
	_, err := log.ParseLevel(strings.ToLower(value.(string)))
	return err
}
