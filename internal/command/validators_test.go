// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		validator FlagValidatorType
		wantErr   bool
	}{
		{"jammed flag", "--archive", JammedFlagValidator, true},
		{"plain value", "target", JammedFlagValidator, false},
		{"single dash is a value", "-", JammedFlagValidator, false},
		{"codec gzip", "gzip", CodecValidator, false},
		{"codec lz4", "lz4", CodecValidator, false},
		{"codec brotli", "brotli", CodecValidator, true},
		{"digest blake3", "blake3", DigestValidator, false},
		{"digest md5", "md5", DigestValidator, true},
		{"store signed", "signed", StoreValidator, false},
		{"store gcs", "gcs", StoreValidator, true},
		{"level upper case", "DEBUG", LogLevelValidator, false},
		{"level bogus", "loud", LogLevelValidator, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FlagValidators(tt.value, tt.validator)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFlagValidatorsStopsAtFirstError(t *testing.T) {
	calls := 0
	count := func(any) error { calls++; return nil }

	err := FlagValidators("--x", count, JammedFlagValidator, count)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
