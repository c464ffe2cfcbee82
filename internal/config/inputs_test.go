// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/famo/internal/errs"
	"github.com/staranto/famo/internal/lang"
)

func TestResolveInputs(t *testing.T) {
	rust, ok := lang.Lookup("rust")
	require.True(t, ok)

	tests := []struct {
		name    string
		given   Inputs
		profile *lang.Profile
		want    Inputs
		wantErr bool
	}{
		{
			name:    "profile fills everything",
			profile: &rust,
			want:    Inputs{Watches: []string{"Cargo.toml", "Cargo.lock"}, Archive: "target", Command: "cargo build"},
		},
		{
			name:    "explicit values win",
			given:   Inputs{Watches: []string{"src"}, Command: "cargo build --release"},
			profile: &rust,
			want:    Inputs{Watches: []string{"src"}, Archive: "target", Command: "cargo build --release"},
		},
		{
			name:  "fully explicit without profile",
			given: Inputs{Watches: []string{"go.sum"}, Archive: "bin", Command: "go build -o bin ./..."},
			want:  Inputs{Watches: []string{"go.sum"}, Archive: "bin", Command: "go build -o bin ./..."},
		},
		{
			name:    "missing archive without profile",
			given:   Inputs{Watches: []string{"go.sum"}, Command: "make"},
			wantErr: true,
		},
		{
			name:    "nothing at all",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveInputs(tt.given, tt.profile)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveInputsDoesNotAlias(t *testing.T) {
	rust, _ := lang.Lookup("rust")
	got, err := ResolveInputs(Inputs{}, &rust)
	require.NoError(t, err)
	got.Watches[0] = "changed"
	assert.Equal(t, "Cargo.toml", rust.Markers[0])
}

func TestResolveInputsNamesMissing(t *testing.T) {
	_, err := ResolveInputs(Inputs{Watches: []string{"x"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--archive")
	assert.Contains(t, err.Error(), "--command")
	assert.NotContains(t, err.Error(), "watch paths")
}
