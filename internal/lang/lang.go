// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package lang

import (
	"os"
	"path/filepath"
)

// Profile describes a toolchain famo recognizes without configuration.
type Profile struct {
	// Name is the short identifier printed by `famo detect`.
	Name string
	// Markers are the files that must all exist for the profile to match.
	// They double as the default watch list.
	Markers []string
	// Archive is the directory holding the build output.
	Archive string
	// Command builds the project.
	Command string
}

var profiles = []Profile{
	{
		Name:    "rust",
		Markers: []string{"Cargo.toml", "Cargo.lock"},
		Archive: "target",
		Command: "cargo build",
	},
	{
		Name:    "yarn",
		Markers: []string{"package.json", "yarn.lock"},
		Archive: "node_modules",
		Command: "yarn build",
	},
	{
		Name:    "node_js",
		Markers: []string{"package.json", "package-lock.json"},
		Archive: "node_modules",
		Command: "npm build",
	},
	{
		Name:    "ruby",
		Markers: []string{"Gemfile", "Gemfile.lock"},
		Archive: "vendor",
		Command: "bundle install --path vendor/bundle",
	},
	{
		Name:    "crystal",
		Markers: []string{"shard.yaml", "shard.lock"},
		Archive: "lib",
		Command: "shards build",
	},
}

// Profiles returns a copy of the profile table in detection order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		p.Markers = append([]string(nil), p.Markers...)
		out[i] = p
	}
	return out
}

// Lookup returns the named profile.
func Lookup(name string) (Profile, bool) {
	for _, p := range Profiles() {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Detect returns the first profile whose markers are all regular files in
// dir, or nil when none match.
func Detect(dir string) *Profile {
	for _, p := range Profiles() {
		if p.matches(dir) {
			return &p
		}
	}
	return nil
}

func (p Profile) matches(dir string) bool {
	for _, m := range p.Markers {
		info, err := os.Stat(filepath.Join(dir, m))
		if err != nil || !info.Mode().IsRegular() {
			return false
		}
	}
	return true
}
