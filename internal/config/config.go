// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file searched for in the standard locations.
const FileName = "famo.yaml"

// ErrNoConfig is returned by Load when no config file exists anywhere. It is
// not fatal: every setting also has a flag and an environment variable.
var ErrNoConfig = errors.New("no config file found in standard locations")

// Type is a loaded config file. Keys are dotted paths into the yaml
// document. When Namespace is set, "Namespace.key" is tried before "key".
type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

// Load reads the config file. The first of these that exists wins:
//  1. FAMO_CFG, which must name a file
//  2. ./famo.yaml
//  3. $XDG_CONFIG_HOME/famo.yaml, $APPDATA/famo.yaml, $HOME/famo.yaml
func Load() (Type, error) {
	path, err := getConfigPath()
	if err != nil {
		return Type{}, err
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path.
func LoadFile(path string) (Type, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Type{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return Type{
		Source: path,
		Data:   data}, nil
}

// WithNamespace returns a copy of cfg that prefers keys under ns.
func (cfg Type) WithNamespace(ns string) Type {
	cfg.Namespace = ns
	return cfg
}

// get traverses the map using a dotted key path
func (cfg Type) get(kspec string) (any, error) {
	candidateKeys := []string{kspec}
	if cfg.Namespace != "" {
		candidateKeys = []string{cfg.Namespace + "." + kspec, kspec}
	}

	for _, key := range candidateKeys {
		var current interface{} = cfg.Data

		success := true
		for _, part := range strings.Split(key, ".") {
			m, ok := current.(map[string]interface{})
			if !ok {
				success = false
				break
			}
			current, ok = m[part]
			if !ok {
				success = false
				break
			}
		}

		if success {
			return current, nil
		}
	}

	return nil, fmt.Errorf("no valid path found among: %v", candidateKeys)
}

// GetStringSlice accepts either a yaml sequence of strings or a single
// string, which becomes a one-element slice.
func (cfg Type) GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	val, err := cfg.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return nil, err
	}

	switch v := val.(type) {
	case string:
		return []string{v}, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("value at %s contains a non-string element", key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.New("value is not a list of strings")
	}
}

func getConfigPath() (string, error) {
	if p, ok := os.LookupEnv("FAMO_CFG"); ok && p != "" {
		fileInfo, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("config file not found: %s", p)
		}
		if fileInfo.IsDir() {
			return "", fmt.Errorf("FAMO_CFG points to a directory: %s", p)
		}
		return p, nil
	}

	var candidates []string = []string{
		".",
		os.Getenv("XDG_CONFIG_HOME"),
		os.Getenv("APPDATA"),
		os.Getenv("HOME"),
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		file := filepath.Join(c, FileName)
		if fileInfo, err := os.Stat(file); err == nil {
			if !fileInfo.IsDir() {
				return file, nil
			}
		}
	}
	return "", ErrNoConfig
}
