// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package envconf

import (
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
)

// Environment is an immutable snapshot of KEY=VALUE pairs. Constructors
// copy their inputs, so a snapshot never changes after it is taken, no
// matter what happens to the process environment afterwards.
type Environment struct {
	vars map[string]string
}

// NewOSEnvironment snapshots the process environment.
func NewOSEnvironment() Environment {
	return NewPairsEnvironment(os.Environ())
}

// NewMapEnvironment copies m into a snapshot.
func NewMapEnvironment(m map[string]string) Environment {
	vars := make(map[string]string, len(m))
	for k, v := range m {
		vars[k] = v
	}
	return Environment{vars: vars}
}

// NewPairsEnvironment parses KEY=VALUE pairs, as produced by os.Environ or
// read from an env file. Later pairs win. Entries without a key or an
// equals sign are skipped.
func NewPairsEnvironment(pairs []string) Environment {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	return Environment{vars: vars}
}

// MergeEnvironments layers snapshots left to right, later values overriding
// earlier ones. Empty values never override, matching the loader's rule
// that an empty variable counts as unset.
func MergeEnvironments(envs ...Environment) (Environment, error) {
	merged := make(map[string]string)
	for _, e := range envs {
		if e.Len() == 0 {
			continue
		}
		layer := make(map[string]string, e.Len())
		for k, v := range e.vars {
			if v == "" {
				continue
			}
			layer[k] = v
		}
		if err := mergo.Merge(&merged, layer, mergo.WithOverride); err != nil {
			return Environment{}, fmt.Errorf("could not merge environments, err=%w", err)
		}
	}
	return Environment{vars: merged}, nil
}

// Lookup reports the raw value of name and whether the snapshot contains
// it at all. An empty value still counts as present here; the loader is
// what decides that empty means unset.
func (e Environment) Lookup(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Len reports the number of variables in the snapshot.
func (e Environment) Len() int {
	return len(e.vars)
}
