// Copyright © 2024 Matthias Blanke <matthiasblanke@appspam.dev>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package config loads and saves the tunable knobs of the placement
// pipeline as a TOML document.
package config

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/matthiasblanke/appspam/internal/tree"
)

// Config holds every knob enumerated as configurable. Field names match
// the TOML keys directly (lower_snake_case via the `toml` tag) so the file
// format is self-documenting.
type Config struct {
	Weight   int `toml:"weight"`
	DontCare int `toml:"dont_care"`

	AssignmentMode string  `toml:"assignment_mode"`
	DominanceX     float64 `toml:"dominance_x"`

	NumPatterns int      `toml:"num_patterns"`
	Patterns    []string `toml:"patterns"`

	FilteringThresholdMultiplicator float64 `toml:"filtering_threshold_multiplicator"`

	Sampling          bool   `toml:"sampling"`
	MinHashLowerLimit uint32 `toml:"min_hash_lower_limit"`

	ReadBlockSize int `toml:"read_block_size"`

	DefaultDistance float64 `toml:"default_distance"`
	DefaultPendant  float64 `toml:"default_pendant"`

	Threads int `toml:"threads"`
}

// Default returns the built-in default knob values.
func Default() Config {
	return Config{
		Weight:                          12,
		DontCare:                        32,
		AssignmentMode:                  "BEST_COUNT",
		DominanceX:                      1,
		NumPatterns:                     1,
		FilteringThresholdMultiplicator: 0,
		Sampling:                        false,
		MinHashLowerLimit:               ^uint32(0),
		ReadBlockSize:                   0,
		DefaultDistance:                 10,
		DefaultPendant:                  0.01,
		Threads:                         0, // 0 means runtime.NumCPU(), resolved by the CLI
	}
}

// DefaultPath returns ~/.appspam/config.toml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "config: resolve home directory")
	}
	return filepath.Join(home, ".appspam", "config.toml"), nil
}

// Load reads and parses a TOML config file. A missing file is not an
// error: Default() is returned as-is so callers can layer CLI flags on
// top unconditionally.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "config: read %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: parse %s", path)
	}
	return cfg, nil
}

// Save serializes cfg to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "config: create directory for %s", path)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "config: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "config: write %s", path)
	}
	return nil
}

// Policy resolves the configured assignment_mode/dominance_x into a
// tree.Policy, the type the placement driver actually consumes.
func (c Config) Policy() (tree.Policy, error) {
	kind, err := tree.ParsePolicyKind(c.AssignmentMode)
	if err != nil {
		return tree.Policy{}, err
	}
	return tree.Policy{Kind: kind, DominanceX: c.DominanceX}, nil
}
