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

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matthiasblanke/appspam/internal/bucket"
	appconfig "github.com/matthiasblanke/appspam/internal/config"
	"github.com/matthiasblanke/appspam/internal/indexer"
	"github.com/matthiasblanke/appspam/internal/pattern"
)

// resolveConfig loads the TOML config (explicit --config, else
// ~/.appspam/config.toml if present, else built-in defaults) and layers
// any explicitly-set CLI flags on top, flags winning: a flag left at its
// zero value never clobbers a loaded config value.
func resolveConfig(cmd *cobra.Command) appconfig.Config {
	path := getFlagString(cmd, "config")
	if path == "" {
		if p, err := appconfig.DefaultPath(); err == nil {
			path = p
		}
	}
	cfg, err := appconfig.Load(path)
	checkError(err)

	applyIntFlag(cmd, "weight", &cfg.Weight)
	applyIntFlag(cmd, "spaces", &cfg.DontCare)
	applyStringFlag(cmd, "assignment-mode", &cfg.AssignmentMode)
	applyFloat64Flag(cmd, "dominance-x", &cfg.DominanceX)
	applyFloat64Flag(cmd, "filtering-threshold-mult", &cfg.FilteringThresholdMultiplicator)
	applyBoolFlag(cmd, "sampling", &cfg.Sampling)
	applyUint32Flag(cmd, "min-hash-lower-limit", &cfg.MinHashLowerLimit)
	applyIntFlag(cmd, "read-block-size", &cfg.ReadBlockSize)
	applyFloat64Flag(cmd, "default-distance", &cfg.DefaultDistance)
	applyFloat64Flag(cmd, "default-pendant", &cfg.DefaultPendant)

	if cmd.Flags().Changed("threads") || cfg.Threads == 0 {
		cfg.Threads = getFlagNonNegativeInt(cmd, "threads")
	}
	return cfg
}

func applyIntFlag(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst = getFlagInt(cmd, name)
	}
}

func applyFloat64Flag(cmd *cobra.Command, name string, dst *float64) {
	if cmd.Flags().Changed(name) {
		*dst = getFlagFloat64(cmd, name)
	}
}

func applyBoolFlag(cmd *cobra.Command, name string, dst *bool) {
	if cmd.Flags().Changed(name) {
		*dst = getFlagBool(cmd, name)
	}
}

func applyStringFlag(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst = getFlagString(cmd, name)
	}
}

func applyUint32Flag(cmd *cobra.Command, name string, dst *uint32) {
	if cmd.Flags().Changed(name) {
		*dst = getFlagUint32(cmd, name)
	}
}

// addConfigFlags registers every config-overriding flag shared by
// index/place/dist/histogram.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().Int("weight", 0, "pattern weight W (overrides config)")
	cmd.Flags().Int("spaces", 0, "pattern spaces S (overrides config)")
	cmd.Flags().String("assignment-mode", "", "BEST_COUNT|BEST_DISTANCE|LCA_COUNT|LCA_DISTANCE|LCA_DOMINANT")
	cmd.Flags().Float64("dominance-x", 0, "dominance threshold x for LCA_DOMINANT")
	cmd.Flags().Float64("filtering-threshold-mult", 0, "filtering_threshold = spaces * this")
	cmd.Flags().Bool("sampling", false, "enable CRC32 min-hash sampling")
	cmd.Flags().Uint32("min-hash-lower-limit", 0, "CRC32 upper-exclusive bound kept under sampling")
	cmd.Flags().Int("read-block-size", 0, "partition queries into blocks of this size (0 = one block)")
	cmd.Flags().Float64("default-distance", 0, "distance assigned on zero matches or JC saturation")
	cmd.Flags().Float64("default-pendant", 0, "pendant length assigned to LCA-based and root placements")
}

// indexReferences runs Stage A over refs with per-sequence warnings logged
// (not fatal), returning the finalized bucket manager.
func indexReferences(ctx context.Context, refs []indexer.Sequence, patterns []pattern.Pattern, cfg appconfig.Config, verbose bool) (*bucket.Manager, error) {
	return indexSequences(ctx, refs, patterns, cfg, false, verbose)
}

// indexQueries is indexReferences' query-side counterpart; the only
// difference is the IsQuery label on the resulting bucket manager.
func indexQueries(ctx context.Context, queries []indexer.Sequence, patterns []pattern.Pattern, cfg appconfig.Config, verbose bool) (*bucket.Manager, error) {
	return indexSequences(ctx, queries, patterns, cfg, true, verbose)
}

func indexSequences(ctx context.Context, seqs []indexer.Sequence, patterns []pattern.Pattern, cfg appconfig.Config, isQuery bool, verbose bool) (*bucket.Manager, error) {
	label := "indexing references: "
	if isQuery {
		label = "indexing queries: "
	}
	pbs, incr := newProgressBar(len(seqs), label, verbose)

	manager, err := indexer.Index(ctx, seqs, indexer.Options{
		Patterns:          patterns,
		Sampling:          cfg.Sampling,
		MinHashUpperLimit: cfg.MinHashLowerLimit,
		Workers:           cfg.Threads,
		Progress:          incr,
	}, isQuery, warnFunc(verbose))

	if pbs != nil {
		pbs.Wait()
	}
	return manager, err
}

func warnFunc(verbose bool) indexer.WarnFunc {
	if !verbose {
		return nil
	}
	return func(id uint32, name string, err error) {
		log.Warningf("sequence %d (%s): %s", id, name, err)
	}
}
