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

// Package placement implements the orchestration sequence that turns
// patterns, reference sequences, a tree, and query sequences into
// placement records: index references, index (optionally blocked)
// queries, match, correct, and place each query against the tree.
package placement

import (
	"context"

	"github.com/matthiasblanke/appspam/internal/bucket"
	"github.com/matthiasblanke/appspam/internal/indexer"
	"github.com/matthiasblanke/appspam/internal/matchengine"
	"github.com/matthiasblanke/appspam/internal/pattern"
	"github.com/matthiasblanke/appspam/internal/tree"
)

// Config collects every tunable knob the driver needs.
type Config struct {
	Patterns               []pattern.Pattern
	Sampling               bool
	MinHashUpperLimit      uint32
	FilteringThresholdMult float64
	DefaultDistance        float64
	DefaultPendant         float64
	Policy                 tree.Policy
	ReadBlockSize          int // 0 or negative means index+match all queries as one block
	Workers                int
}

// spaces returns the don't-care count shared by every active pattern. The
// configuration knob is singular (dont_care S); patterns are expected to
// agree, and the first pattern's value is used if they somehow don't.
func (c Config) spaces() int {
	if len(c.Patterns) == 0 {
		return 0
	}
	return c.Patterns[0].Spaces()
}

// Driver runs the pipeline against a fixed reference tree.
type Driver struct {
	Config Config
	Tree   *tree.Tree
}

// NewDriver builds a driver bound to a parsed reference tree.
func NewDriver(cfg Config, t *tree.Tree) *Driver {
	return &Driver{Config: cfg, Tree: t}
}

// Result is one query's placement outcome.
type Result struct {
	QueryID   uint32
	QueryName string
	Placement tree.Placement
}

// IndexReferences builds and finalizes the reference bucket manager.
func (d *Driver) IndexReferences(ctx context.Context, refs []indexer.Sequence, warn indexer.WarnFunc) (*bucket.Manager, error) {
	return indexer.Index(ctx, refs, indexer.Options{
		Patterns:          d.Config.Patterns,
		Sampling:          d.Config.Sampling,
		MinHashUpperLimit: d.Config.MinHashUpperLimit,
		Workers:           d.Config.Workers,
	}, false, warn)
}

// PlaceQueries indexes queries (optionally partitioned into
// ReadBlockSize-sized blocks), matches each block against refManager,
// applies the Jukes-Cantor correction, and places every query onto the
// tree. Block partitioning is a resource-usage knob only: results are
// identical regardless of block size.
func (d *Driver) PlaceQueries(ctx context.Context, refManager *bucket.Manager, queries []indexer.Sequence, warn indexer.WarnFunc) ([]Result, error) {
	var results []Result
	for _, block := range d.blocks(queries) {
		queryManager, err := indexer.Index(ctx, block, indexer.Options{
			Patterns:          d.Config.Patterns,
			Sampling:          d.Config.Sampling,
			MinHashUpperLimit: d.Config.MinHashUpperLimit,
			Workers:           d.Config.Workers,
		}, true, warn)
		if err != nil {
			return results, err
		}

		table, err := matchengine.Run(ctx, refManager, queryManager, matchengine.Options{
			Spaces:                 d.Config.spaces(),
			FilteringThresholdMult: d.Config.FilteringThresholdMult,
			Workers:                d.Config.Workers,
		})
		if err != nil {
			return results, err
		}
		table.CorrectAll(d.Config.spaces(), d.Config.DefaultDistance)

		for _, q := range block {
			p := d.Tree.Place(d.Config.Policy, q.ID, table, d.Config.DefaultPendant)
			results = append(results, Result{QueryID: q.ID, QueryName: q.Name, Placement: p})
		}

		if err := ctx.Err(); err != nil {
			return results, err
		}
	}
	return results, nil
}

func (d *Driver) blocks(queries []indexer.Sequence) [][]indexer.Sequence {
	size := d.Config.ReadBlockSize
	if size <= 0 || size >= len(queries) {
		return [][]indexer.Sequence{queries}
	}
	var out [][]indexer.Sequence
	for i := 0; i < len(queries); i += size {
		end := i + size
		if end > len(queries) {
			end = len(queries)
		}
		out = append(out, queries[i:end])
	}
	return out
}

// ToJplaceEntry converts one placement into the jplace per-edge tuple
// [edge_num, distal_length, pendant_length, like_weight_ratio, likelihood].
func ToJplaceEntry(p tree.Placement) [5]float64 {
	return [5]float64{float64(p.EdgeID), p.Distal, p.Pendant, 1, 1}
}

// ScoringSpaces exposes the don't-care count a Config's pattern set
// implies, so callers outside this package never need to recompute it.
func ScoringSpaces(cfg Config) int { return cfg.spaces() }
