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

// Package indexer drives spaced-word extraction for a batch of sequences
// into a bucket manager, optionally sharding the work across a worker pool
// per CPU and merging the shards at finalize.
package indexer

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/matthiasblanke/appspam/internal/bucket"
	"github.com/matthiasblanke/appspam/internal/pattern"
	"github.com/matthiasblanke/appspam/internal/spacedword"
)

// ErrSequenceTooShort marks a sequence whose decoded length is shorter
// than every active pattern's length: a warning, not a fatal condition.
var ErrSequenceTooShort = errors.New("indexer: sequence shorter than every pattern")

// Sequence is one input record to index.
type Sequence struct {
	ID  uint32
	Name string
	Raw  []byte
}

// Options configures one indexing pass.
type Options struct {
	Patterns          []pattern.Pattern
	Sampling          bool
	MinHashUpperLimit uint32
	Workers           int // 0 means runtime.NumCPU()

	// Progress, if set, is called once per sequence after extraction
	// completes, from whichever worker goroutine handled it. Safe to set
	// to a progress-bar increment since bar.Increment is itself
	// safe for concurrent callers.
	Progress func()
}

// WarnFunc receives non-fatal per-sequence warnings.
type WarnFunc func(id uint32, name string, err error)

// Index decodes and extracts spaced words for every sequence, routing them
// into a freshly built, finalized bucket.Manager tagged with isQuery.
// Sequences are processed by a bounded worker pool, one bucket.Manager
// shard per worker, merged before the returned manager's Finalize.
func Index(ctx context.Context, sequences []Sequence, opts Options, isQuery bool, warn WarnFunc) (*bucket.Manager, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(sequences) && len(sequences) > 0 {
		workers = len(sequences)
	}
	if workers < 1 {
		workers = 1
	}

	minLen := minPatternLength(opts.Patterns)

	jobs := make(chan Sequence, len(sequences))
	for _, s := range sequences {
		jobs <- s
	}
	close(jobs)

	shards := make([]*bucket.Manager, workers)
	var wg sync.WaitGroup
	var cancelled bool
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		shard := bucket.NewManager(isQuery)
		shards[w] = shard
		wg.Add(1)
		go func(shard *bucket.Manager) {
			defer wg.Done()
			ex := spacedword.NewExtractor(opts.Patterns, opts.Sampling, opts.MinHashUpperLimit)
			for s := range jobs {
				select {
				case <-ctx.Done():
					mu.Lock()
					cancelled = true
					mu.Unlock()
					return
				default:
				}
				syms := spacedword.Decode(s.Raw)
				if len(syms) == 0 || len(syms) < minLen {
					if warn != nil {
						warn(s.ID, s.Name, ErrSequenceTooShort)
					}
					if opts.Progress != nil {
						opts.Progress()
					}
					continue
				}
				ex.ExtractSequence(s.ID, syms, func(w spacedword.Word) { shard.Insert(w) })
				if opts.Progress != nil {
					opts.Progress()
				}
			}
		}(shard)
	}
	wg.Wait()

	merged := shards[0]
	for _, s := range shards[1:] {
		merged.Merge(s)
	}
	merged.Finalize()

	if cancelled {
		return merged, ctx.Err()
	}
	return merged, nil
}

func minPatternLength(patterns []pattern.Pattern) int {
	if len(patterns) == 0 {
		return 0
	}
	min := patterns[0].Length()
	for _, p := range patterns[1:] {
		if p.Length() < min {
			min = p.Length()
		}
	}
	return min
}
