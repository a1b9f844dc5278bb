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

// Package matchengine implements the linear merge over minimizer word
// groups that turns two finalized bucket managers into scoring tables.
package matchengine

import (
	"context"
	"runtime"
	"sync"

	"github.com/matthiasblanke/appspam/internal/bucket"
	"github.com/matthiasblanke/appspam/internal/scoring"
	"github.com/matthiasblanke/appspam/internal/spacedword"
)

// Options configures one matching run.
type Options struct {
	Spaces                     int     // S, number of don't-care positions per pattern word
	FilteringThresholdMult     float64 // filtering_threshold = Spaces * this
	Workers                    int     // 0 means runtime.NumCPU()
}

// Run matches every minimizer bucket of ref against query and returns the
// merged scoring table. ref and query must already be finalized; they may
// be the same manager (used for reference-vs-reference self-matching).
func Run(ctx context.Context, ref, query *bucket.Manager, opts Options) (*scoring.Table, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	threshold := float64(opts.Spaces) * opts.FilteringThresholdMult

	minimizers := ref.Minimizers()
	jobs := make(chan uint8, len(minimizers))
	for _, m := range minimizers {
		jobs <- m
	}
	close(jobs)

	results := make(chan *scoring.Table, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := scoring.NewTable()
			for m := range jobs {
				select {
				case <-ctx.Done():
					results <- local
					return
				default:
				}
				matchBucketPair(ref.Bucket(m), query.Bucket(m), opts.Spaces, threshold, local)
			}
			results <- local
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	merged := scoring.NewTable()
	for t := range results {
		merged.Merge(t)
	}
	if err := ctx.Err(); err != nil {
		return merged, err
	}
	return merged, nil
}

// matchBucketPair performs the classic linear merge over two group
// sequences ordered by their first word's Matches value, scoring every
// pair in the Cartesian product of equal groups.
func matchBucketPair(refB, queryB *bucket.Bucket, spaces int, threshold float64, out *scoring.Table) {
	refGroups := refB.Groups()
	queryGroups := queryB.Groups()
	refWords := refB.Words()
	queryWords := queryB.Words()

	i, j := 0, 0
	for i < len(refGroups) && j < len(queryGroups) {
		rg := refGroups[i]
		qg := queryGroups[j]
		rMatches := refWords[rg.Start].Matches
		qMatches := queryWords[qg.Start].Matches

		switch {
		case rMatches < qMatches:
			i++
		case rMatches > qMatches:
			j++
		default:
			scoreGroupPair(refWords[rg.Start:rg.Start+rg.Length], queryWords[qg.Start:qg.Start+qg.Length], spaces, threshold, out)
			i++
			j++
		}
	}
}

func scoreGroupPair(refWords, queryWords []spacedword.Word, spaces int, threshold float64, out *scoring.Table) {
	for _, r := range refWords {
		for _, q := range queryWords {
			score, mismatch := scorePair(r.DontCares, q.DontCares, spaces)
			if float64(score) <= threshold {
				continue
			}
			out.Add(q.SeqID, r.SeqID, int64(score), int64(mismatch))
		}
	}
}

// scorePair walks S don't-care symbol positions in lockstep, low symbol
// first (take the low 2 bits, then shift right by 2), accumulating the
// Chiaromonte score and mismatch count.
func scorePair(rDontCares, qDontCares uint64, spaces int) (score int, mismatch int) {
	r, q := rDontCares, qDontCares
	for i := 0; i < spaces; i++ {
		rSym := r & 3
		qSym := q & 3
		score += chiaromonte[rSym][qSym]
		if rSym != qSym {
			mismatch++
		}
		r >>= 2
		q >>= 2
	}
	return score, mismatch
}
