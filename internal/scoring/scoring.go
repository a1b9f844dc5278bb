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

// Package scoring holds the sparse per-(query,reference) accumulators
// produced by matching and the Jukes-Cantor distance correction.
package scoring

import "math"

// Key identifies one (query, reference) pair.
type Key struct {
	Query     uint32
	Reference uint32
}

// Entry accumulates statistics for one Key across every accepted match.
type Entry struct {
	ScoreSum    int64
	MismatchSum int64
	MatchCount  int64
	Distance    float64
	distanceSet bool
}

// Table is the sparse (query,reference)-keyed accumulator set built by a
// single matching pass. Not safe for concurrent use, even for distinct
// keys: each goroutine writes its own Table and the tables are combined
// with Merge.
type Table struct {
	entries map[Key]*Entry
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[Key]*Entry)}
}

// Add records one accepted match's score and mismatch contribution for the
// (query, reference) pair, creating the entry if absent.
func (t *Table) Add(query, reference uint32, score int64, mismatch int64) {
	k := Key{Query: query, Reference: reference}
	e := t.entries[k]
	if e == nil {
		e = &Entry{}
		t.entries[k] = e
	}
	e.ScoreSum += score
	e.MismatchSum += mismatch
	e.MatchCount++
}

// Get returns the entry for a key and whether it exists.
func (t *Table) Get(query, reference uint32) (Entry, bool) {
	e, ok := t.entries[Key{Query: query, Reference: reference}]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Keys returns every populated key. Order is unspecified.
func (t *Table) Keys() []Key {
	out := make([]Key, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	return out
}

// Merge absorbs another table's entries into t, summing accumulators for
// shared keys. Used to combine per-worker deltas from Stage B matching.
func (t *Table) Merge(other *Table) {
	for k, oe := range other.entries {
		e := t.entries[k]
		if e == nil {
			cp := *oe
			t.entries[k] = &cp
			continue
		}
		e.ScoreSum += oe.ScoreSum
		e.MismatchSum += oe.MismatchSum
		e.MatchCount += oe.MatchCount
	}
}

// jcSaturationThreshold is the substitution-frequency domain boundary of
// the Jukes-Cantor transform: at or above this, -0.75*ln(1-4/3*p) is
// undefined or blows up, so distance saturates instead.
const jcSaturationThreshold = 0.75

// CorrectAll applies the Jukes-Cantor correction to every entry in place.
// defaultDistance is used both when match_count is zero and when the
// substitution frequency saturates the JC domain.
func (t *Table) CorrectAll(spaces int, defaultDistance float64) {
	for _, e := range t.entries {
		e.Distance = jcDistance(e.MatchCount, e.MismatchSum, spaces, defaultDistance)
		e.distanceSet = true
	}
}

func jcDistance(matchCount, mismatchSum int64, spaces int, defaultDistance float64) float64 {
	if matchCount == 0 {
		return defaultDistance
	}
	substFreq := float64(mismatchSum) / (float64(matchCount) * float64(spaces))
	if substFreq >= jcSaturationThreshold {
		return defaultDistance
	}
	return -0.75 * math.Log(1-(4.0/3.0)*substFreq)
}

// DistanceFor returns the JC distance for a (query, reference) pair if
// present and already corrected, plus whether an entry exists at all.
func (t *Table) DistanceFor(query, reference uint32) (float64, bool) {
	e, ok := t.entries[Key{Query: query, Reference: reference}]
	if !ok {
		return 0, false
	}
	return e.Distance, e.distanceSet
}
