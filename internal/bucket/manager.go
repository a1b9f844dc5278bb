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

package bucket

import "github.com/matthiasblanke/appspam/internal/spacedword"

// Manager holds a fixed-size array of 16 buckets, one per minimizer value.
// IsQuery records whether this manager stores query words or reference
// words -- purely a labeling flag for downstream reports.
type Manager struct {
	buckets    [spacedword.NumBuckets]*Bucket
	minimizers []uint8 // deterministic traversal order: 0..15
	IsQuery    bool
	finalized  bool
}

// NewManager creates a BucketManager with all 16 buckets pre-allocated.
func NewManager(isQuery bool) *Manager {
	m := &Manager{
		minimizers: make([]uint8, spacedword.NumBuckets),
		IsQuery:    isQuery,
	}
	for i := 0; i < spacedword.NumBuckets; i++ {
		m.buckets[i] = New(uint8(i))
		m.minimizers[i] = uint8(i)
	}
	return m
}

// Insert routes a word to its minimizer's bucket. Program error (panic) if
// called after Finalize.
func (m *Manager) Insert(w spacedword.Word) {
	m.buckets[w.Minimizer].Add(w)
}

// Finalize finalizes every bucket (sort + group), in minimizer order.
func (m *Manager) Finalize() {
	if m.finalized {
		return
	}
	for _, b := range m.buckets {
		b.Finalize()
	}
	m.finalized = true
}

// Finalized reports whether Finalize has run.
func (m *Manager) Finalized() bool { return m.finalized }

// Minimizers returns the ordered list of minimizer values (0..15).
func (m *Manager) Minimizers() []uint8 { return m.minimizers }

// Bucket returns the bucket for a given minimizer value.
func (m *Manager) Bucket(minimizer uint8) *Bucket { return m.buckets[minimizer] }

// Merge absorbs the words of another (pre-finalize) Manager into this one.
// Used to combine per-worker shards built during parallel indexing before a
// single Finalize call.
func (m *Manager) Merge(other *Manager) {
	if m.finalized || other.finalized {
		panic("bucket: merge after finalize")
	}
	for i := 0; i < spacedword.NumBuckets; i++ {
		m.buckets[i].words = append(m.buckets[i].words, other.buckets[i].words...)
	}
}

// TotalWords returns the total number of words across all buckets, mostly
// for logging/diagnostics.
func (m *Manager) TotalWords() int {
	n := 0
	for _, b := range m.buckets {
		n += b.Len()
	}
	return n
}
