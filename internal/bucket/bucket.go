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

// Package bucket implements per-minimizer containers of spaced words.
package bucket

import (
	"github.com/twotwotwo/sorts"

	"github.com/matthiasblanke/appspam/internal/spacedword"
)

// Group is a maximal run of words in a finalized bucket sharing an
// identical Matches value.
type Group struct {
	Start  int
	Length int
}

// Bucket holds every spaced word routed to one minimizer value. It is
// mutable during indexing and read-only after Finalize.
type Bucket struct {
	Minimizer uint8
	words     []spacedword.Word
	groups    []Group
	finalized bool
}

// New creates an empty bucket for the given minimizer.
func New(minimizer uint8) *Bucket {
	return &Bucket{Minimizer: minimizer, words: make([]spacedword.Word, 0, 64)}
}

// Add inserts a word into the bucket. Panics if called after Finalize:
// inserting into a finalized bucket is a program error.
func (b *Bucket) Add(w spacedword.Word) {
	if b.finalized {
		panic("bucket: insert after finalize")
	}
	b.words = append(b.words, w)
}

// Len returns the number of words currently held.
func (b *Bucket) Len() int { return len(b.words) }

// byMatches implements sort.Interface so github.com/twotwotwo/sorts can
// parallel-sort words ascending by their packed Matches field.
type byMatches []spacedword.Word

func (s byMatches) Len() int           { return len(s) }
func (s byMatches) Less(i, j int) bool { return s[i].Matches < s[j].Matches }
func (s byMatches) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Finalize sorts the word vector ascending by Matches and then groups
// maximal equal-Matches runs into the word-group index, strictly in that
// order. Calling it again after the first time is a no-op.
func (b *Bucket) Finalize() {
	if b.finalized {
		return
	}
	if len(b.words) > 1 {
		sorts.Quicksort(byMatches(b.words))
	}
	b.groups = b.groups[:0]
	n := len(b.words)
	for i := 0; i < n; {
		j := i + 1
		for j < n && b.words[j].Matches == b.words[i].Matches {
			j++
		}
		b.groups = append(b.groups, Group{Start: i, Length: j - i})
		i = j
	}
	b.finalized = true
}

// Finalized reports whether Finalize has run.
func (b *Bucket) Finalized() bool { return b.finalized }

// Words returns the (post-Finalize, sorted) word slice. Callers must not
// mutate it.
func (b *Bucket) Words() []spacedword.Word { return b.words }

// Groups returns the word-group index in ascending Matches order. Callers
// must not mutate it.
func (b *Bucket) Groups() []Group { return b.groups }
