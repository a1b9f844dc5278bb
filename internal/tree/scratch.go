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

package tree

// unset marks a scratch similarity score that no leaf or aggregation has
// touched yet.
const unset = -1.0

// Scratch holds per-read transient fields parallel to the node arena,
// replacing the per-node mutable fields of a pointer-based tree. Reused
// across reads via Reset instead of reallocating.
type Scratch struct {
	Score  []float64
	Weight []float64
}

// NewScratch allocates a Scratch sized to the tree's node count.
func (t *Tree) NewScratch() *Scratch {
	return &Scratch{
		Score:  make([]float64, len(t.nodes)),
		Weight: make([]float64, len(t.nodes)),
	}
}

// Reset fills both arrays back to the unset sentinel.
func (s *Scratch) Reset() {
	for i := range s.Score {
		s.Score[i] = unset
		s.Weight[i] = unset
	}
}

// FillLeaves sets Score/Weight for every leaf from a lookup function:
// dist returns (jcDistance, ok) and count returns (matchCount, ok) for a
// reference leaf id. Leaves missing an entry get the sentinel distance
// 10.0 and a weight of 0, matching a query with no matches to that leaf.
func (t *Tree) FillLeaves(s *Scratch, dist func(leafID int) (float64, bool), count func(leafID int) (int64, bool)) {
	for _, i := range t.leaves {
		id := t.nodes[i].ID
		if d, ok := dist(id); ok {
			s.Score[i] = d
		} else {
			s.Score[i] = 10.0
		}
		if c, ok := count(id); ok {
			s.Weight[i] = float64(c)
		} else {
			s.Weight[i] = 0
		}
	}
}

// FillInternal aggregates internal-node Score/Weight from children in DFS
// post-order, skipping already-set nodes (the leaves, set by FillLeaves).
// Score is the min over children with a set score; Weight is the sum over
// all children's weights.
func (t *Tree) FillInternal(s *Scratch) {
	for _, i := range t.postOrder {
		if s.Score[i] != unset {
			continue // leaf, already set
		}
		n := t.nodes[i]
		minScore := unset
		sumWeight := 0.0
		for _, c := range n.Children {
			if s.Score[c] != unset && (minScore == unset || s.Score[c] < minScore) {
				minScore = s.Score[c]
			}
			sumWeight += s.Weight[c]
		}
		s.Score[i] = minScore
		s.Weight[i] = sumWeight
	}
}
