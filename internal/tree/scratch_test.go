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

import "testing"

// TestScratchFillLeavesAndInternal exercises spec §4.7's fill_min_score /
// fill_sum_count operations directly: leaf Score/Weight come from the
// supplied lookups (or the sentinels for a missing entry), and internal
// nodes aggregate min-score / sum-weight from their children in DFS
// post-order. The five placement policies compute straight off
// refLeafStats and never call these, the same way the original's
// get_LCA_best_count/get_LCA_best_score skip the internal fills -- this
// test is what keeps the fill operations themselves correct and reachable.
func TestScratchFillLeavesAndInternal(t *testing.T) {
	tr := buildS4Tree(t)
	s := tr.NewScratch()
	s.Reset()

	for i := range s.Score {
		if s.Score[i] != unset || s.Weight[i] != unset {
			t.Fatalf("node %d not reset to sentinel: score=%v weight=%v", i, s.Score[i], s.Weight[i])
		}
	}

	dist := map[int]float64{1: 0.2, 2: 0.8} // A, B have entries; C, D don't
	count := map[int]int64{1: 10, 2: 1}

	tr.FillLeaves(s,
		func(leafID int) (float64, bool) { d, ok := dist[leafID]; return d, ok },
		func(leafID int) (int64, bool) { c, ok := count[leafID]; return c, ok },
	)

	aIdx, _ := tr.FindNode(1)
	bIdx, _ := tr.FindNode(2)
	cIdx, _ := tr.FindNode(3)
	dIdx, _ := tr.FindNode(4)

	if s.Score[aIdx] != 0.2 || s.Weight[aIdx] != 10 {
		t.Fatalf("leaf A = score %v weight %v, want 0.2/10", s.Score[aIdx], s.Weight[aIdx])
	}
	if s.Score[bIdx] != 0.8 || s.Weight[bIdx] != 1 {
		t.Fatalf("leaf B = score %v weight %v, want 0.8/1", s.Score[bIdx], s.Weight[bIdx])
	}
	// C, D have no entry: sentinel distance 10.0, weight 0.
	if s.Score[cIdx] != 10.0 || s.Weight[cIdx] != 0 {
		t.Fatalf("leaf C = score %v weight %v, want 10.0/0 (no entry)", s.Score[cIdx], s.Weight[cIdx])
	}
	if s.Score[dIdx] != 10.0 || s.Weight[dIdx] != 0 {
		t.Fatalf("leaf D = score %v weight %v, want 10.0/0 (no entry)", s.Score[dIdx], s.Weight[dIdx])
	}

	tr.FillInternal(s)

	internal0, _ := tr.FindNode(100) // parent of A, B
	internal1, _ := tr.FindNode(101) // parent of C, D
	root := tr.Root()

	if s.Score[internal0] != 0.2 {
		t.Fatalf("internal_0 score = %v, want min(0.2,0.8)=0.2", s.Score[internal0])
	}
	if s.Weight[internal0] != 11 {
		t.Fatalf("internal_0 weight = %v, want 10+1=11", s.Weight[internal0])
	}
	if s.Score[internal1] != 10.0 {
		t.Fatalf("internal_1 score = %v, want min(10.0,10.0)=10.0", s.Score[internal1])
	}
	if s.Weight[internal1] != 0 {
		t.Fatalf("internal_1 weight = %v, want 0+0=0", s.Weight[internal1])
	}
	if s.Score[root] != 0.2 {
		t.Fatalf("root score = %v, want min(internal_0,internal_1)=0.2", s.Score[root])
	}
	if s.Weight[root] != 11 {
		t.Fatalf("root weight = %v, want 11+0=11", s.Weight[root])
	}
}
