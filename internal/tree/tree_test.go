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

import (
	"testing"

	"github.com/matthiasblanke/appspam/internal/scoring"
)

// buildS4Tree builds "((A:1,B:1):1,(C:1,D:1):1);" with leaf ids 1..4,
// internal ids 100/101, root id 102.
func buildS4Tree(t *testing.T) *Tree {
	t.Helper()
	nodes := []Node{
		{Name: "root", ID: 102, Parent: NoParent, Children: []int{1, 4}, Distance: 0},
		{Name: "internal_0", ID: 100, Parent: 0, Children: []int{2, 3}, Distance: 1},
		{Name: "A", ID: 1, Parent: 1, Distance: 1},
		{Name: "B", ID: 2, Parent: 1, Distance: 1},
		{Name: "internal_1", ID: 101, Parent: 0, Children: []int{5, 6}, Distance: 1},
		{Name: "C", ID: 3, Parent: 4, Distance: 1},
		{Name: "D", ID: 4, Parent: 4, Distance: 1},
	}
	tr, err := New(nodes, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr
}

func TestLeafAndOrderingInvariants(t *testing.T) {
	tr := buildS4Tree(t)
	if len(tr.Leaves()) != 4 {
		t.Fatalf("got %d leaves, want 4", len(tr.Leaves()))
	}
	if len(tr.PostOrder()) != 7 || len(tr.PreOrder()) != 7 {
		t.Fatalf("orderings incomplete: post=%d pre=%d", len(tr.PostOrder()), len(tr.PreOrder()))
	}
	// post-order: root must be last.
	post := tr.PostOrder()
	if post[len(post)-1] != tr.Root() {
		t.Fatal("root must be last in post-order")
	}
	// pre-order: root must be first.
	if tr.PreOrder()[0] != tr.Root() {
		t.Fatal("root must be first in pre-order")
	}
}

func TestAncestorReflexivityAndRoot(t *testing.T) {
	tr := buildS4Tree(t)
	for i := 0; i < tr.NumNodes(); i++ {
		if !tr.IsAncestor(i, i) {
			t.Fatalf("IsAncestor(%d,%d) should be true (reflexive)", i, i)
		}
		if !tr.IsAncestor(i, tr.Root()) {
			t.Fatalf("IsAncestor(%d, root) should be true", i)
		}
	}
}

func TestLCAIdempotence(t *testing.T) {
	tr := buildS4Tree(t)
	aIdx, _ := tr.FindNode(1)
	bIdx, _ := tr.FindNode(2)
	cIdx, _ := tr.FindNode(3)

	if tr.LCA([]int{aIdx}) != aIdx {
		t.Fatal("lca({x}) != x")
	}
	if tr.LCA([]int{aIdx, aIdx, aIdx}) != aIdx {
		t.Fatal("lca({x,x,...}) != x")
	}

	ab := tr.LCA([]int{aIdx, bIdx})
	abc := tr.LCA([]int{aIdx, bIdx, cIdx})
	abThenC := tr.LCA([]int{ab, cIdx})
	if abc != abThenC {
		t.Fatalf("lca(A∪B) != lca(lca(A),lca(B)): %d vs %d", abc, abThenC)
	}
}

func TestEdgeIDDeterminism(t *testing.T) {
	tr1 := buildS4Tree(t)
	tr2 := buildS4Tree(t)
	for id := 0; id < 103; id++ {
		i1, ok1 := tr1.FindNode(id)
		i2, ok2 := tr2.FindNode(id)
		if ok1 != ok2 {
			t.Fatalf("presence mismatch for id %d", id)
		}
		if ok1 && tr1.Node(i1).EdgeID != tr2.Node(i2).EdgeID {
			t.Fatalf("edge id mismatch for id %d: %d vs %d", id, tr1.Node(i1).EdgeID, tr2.Node(i2).EdgeID)
		}
	}
}

func TestS4LCACountPlacement(t *testing.T) {
	tr := buildS4Tree(t)
	table := scoring.NewTable()
	for i := 0; i < 10; i++ {
		table.Add(9, 1, 0, 0) // A: match_count 10
	}
	table.Add(9, 2, 0, 0) // B: match_count 1

	p := tr.Place(Policy{Kind: LCACount}, 9, table, 0.1)
	wantIdx, _ := tr.FindNode(100) // internal_0, LCA of A and B
	if p.NodeIndex != wantIdx {
		t.Fatalf("placed at node %d, want %d (internal_0)", p.NodeIndex, wantIdx)
	}
	if p.Distal != 0.5 {
		t.Fatalf("distal = %v, want 0.5", p.Distal)
	}
	if p.Pendant != 0.1 {
		t.Fatalf("pendant = %v, want 0.1", p.Pendant)
	}
}

func TestS5LCADominantPlacement(t *testing.T) {
	tr := buildS4Tree(t)
	table := scoring.NewTable()
	for i := 0; i < 10; i++ {
		table.Add(9, 1, 0, 0)
	}
	table.Add(9, 2, 0, 0)

	p := tr.Place(Policy{Kind: LCADominant, DominanceX: 4}, 9, table, 0.1)
	wantIdx, _ := tr.FindNode(1) // leaf A
	if p.NodeIndex != wantIdx {
		t.Fatalf("placed at node %d, want leaf A (%d)", p.NodeIndex, wantIdx)
	}
}

func TestS6NoMatchesPlacesAtRoot(t *testing.T) {
	tr := buildS4Tree(t)
	table := scoring.NewTable()
	p := tr.Place(Policy{Kind: BestCount}, 9, table, 0.25)
	if p.NodeIndex != tr.Root() {
		t.Fatalf("placed at node %d, want root %d", p.NodeIndex, tr.Root())
	}
	if p.Pendant != 0.25 {
		t.Fatalf("pendant = %v, want 0.25", p.Pendant)
	}
}

func TestBestCountTieBrokenByIterationOrder(t *testing.T) {
	tr := buildS4Tree(t)
	table := scoring.NewTable()
	table.Add(9, 1, 0, 0) // A: count 1
	table.Add(9, 2, 0, 0) // B: count 1

	p := tr.Place(Policy{Kind: BestCount}, 9, table, 0.1)
	wantIdx, _ := tr.FindNode(1) // first leaf in iteration order wins the tie
	if p.NodeIndex != wantIdx {
		t.Fatalf("placed at %d, want tie-break winner %d", p.NodeIndex, wantIdx)
	}
}
