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

// Package tree implements a rooted phylogenetic tree as an arena of nodes
// addressed by slice index, with DFS/BFS/leaf orderings, ancestor and LCA
// queries, and the placement-policy decision procedure.
package tree

import "github.com/pkg/errors"

// NoParent marks the root's Parent field.
const NoParent = -1

// Node is one tree node. Index into Tree.nodes is its arena address;
// Parent and Children reference other nodes by that same index, never by
// pointer.
type Node struct {
	Name     string
	ID       int // leaves reuse the reference sequence id; internal nodes mint new ids
	Parent   int // NoParent only at the root
	Children []int
	Distance float64 // branch length from Parent to this node
	EdgeID   int      // assigned by New, DFS post-order starting at 0
}

// IsLeaf reports whether a node has no children.
func (n Node) IsLeaf() bool { return len(n.Children) == 0 }

// Tree is the arena: nodes live in one slice, root is an index into it.
type Tree struct {
	nodes     []Node
	root      int
	postOrder []int // DFS post-order (children fully visited before parent)
	preOrder  []int // BFS level order, root first
	leaves    []int // leaf node indices in postOrder's relative order
	idIndex   map[int]int
	edgeIndex map[int]int // edge id -> node index
}

// New builds a Tree from a node slice and root index, validating the
// single-parent/root invariants and materializing the traversal orderings
// and DFS post-order edge ids. nodes[i].Parent/Children must already be
// consistent (set by the caller, typically internal/newick).
func New(nodes []Node, root int) (*Tree, error) {
	if root < 0 || root >= len(nodes) {
		return nil, errors.Errorf("tree: root index %d out of range [0,%d)", root, len(nodes))
	}
	t := &Tree{nodes: nodes, root: root, idIndex: make(map[int]int, len(nodes))}
	for i, n := range nodes {
		if i == root {
			if n.Parent != NoParent {
				return nil, errors.New("tree: root node has a parent")
			}
		} else if n.Parent == NoParent {
			return nil, errors.Errorf("tree: non-root node %d has no parent", i)
		}
		if _, dup := t.idIndex[n.ID]; dup {
			return nil, errors.Errorf("tree: duplicate node id %d", n.ID)
		}
		t.idIndex[n.ID] = i
	}
	t.buildOrderings()
	t.assignEdgeIDs()
	return t, nil
}

func (t *Tree) buildOrderings() {
	t.postOrder = make([]int, 0, len(t.nodes))
	var visit func(i int)
	visit = func(i int) {
		for _, c := range t.nodes[i].Children {
			visit(c)
		}
		t.postOrder = append(t.postOrder, i)
	}
	visit(t.root)

	t.preOrder = make([]int, 0, len(t.nodes))
	queue := []int{t.root}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		t.preOrder = append(t.preOrder, i)
		queue = append(queue, t.nodes[i].Children...)
	}

	t.leaves = make([]int, 0)
	for _, i := range t.postOrder {
		if t.nodes[i].IsLeaf() {
			t.leaves = append(t.leaves, i)
		}
	}
}

func (t *Tree) assignEdgeIDs() {
	t.edgeIndex = make(map[int]int, len(t.nodes))
	k := 0
	for _, i := range t.postOrder {
		t.nodes[i].EdgeID = k
		t.edgeIndex[k] = i
		k++
	}
}

// NumNodes returns the arena size.
func (t *Tree) NumNodes() int { return len(t.nodes) }

// Root returns the root's node index.
func (t *Tree) Root() int { return t.root }

// Node returns a copy of the node at index i.
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// PostOrder returns the DFS post-order index list (root last).
func (t *Tree) PostOrder() []int { return t.postOrder }

// PreOrder returns the BFS level-order index list (root first).
func (t *Tree) PreOrder() []int { return t.preOrder }

// Leaves returns leaf node indices.
func (t *Tree) Leaves() []int { return t.leaves }

// FindNode looks up a node by its id. O(1) via an index built at
// construction time.
func (t *Tree) FindNode(id int) (int, bool) {
	i, ok := t.idIndex[id]
	return i, ok
}

// NodeByEdgeID looks up a node by its DFS post-order edge id.
func (t *Tree) NodeByEdgeID(edgeID int) (int, bool) {
	i, ok := t.edgeIndex[edgeID]
	return i, ok
}

// IsAncestor reports whether parent lies on child's path to the root,
// inclusive of parent == child and parent == root.
func (t *Tree) IsAncestor(child, parent int) bool {
	if parent == t.root {
		return true
	}
	for i := child; i != NoParent; i = t.nodes[i].Parent {
		if i == parent {
			return true
		}
		if i == t.root {
			break
		}
	}
	return false
}

// pathToRoot returns the indices from node up to and including the root.
func (t *Tree) pathToRoot(node int) []int {
	var path []int
	for i := node; ; i = t.nodes[i].Parent {
		path = append(path, i)
		if i == t.root {
			break
		}
	}
	return path
}

// LCA returns the deepest node that is an ancestor of every id in ids.
// Panics on an empty ids slice (programmer error, never a query-time
// condition).
func (t *Tree) LCA(ids []int) int {
	if len(ids) == 0 {
		panic("tree: LCA called with no nodes")
	}
	// ancestor set of the first node, root to node (so indices are in
	// "distance from root" order, index 0 == root).
	first := t.pathToRoot(ids[0])
	reverse(first)

	commonDepth := len(first) - 1
	for _, id := range ids[1:] {
		path := t.pathToRoot(id)
		reverse(path)
		// walk the common prefix between `first` and `path`
		d := 0
		for d < len(path) && d < len(first) && path[d] == first[d] {
			d++
		}
		if d-1 < commonDepth {
			commonDepth = d - 1
		}
	}
	if commonDepth < 0 {
		return t.root
	}
	return first[commonDepth]
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
