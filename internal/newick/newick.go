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

// Package newick parses and serializes Newick tree strings into and out
// of internal/tree.Tree, including the post-order edge-id annotation used
// by placement-file output.
package newick

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/matthiasblanke/appspam/internal/tree"
)

// ErrUnknownLeaf is returned when a parsed leaf name has no corresponding
// reference sequence id.
var ErrUnknownLeaf = errors.New("newick: leaf name not found in reference sequence table")

// ResolveLeaf looks up the sequence id for a leaf name. ok is false if the
// name is unknown, which is a fatal parse error.
type ResolveLeaf func(name string) (id int, ok bool)

// MintInternalID returns a fresh, globally unique node id for a newly
// created internal node, typically backed by the same monotonic counter
// used to assign reference/query sequence ids.
type MintInternalID func() int

type rawNode struct {
	name     string
	isLeaf   bool
	distance float64
	parent   int
	children []int
	id       int
}

// Parse reads a Newick string (trailing ';' optional) and builds a
// tree.Tree. Internal node names found in the source are discarded: every
// internal node is renamed "internal_<k>" in DFS post-order once the whole
// tree (including any trifurcating-root rebalancing) is finalized, so
// names stay stable and edge ids stay deterministic.
func Parse(s string, resolveLeaf ResolveLeaf, mintInternalID MintInternalID) (*tree.Tree, error) {
	p := &parser{s: s}
	var nodes []rawNode
	root, err := p.parseSubtree(&nodes, tree.NoParent, resolveLeaf, mintInternalID)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() && p.peek() == ';' {
		p.i++
	}

	rebalanceTrifurcatingRoot(&nodes, root, mintInternalID)
	renameInternalNodesByPostOrder(nodes, root)

	return buildTree(nodes, root)
}

type parser struct {
	s string
	i int
}

func (p *parser) eof() bool   { return p.i >= len(p.s) }
func (p *parser) peek() byte  { return p.s[p.i] }
func (p *parser) skipSpace() {
	for !p.eof() && (p.s[p.i] == ' ' || p.s[p.i] == '\t' || p.s[p.i] == '\n' || p.s[p.i] == '\r') {
		p.i++
	}
}

const labelDelims = "():,;"

func (p *parser) readLabel() string {
	start := p.i
	for !p.eof() && !strings.ContainsRune(labelDelims, rune(p.s[p.i])) {
		p.i++
	}
	return strings.TrimSpace(p.s[start:p.i])
}

func (p *parser) readDistance() (float64, error) {
	if p.eof() || p.peek() != ':' {
		return 0, nil
	}
	p.i++ // consume ':'
	start := p.i
	for !p.eof() && !strings.ContainsRune(labelDelims, rune(p.s[p.i])) {
		p.i++
	}
	raw := strings.TrimSpace(p.s[start:p.i])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "newick: malformed branch length %q", raw)
	}
	return v, nil
}

func (p *parser) parseSubtree(nodes *[]rawNode, parent int, resolveLeaf ResolveLeaf, mint MintInternalID) (int, error) {
	p.skipSpace()
	if p.eof() {
		return 0, errors.New("newick: unexpected end of input")
	}

	if p.peek() == '(' {
		p.i++ // consume '('
		idx := len(*nodes)
		*nodes = append(*nodes, rawNode{parent: parent, id: mint()})

		for {
			childIdx, err := p.parseSubtree(nodes, idx, resolveLeaf, mint)
			if err != nil {
				return 0, err
			}
			(*nodes)[idx].children = append((*nodes)[idx].children, childIdx)
			p.skipSpace()
			if p.eof() {
				return 0, errors.New("newick: unexpected end of input inside subtree")
			}
			if p.peek() == ',' {
				p.i++
				continue
			}
			break
		}
		p.skipSpace()
		if p.eof() || p.peek() != ')' {
			return 0, errors.New("newick: expected ')'")
		}
		p.i++ // consume ')'

		_ = p.readLabel() // any internal-node name in the source is discarded
		dist, err := p.readDistance()
		if err != nil {
			return 0, err
		}
		(*nodes)[idx].distance = dist
		return idx, nil
	}

	name := p.readLabel()
	dist, err := p.readDistance()
	if err != nil {
		return 0, err
	}
	id, ok := resolveLeaf(name)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownLeaf, "leaf %q", name)
	}
	idx := len(*nodes)
	*nodes = append(*nodes, rawNode{name: name, isLeaf: true, distance: dist, parent: parent, id: id})
	return idx, nil
}

// rebalanceTrifurcatingRoot re-parents an unrooted tree's second and third
// root children under a freshly minted internal node, which becomes the
// root's last child. A trifurcating root ends up binary; any children
// beyond the third stay on the root.
func rebalanceTrifurcatingRoot(nodes *[]rawNode, root int, mint MintInternalID) {
	rootChildren := (*nodes)[root].children
	if len(rootChildren) <= 2 {
		return
	}
	child2, child3 := rootChildren[1], rootChildren[2]
	newChildren := append([]int{rootChildren[0]}, rootChildren[3:]...)

	newIdx := len(*nodes)
	*nodes = append(*nodes, rawNode{parent: root, id: mint(), children: []int{child2, child3}})
	(*nodes)[child2].parent = newIdx
	(*nodes)[child3].parent = newIdx

	newChildren = append(newChildren, newIdx)
	(*nodes)[root].children = newChildren
}

// renameInternalNodesByPostOrder assigns "internal_<k>" names in DFS
// post-order starting at 1, matching the stability invariant.
func renameInternalNodesByPostOrder(nodes []rawNode, root int) {
	k := 1
	var visit func(i int)
	visit = func(i int) {
		for _, c := range nodes[i].children {
			visit(c)
		}
		if !nodes[i].isLeaf {
			nodes[i].name = "internal_" + strconv.Itoa(k)
			k++
		}
	}
	visit(root)
}

func buildTree(raw []rawNode, root int) (*tree.Tree, error) {
	out := make([]tree.Node, len(raw))
	for i, n := range raw {
		out[i] = tree.Node{
			Name:     n.name,
			ID:       n.id,
			Parent:   n.parent,
			Children: n.children,
			Distance: n.distance,
		}
	}
	return tree.New(out, root)
}
