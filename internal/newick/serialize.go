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

package newick

import (
	"strconv"
	"strings"

	"github.com/matthiasblanke/appspam/internal/tree"
)

// Serialize renders t as a Newick string. When withEdgeIDs is true, every
// node's branch length is followed by "{<edge_id>}", the annotation form
// placement-file output requires.
func Serialize(t *tree.Tree, withEdgeIDs bool) string {
	var b strings.Builder
	writeNode(&b, t, t.Root(), withEdgeIDs)
	b.WriteByte(';')
	return b.String()
}

func writeNode(b *strings.Builder, t *tree.Tree, idx int, withEdgeIDs bool) {
	n := t.Node(idx)
	if len(n.Children) > 0 {
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, t, c, withEdgeIDs)
		}
		b.WriteByte(')')
	}
	b.WriteString(n.Name)
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(n.Distance, 'g', -1, 64))
	if withEdgeIDs {
		b.WriteByte('{')
		b.WriteString(strconv.Itoa(n.EdgeID))
		b.WriteByte('}')
	}
}
