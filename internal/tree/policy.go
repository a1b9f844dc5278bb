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
	"fmt"
	"strings"

	"github.com/matthiasblanke/appspam/internal/scoring"
)

// PolicyKind tags one of the five placement policies (replaces dispatch by
// string comparison).
type PolicyKind int

const (
	BestCount PolicyKind = iota
	BestDistance
	LCACount
	LCADistance
	LCADominant
)

func (k PolicyKind) String() string {
	switch k {
	case BestCount:
		return "BEST_COUNT"
	case BestDistance:
		return "BEST_DISTANCE"
	case LCACount:
		return "LCA_COUNT"
	case LCADistance:
		return "LCA_DISTANCE"
	case LCADominant:
		return "LCA_DOMINANT"
	default:
		return "UNKNOWN"
	}
}

// ParsePolicyKind parses one of the five assignment_mode names
// (case-insensitive). Used by the config and CLI layers.
func ParsePolicyKind(s string) (PolicyKind, error) {
	switch strings.ToUpper(s) {
	case "BEST_COUNT":
		return BestCount, nil
	case "BEST_DISTANCE":
		return BestDistance, nil
	case "LCA_COUNT":
		return LCACount, nil
	case "LCA_DISTANCE":
		return LCADistance, nil
	case "LCA_DOMINANT":
		return LCADominant, nil
	default:
		return 0, fmt.Errorf("tree: unknown assignment_mode %q", s)
	}
}

// Policy selects a placement policy and, for LCADominant, its threshold
// parameter x (ignored by the other four).
type Policy struct {
	Kind       PolicyKind
	DominanceX float64
}

// Placement is the geometry and target node chosen for one query.
type Placement struct {
	NodeIndex int
	EdgeID    int
	Distal    float64
	Pendant   float64
}

// leafStat pairs a reference leaf's node index with its count/distance
// against one query, used by the top-two-by-X selection.
type leafStat struct {
	nodeIndex int
	leafID    int
	count     int64
	distance  float64
}

// refLeafStats gathers every reference leaf that has a scoring-table entry
// against queryID, in leaf-order (the tree's deterministic iteration
// order, used to break ties).
func (t *Tree) refLeafStats(table *scoring.Table, queryID uint32) []leafStat {
	var out []leafStat
	for _, i := range t.leaves {
		id := t.nodes[i].ID
		e, ok := table.Get(queryID, uint32(id))
		if !ok {
			continue
		}
		out = append(out, leafStat{nodeIndex: i, leafID: id, count: e.MatchCount, distance: e.Distance})
	}
	return out
}

// topTwoByCount returns the two leaves with the largest MatchCount,
// descending, breaking ties by iteration order (first-seen wins).
func topTwoByCount(stats []leafStat) (r1, r2 leafStat, haveTwo bool) {
	return topTwo(stats, func(a, b leafStat) bool { return a.count > b.count })
}

// topTwoByDistance returns the two leaves with the smallest Distance,
// ascending, breaking ties by iteration order.
func topTwoByDistance(stats []leafStat) (r1, r2 leafStat, haveTwo bool) {
	return topTwo(stats, func(a, b leafStat) bool { return a.distance < b.distance })
}

// topTwo scans stats once, tracking the best and second-best by `better`.
// A strictly-better element only displaces r1 (never ties it), matching
// "r1 strictly largest" in the policy definitions.
func topTwo(stats []leafStat, better func(a, b leafStat) bool) (r1, r2 leafStat, haveTwo bool) {
	if len(stats) == 0 {
		return leafStat{}, leafStat{}, false
	}
	r1 = stats[0]
	set2 := false
	for _, s := range stats[1:] {
		switch {
		case better(s, r1):
			r2, set2 = r1, true
			r1 = s
		case !set2 || better(s, r2):
			r2, set2 = s, true
		}
	}
	return r1, r2, set2
}

// Place runs the configured policy for one query and returns its chosen
// node plus edge geometry. If the query has no scoring-table entries
// against any reference leaf, it is placed at the root (NoMatches
// recovery).
func (t *Tree) Place(policy Policy, queryID uint32, table *scoring.Table, defaultPendant float64) Placement {
	stats := t.refLeafStats(table, queryID)
	if len(stats) == 0 {
		return t.rootFallback(defaultPendant)
	}

	switch policy.Kind {
	case BestCount:
		best := stats[0]
		for _, s := range stats[1:] {
			if s.count > best.count {
				best = s
			}
		}
		return t.leafGeometry(best, defaultPendant)

	case BestDistance:
		best := stats[0]
		for _, s := range stats[1:] {
			if s.distance < best.distance {
				best = s
			}
		}
		return t.leafGeometry(best, defaultPendant)

	case LCACount:
		return t.lcaPolicy(stats, topTwoByCount, defaultPendant)

	case LCADistance:
		return t.lcaPolicy(stats, topTwoByDistance, defaultPendant)

	case LCADominant:
		r1, r2, haveTwo := topTwoByCount(stats)
		if !haveTwo {
			return t.lcaSingleOrRoot(stats, defaultPendant)
		}
		if float64(r1.count-r2.count) > float64(r1.count+r2.count)/policy.DominanceX {
			return t.leafGeometry(r1, defaultPendant)
		}
		return t.lcaGeometry(r1.nodeIndex, r2.nodeIndex, defaultPendant)

	default:
		return t.rootFallback(defaultPendant)
	}
}

type topTwoFunc func([]leafStat) (leafStat, leafStat, bool)

func (t *Tree) lcaPolicy(stats []leafStat, pick topTwoFunc, defaultPendant float64) Placement {
	if len(stats) == 1 {
		return t.leafGeometry(stats[0], defaultPendant)
	}
	r1, r2, haveTwo := pick(stats)
	if !haveTwo {
		return t.leafGeometry(r1, defaultPendant)
	}
	return t.lcaGeometry(r1.nodeIndex, r2.nodeIndex, defaultPendant)
}

func (t *Tree) lcaSingleOrRoot(stats []leafStat, defaultPendant float64) Placement {
	if len(stats) == 1 {
		return t.leafGeometry(stats[0], defaultPendant)
	}
	return t.rootFallback(defaultPendant)
}

// leafGeometry implements the leaf-based edge geometry rule: the query
// anchors in proportion to its JC distance to the chosen leaf, capped at
// the parent edge length.
func (t *Tree) leafGeometry(s leafStat, defaultPendant float64) Placement {
	n := t.nodes[s.nodeIndex]
	e := n.Distance
	d := s.distance
	var distal, pendant float64
	if d < 2*e {
		distal = d / 2
		pendant = d / 2
	} else {
		distal = e
		pendant = d - e
	}
	return Placement{NodeIndex: s.nodeIndex, EdgeID: n.EdgeID, Distal: distal, Pendant: pendant}
}

// lcaGeometry implements the LCA-based edge geometry rule: distal is half
// the LCA's parent edge length, pendant is the configured constant.
func (t *Tree) lcaGeometry(a, b int, defaultPendant float64) Placement {
	n := t.LCA([]int{a, b})
	node := t.nodes[n]
	return Placement{NodeIndex: n, EdgeID: node.EdgeID, Distal: node.Distance / 2, Pendant: defaultPendant}
}

func (t *Tree) rootFallback(defaultPendant float64) Placement {
	root := t.nodes[t.root]
	return Placement{NodeIndex: t.root, EdgeID: root.EdgeID, Distal: root.Distance / 2, Pendant: defaultPendant}
}
