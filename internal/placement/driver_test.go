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

package placement

import (
	"context"
	"testing"

	"github.com/matthiasblanke/appspam/internal/indexer"
	"github.com/matthiasblanke/appspam/internal/newick"
	"github.com/matthiasblanke/appspam/internal/pattern"
	"github.com/matthiasblanke/appspam/internal/tree"
)

func buildTestTree(t *testing.T, names map[string]int) *tree.Tree {
	t.Helper()
	next := 100
	mint := func() int { next++; return next }
	tr, err := newick.Parse("((A:1,B:1):1,(C:1,D:1):1);", func(name string) (int, bool) {
		id, ok := names[name]
		return id, ok
	}, mint)
	if err != nil {
		t.Fatalf("newick.Parse: %v", err)
	}
	return tr
}

func TestDriverPlacesQueryAgainstReferences(t *testing.T) {
	names := map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}
	tr := buildTestTree(t, names)

	p := pattern.MustNew("1001")
	refs := []indexer.Sequence{
		{ID: 0, Name: "A", Raw: []byte("AAAA")},
		{ID: 1, Name: "B", Raw: []byte("AACA")},
		{ID: 2, Name: "C", Raw: []byte("TTTT")},
		{ID: 3, Name: "D", Raw: []byte("TTGT")},
	}
	queries := []indexer.Sequence{
		{ID: 10, Name: "q1", Raw: []byte("AAAA")},
	}

	cfg := Config{
		Patterns:        []pattern.Pattern{p},
		DefaultDistance: 10,
		DefaultPendant:  0.1,
		Policy:          tree.Policy{Kind: tree.BestCount},
		Workers:         1,
	}
	d := NewDriver(cfg, tr)

	ctx := context.Background()
	refManager, err := d.IndexReferences(ctx, refs, nil)
	if err != nil {
		t.Fatalf("IndexReferences: %v", err)
	}

	results, err := d.PlaceQueries(ctx, refManager, queries, nil)
	if err != nil {
		t.Fatalf("PlaceQueries: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].QueryID != 10 {
		t.Fatalf("QueryID = %d, want 10", results[0].QueryID)
	}
	// q1 is identical to A; A should win BEST_COUNT.
	wantIdx, _ := tr.FindNode(0)
	if results[0].Placement.NodeIndex != wantIdx {
		t.Fatalf("placed at node %d, want leaf A (%d)", results[0].Placement.NodeIndex, wantIdx)
	}
}

func TestDriverNoMatchesPlacesRoot(t *testing.T) {
	names := map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}
	tr := buildTestTree(t, names)

	p := pattern.MustNew("1001")
	refs := []indexer.Sequence{
		{ID: 0, Name: "A", Raw: []byte("AAAA")},
	}
	queries := []indexer.Sequence{
		{ID: 10, Name: "q1", Raw: []byte("GGGG")},
	}

	cfg := Config{
		Patterns:        []pattern.Pattern{p},
		DefaultDistance: 10,
		DefaultPendant:  0.25,
		Policy:          tree.Policy{Kind: tree.BestCount},
		// threshold so high no match is ever accepted
		FilteringThresholdMult: 1000,
		Workers:                1,
	}
	d := NewDriver(cfg, tr)

	ctx := context.Background()
	refManager, err := d.IndexReferences(ctx, refs, nil)
	if err != nil {
		t.Fatalf("IndexReferences: %v", err)
	}
	results, err := d.PlaceQueries(ctx, refManager, queries, nil)
	if err != nil {
		t.Fatalf("PlaceQueries: %v", err)
	}
	if results[0].Placement.NodeIndex != tr.Root() {
		t.Fatalf("expected root placement, got node %d", results[0].Placement.NodeIndex)
	}
}

func TestDriverBlocksQueries(t *testing.T) {
	names := map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}
	tr := buildTestTree(t, names)

	p := pattern.MustNew("1001")
	refs := []indexer.Sequence{{ID: 0, Name: "A", Raw: []byte("AAAA")}}
	queries := []indexer.Sequence{
		{ID: 10, Name: "q1", Raw: []byte("AAAA")},
		{ID: 11, Name: "q2", Raw: []byte("AAAA")},
		{ID: 12, Name: "q3", Raw: []byte("AAAA")},
	}

	cfg := Config{
		Patterns:        []pattern.Pattern{p},
		DefaultDistance: 10,
		DefaultPendant:  0.1,
		Policy:          tree.Policy{Kind: tree.BestCount},
		ReadBlockSize:   1,
		Workers:         1,
	}
	d := NewDriver(cfg, tr)
	ctx := context.Background()
	refManager, _ := d.IndexReferences(ctx, refs, nil)
	results, err := d.PlaceQueries(ctx, refManager, queries, nil)
	if err != nil {
		t.Fatalf("PlaceQueries: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
}
