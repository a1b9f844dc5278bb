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

package scoring

import (
	"math"
	"testing"
)

func TestZeroMatchCountUsesDefaultDistance(t *testing.T) {
	tbl := NewTable()
	tbl.Add(1, 2, 0, 0) // create the entry with a no-op add semantics substitute
	// simulate an entry with MatchCount left at zero by resetting it directly
	tbl.entries[Key{1, 2}].MatchCount = 0
	tbl.entries[Key{1, 2}].ScoreSum = 0
	tbl.entries[Key{1, 2}].MismatchSum = 0

	tbl.CorrectAll(2, 10)
	d, ok := tbl.DistanceFor(1, 2)
	if !ok || d != 10 {
		t.Fatalf("distance = %v, ok=%v, want 10", d, ok)
	}
}

func TestS2IdenticalReferences(t *testing.T) {
	tbl := NewTable()
	// two matches contributing M[0][0] each: score=182, mismatch=0
	tbl.Add(1, 2, 91, 0)
	tbl.Add(1, 2, 91, 0)

	e, ok := tbl.Get(1, 2)
	if !ok {
		t.Fatal("expected entry")
	}
	if e.ScoreSum != 182 || e.MismatchSum != 0 || e.MatchCount != 2 {
		t.Fatalf("entry = %+v, want ScoreSum=182 MismatchSum=0 MatchCount=2", e)
	}

	tbl.CorrectAll(2, 10)
	d, _ := tbl.DistanceFor(1, 2)
	if d != 0 {
		t.Fatalf("distance = %v, want 0", d)
	}
}

func TestS3OneMismatch(t *testing.T) {
	tbl := NewTable()
	tbl.Add(1, 2, 91+(-114), 1)

	tbl.CorrectAll(2, 10)
	d, _ := tbl.DistanceFor(1, 2)
	want := -0.75 * math.Log(1.0/3.0)
	if math.Abs(d-want) > 1e-9 {
		t.Fatalf("distance = %v, want %v", d, want)
	}
}

func TestJcSaturationGuard(t *testing.T) {
	tbl := NewTable()
	// mismatch_sum/(match_count*S) = 3/4 = 0.75 exactly: must saturate
	tbl.Add(1, 2, 0, 3)
	tbl.entries[Key{1, 2}].MatchCount = 1
	tbl.CorrectAll(4, 10)
	d, _ := tbl.DistanceFor(1, 2)
	if d != 10 {
		t.Fatalf("distance = %v, want saturated default 10", d)
	}
}

func TestJcMonotonicity(t *testing.T) {
	prev := -1.0
	for mismatch := int64(0); mismatch < 3; mismatch++ {
		d := jcDistance(4, mismatch, 4, 10)
		if d <= prev {
			t.Fatalf("distance not monotone increasing: mismatch=%d d=%v prev=%v", mismatch, d, prev)
		}
		prev = d
	}
}

func TestMergeSumsAccumulators(t *testing.T) {
	a := NewTable()
	a.Add(1, 1, 10, 1)
	b := NewTable()
	b.Add(1, 1, 5, 2)
	b.Add(2, 2, 3, 0)

	a.Merge(b)

	e, _ := a.Get(1, 1)
	if e.ScoreSum != 15 || e.MismatchSum != 3 || e.MatchCount != 2 {
		t.Fatalf("merged entry = %+v", e)
	}
	if _, ok := a.Get(2, 2); !ok {
		t.Fatal("expected merged-in new key present")
	}
}
