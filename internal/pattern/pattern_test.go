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

package pattern

import "testing"

func TestNewValid(t *testing.T) {
	p, err := New("1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Weight() != 2 || p.Spaces() != 2 || p.Length() != 4 {
		t.Fatalf("got W=%d S=%d L=%d, want W=2 S=2 L=4", p.Weight(), p.Spaces(), p.Length())
	}
	if got, want := p.MatchPositions(), []int{0, 3}; !intsEqual(got, want) {
		t.Fatalf("match positions = %v, want %v", got, want)
	}
	if got, want := p.DontCarePositions(), []int{1, 2}; !intsEqual(got, want) {
		t.Fatalf("dontcare positions = %v, want %v", got, want)
	}
}

func TestNewRejectsBadEnds(t *testing.T) {
	cases := []string{"0110", "1100", "0000"}
	for _, c := range cases {
		if _, err := New(c); err == nil {
			t.Errorf("pattern %q: expected error, got none", c)
		}
	}
}

func TestNewRejectsIllegalChars(t *testing.T) {
	if _, err := New("1021"); err == nil {
		t.Fatal("expected error for illegal character")
	}
}

func TestNewCheckedWeightMismatch(t *testing.T) {
	if _, err := NewChecked("1001", 3, 2); err == nil {
		t.Fatal("expected weight mismatch error")
	}
	if _, err := NewChecked("1001", 2, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseSet(t *testing.T) {
	ps, err := ParseSet("1001, 101.1011;1001 1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 5 {
		t.Fatalf("got %d patterns, want 5", len(ps))
	}
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
