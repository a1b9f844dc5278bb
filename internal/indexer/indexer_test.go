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

package indexer

import (
	"context"
	"testing"

	"github.com/matthiasblanke/appspam/internal/pattern"
)

func TestIndexRoutesWordsAndFinalizes(t *testing.T) {
	p := pattern.MustNew("1001")
	seqs := []Sequence{
		{ID: 1, Name: "r1", Raw: []byte("AAAA")},
		{ID: 2, Name: "r2", Raw: []byte("AACA")},
	}
	m, err := Index(context.Background(), seqs, Options{Patterns: []pattern.Pattern{p}, Workers: 2}, false, nil)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if !m.Finalized() {
		t.Fatal("expected finalized manager")
	}
	if m.TotalWords() == 0 {
		t.Fatal("expected some words indexed")
	}
}

func TestIndexWarnsOnTooShortSequence(t *testing.T) {
	p := pattern.MustNew("101101")
	seqs := []Sequence{{ID: 1, Name: "short", Raw: []byte("AC")}}

	var warned bool
	m, err := Index(context.Background(), seqs, Options{Patterns: []pattern.Pattern{p}, Workers: 1}, true, func(id uint32, name string, err error) {
		warned = true
		if id != 1 || name != "short" {
			t.Fatalf("unexpected warning args: id=%d name=%s", id, name)
		}
	})
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if !warned {
		t.Fatal("expected a too-short warning")
	}
	if m.TotalWords() != 0 {
		t.Fatalf("expected zero words for too-short sequence, got %d", m.TotalWords())
	}
}
