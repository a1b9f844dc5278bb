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

package seqio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadReferencesRegistersNamesAndDecodesSequences(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.fasta")
	if err := os.WriteFile(path, []byte(">R1\nAAAA\n>R2\nAACA\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table := NewNameTable()
	seqs, err := ReadReferences(path, table)
	if err != nil {
		t.Fatalf("ReadReferences: %v", err)
	}
	if len(seqs) != 2 {
		t.Fatalf("got %d sequences, want 2", len(seqs))
	}
	if seqs[0].Name != "R1" || string(seqs[0].Raw) != "AAAA" {
		t.Fatalf("sequence 0 = %+v", seqs[0])
	}

	id, ok := table.ReferenceID("R2")
	if !ok || id != seqs[1].ID {
		t.Fatalf("ReferenceID(R2) = %d,%v, want %d,true", id, ok, seqs[1].ID)
	}
}

func TestReadReferencesRejectsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dups.fasta")
	if err := os.WriteFile(path, []byte(">R1\nAAAA\n>R1\nTTTT\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table := NewNameTable()
	if _, err := ReadReferences(path, table); err == nil {
		t.Fatal("expected duplicate-name error")
	}
}
