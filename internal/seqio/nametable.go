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

// Package seqio adapts FASTA/FASTQ input into raw sequence records the
// indexer can consume (the indexer does the symbol decoding), and
// provides the sequence name table that callers create and pass around.
package seqio

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrDuplicateSequenceName is fatal: a name was registered twice within
// the same partition (reference or query).
var ErrDuplicateSequenceName = errors.New("seqio: duplicate sequence name")

// NameTable is the single struct owning id<->name mappings, replacing the
// three separate global maps of the pointer-based design: a reference
// partition, a query partition, and their union, all backed by one
// monotonically increasing id counter.
type NameTable struct {
	mu sync.Mutex

	nextID uint32

	refNameToID map[string]uint32
	refIDToName map[uint32]string

	queryNameToID map[string]uint32
	queryIDToName map[uint32]string

	unionIDToName map[uint32]string
}

// NewNameTable creates an empty table. IDs are assigned starting at 0.
func NewNameTable() *NameTable {
	return &NameTable{
		refNameToID:   make(map[string]uint32),
		refIDToName:   make(map[uint32]string),
		queryNameToID: make(map[string]uint32),
		queryIDToName: make(map[uint32]string),
		unionIDToName: make(map[uint32]string),
	}
}

// RegisterReference mints a new id for a reference sequence name. Fatal
// ErrDuplicateSequenceName if the name already exists in the reference
// partition.
func (t *NameTable) RegisterReference(name string) (uint32, error) {
	return t.register(name, t.refNameToID, t.refIDToName)
}

// RegisterQuery mints a new id for a query sequence name. Fatal
// ErrDuplicateSequenceName if the name already exists in the query
// partition.
func (t *NameTable) RegisterQuery(name string) (uint32, error) {
	return t.register(name, t.queryNameToID, t.queryIDToName)
}

func (t *NameTable) register(name string, nameToID map[string]uint32, idToName map[uint32]string) (uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, dup := nameToID[name]; dup {
		return 0, errors.Wrapf(ErrDuplicateSequenceName, "name %q", name)
	}
	id := t.nextID
	t.nextID++
	nameToID[name] = id
	idToName[id] = name
	t.unionIDToName[id] = name
	return id, nil
}

// MintInternalID allocates an id from the same counter for a tree internal
// node, guaranteeing it never collides with a reference or query sequence
// id.
func (t *NameTable) MintInternalID() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	return int(id)
}

// ReferenceID looks up a reference sequence's id by name.
func (t *NameTable) ReferenceID(name string) (uint32, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.refNameToID[name]
	return id, ok
}

// QueryID looks up a query sequence's id by name.
func (t *NameTable) QueryID(name string) (uint32, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.queryNameToID[name]
	return id, ok
}

// Name looks up a reference or query id in the union. Ids minted by
// MintInternalID are not recorded there, so they report false.
func (t *NameTable) Name(id uint32) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	name, ok := t.unionIDToName[id]
	return name, ok
}
