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

// Package jplace serializes placement records into the version-3 jplace
// JSON document format.
package jplace

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Record is one query's placement entries, ready for JSON encoding.
type Record struct {
	// Entry is [edge_num, distal_length, pendant_length, like_weight_ratio, likelihood].
	Entries [][5]float64
	Name    string
}

type document struct {
	Version     int                    `json:"version"`
	Fields      []string               `json:"fields"`
	Metadata    map[string]string      `json:"metadata"`
	Tree        string                 `json:"tree"`
	Placements  []placementEntry       `json:"placements"`
}

type placementEntry struct {
	P  [][5]float64  `json:"p"`
	NM [][2]any      `json:"nm"`
}

// Write emits the version-3 jplace document for tree (already Newick
// serialized with edge-id annotations) and records to w.
func Write(w io.Writer, annotatedTree string, invocation string, records []Record) error {
	doc := document{
		Version:  3,
		Fields:   []string{"edge_num", "distal_length", "pendant_length", "like_weight_ratio", "likelihood"},
		Metadata: map[string]string{"invocation": invocation},
		Tree:     annotatedTree,
	}
	doc.Placements = make([]placementEntry, len(records))
	for i, r := range records {
		doc.Placements[i] = placementEntry{
			P:  r.Entries,
			NM: [][2]any{{r.Name, 1}},
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "jplace: encode document")
	}
	return nil
}

// Read parses a version-3 jplace document, mainly for round-trip tests.
func Read(r io.Reader) (tree string, records []Record, err error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return "", nil, errors.Wrap(err, "jplace: decode document")
	}
	out := make([]Record, len(doc.Placements))
	for i, p := range doc.Placements {
		name := ""
		if len(p.NM) > 0 {
			if s, ok := p.NM[0][0].(string); ok {
				name = s
			}
		}
		out[i] = Record{Entries: p.P, Name: name}
	}
	return doc.Tree, out, nil
}
