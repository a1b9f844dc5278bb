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
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/matthiasblanke/appspam/internal/indexer"
)

// ReadReferences reads every FASTA/FASTQ record in file, registering each
// name in table's reference partition and returning the records' raw
// sequence bytes for the indexer to decode. Duplicate names are fatal.
func ReadReferences(file string, table *NameTable) ([]indexer.Sequence, error) {
	return readRecords(file, table.RegisterReference)
}

// ReadQueries reads every FASTA/FASTQ record in file, registering each
// name in table's query partition.
func ReadQueries(file string, table *NameTable) ([]indexer.Sequence, error) {
	return readRecords(file, table.RegisterQuery)
}

func readRecords(file string, register func(name string) (uint32, error)) ([]indexer.Sequence, error) {
	reader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return nil, errors.Wrapf(err, "seqio: open %s", file)
	}
	defer reader.Close()

	var out []indexer.Sequence
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "seqio: read %s", file)
		}

		name := string(record.ID)
		id, err := register(name)
		if err != nil {
			return nil, err
		}

		raw := make([]byte, len(record.Seq.Seq))
		copy(raw, record.Seq.Seq)
		out = append(out, indexer.Sequence{ID: id, Name: name, Raw: raw})
	}
	return out, nil
}
