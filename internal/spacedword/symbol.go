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

// Package spacedword implements the bit-packed spaced-word representation
// and the nucleotide symbol alphabet it is built from.
package spacedword

// Symbol is a 2-bit-packed nucleotide code: A=0, C=1, G=2, T=3.
type Symbol = uint8

const (
	SymA Symbol = 0
	SymC Symbol = 1
	SymG Symbol = 2
	SymT Symbol = 3
)

// symbolTable maps raw input bytes to a Symbol, or to skipMarker (0xff)
// for a byte to skip (unknown base). A, C, G, T and U map in either case;
// U is folded onto T.
var symbolTable = buildSymbolTable()

const skipMarker = 0xff

func buildSymbolTable() [256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = skipMarker
	}
	set := func(b byte, s Symbol) {
		t[b] = s
		if b >= 'A' && b <= 'Z' {
			t[b-'A'+'a'] = s
		}
	}
	set('A', SymA)
	set('C', SymC)
	set('G', SymG)
	set('T', SymT)
	set('U', SymT) // U is equivalent to T
	return t
}

// Decode converts raw sequence bytes into packed symbols, skipping any byte
// outside {A,C,G,T,U} (case-insensitive) and whitespace. Skipped bytes are
// omitted entirely -- they do not occupy a position in the returned slice.
func Decode(raw []byte) []Symbol {
	out := make([]Symbol, 0, len(raw))
	for _, b := range raw {
		s := symbolTable[b]
		if s == skipMarker {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Complement returns the reverse-complement symbol: 3 - s.
func Complement(s Symbol) Symbol { return 3 - s }

// ReverseComplement returns the reverse-complement of a decoded symbol
// sequence, used to index the negative strand.
func ReverseComplement(syms []Symbol) []Symbol {
	n := len(syms)
	out := make([]Symbol, n)
	for i, s := range syms {
		out[n-1-i] = Complement(s)
	}
	return out
}

// symbolByte is used only for decoding packed words back to readable bases
// in tests and diagnostics.
var symbolByte = [4]byte{'A', 'C', 'G', 'T'}

// SymbolToByte renders a Symbol as its base letter.
func SymbolToByte(s Symbol) byte { return symbolByte[s&3] }
