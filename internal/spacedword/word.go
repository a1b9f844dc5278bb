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

package spacedword

import (
	"hash/crc32"

	"github.com/matthiasblanke/appspam/internal/pattern"
)

// MinimizerBits is M, the number of low bits of the match word used as the
// bucket key. Fixed at 4, giving 2^4 = 16 buckets.
const MinimizerBits = 4

// NumBuckets is 2^MinimizerBits.
const NumBuckets = 1 << MinimizerBits

// MaxWeight/MaxSpaces bound W and S so both match and don't-care words fit
// in 64 bits (2 bits per symbol).
const (
	MaxWeight = 32
	MaxSpaces = 32
)

// Word is the bit-packed representation of one spaced word extracted from
// a sequence at a position under a pattern.
type Word struct {
	Matches   uint64 // low 2*W bits, packed high-symbol-first
	DontCares uint64 // low 2*S bits, packed high-symbol-first
	SeqID     uint32
	SeqPos    uint32
	Minimizer uint8 // low MinimizerBits of Matches
}

// minimizerOf computes the bucket key for a packed match word.
func minimizerOf(matches uint64) uint8 {
	return uint8(matches & (NumBuckets - 1))
}

// Extractor builds Words from decoded symbol arrays for a fixed set of
// patterns, optionally sampling with a CRC32 min-hash filter.
type Extractor struct {
	patterns   []pattern.Pattern
	sampling   bool
	minHashMax uint32 // word retained iff crc32(matches) < minHashMax
}

// NewExtractor builds an Extractor for the given patterns. If sampling is
// true, only spaced words whose crc32(matches) is strictly less than
// minHashUpperLimit are retained.
func NewExtractor(patterns []pattern.Pattern, sampling bool, minHashUpperLimit uint32) *Extractor {
	return &Extractor{
		patterns:   patterns,
		sampling:   sampling,
		minHashMax: minHashUpperLimit,
	}
}

// EmitFunc receives each accepted spaced word as it is produced.
type EmitFunc func(w Word)

// ExtractSequence walks both strands of a decoded sequence under every
// active pattern, calling emit for every (sampled-through) spaced word.
// seqID is recorded on every emitted word regardless of strand: every
// emitted spaced word carries the forward sequence id of the originating
// sequence.
func (e *Extractor) ExtractSequence(seqID uint32, syms []Symbol, emit EmitFunc) {
	if len(syms) == 0 {
		return
	}
	rc := ReverseComplement(syms)
	for _, p := range e.patterns {
		e.extractStrand(seqID, syms, p, emit)
		e.extractStrand(seqID, rc, p, emit)
	}
}

func (e *Extractor) extractStrand(seqID uint32, syms []Symbol, p pattern.Pattern, emit EmitFunc) {
	l := p.Length()
	n := len(syms)
	if n < l {
		return
	}
	matchPos := p.MatchPositions()
	carePos := p.DontCarePositions()

	last := n - l
	for i := 0; i <= last; i++ {
		var matches uint64
		for _, off := range matchPos {
			matches = (matches << 2) | uint64(syms[i+off])
		}
		var dontCares uint64
		for _, off := range carePos {
			dontCares = (dontCares << 2) | uint64(syms[i+off])
		}

		if e.sampling && !passesMinHash(matches, e.minHashMax) {
			continue
		}

		emit(Word{
			Matches:   matches,
			DontCares: dontCares,
			SeqID:     seqID,
			SeqPos:    uint32(i),
			Minimizer: minimizerOf(matches),
		})
	}
}

// passesMinHash reports whether the 32-bit CRC of the 8 little-endian bytes
// of matches is strictly less than upperLimit, matching the original
// crc32_fast(&matches, NumBytes) filter.
func passesMinHash(matches uint64, upperLimit uint32) bool {
	var buf [8]byte
	buf[0] = byte(matches)
	buf[1] = byte(matches >> 8)
	buf[2] = byte(matches >> 16)
	buf[3] = byte(matches >> 24)
	buf[4] = byte(matches >> 32)
	buf[5] = byte(matches >> 40)
	buf[6] = byte(matches >> 48)
	buf[7] = byte(matches >> 56)
	return crc32.ChecksumIEEE(buf[:]) < upperLimit
}

// DecodeMatches reconstructs the W symbols packed into matches, in the
// same high-symbol-first order they were written. Used by tests verifying
// the encoding round-trip property.
func DecodeMatches(matches uint64, w int) []Symbol {
	out := make([]Symbol, w)
	for i := w - 1; i >= 0; i-- {
		out[i] = Symbol(matches & 3)
		matches >>= 2
	}
	return out
}
