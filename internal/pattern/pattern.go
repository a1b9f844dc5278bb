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

// Package pattern implements fixed-shape binary spaced-word patterns.
//
// A pattern is a template over {match, don't-care} positions; the core
// consumes an ordered, immutable list of patterns produced by an external
// generator (see cmd/build-patterns.go) without ever designing or
// optimizing them itself.
package pattern

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedPattern is returned when a pattern string violates the
// syntax rules: characters outside {0,1}, an end that is not '1', or a
// weight/spaces count that doesn't match what the caller declared.
var ErrMalformedPattern = errors.New("pattern: malformed pattern string")

// Pattern is an immutable binary match/don't-care template.
type Pattern struct {
	raw       string
	matches   []int // ascending, disjoint from dontcares, union = [0,L)
	dontcares []int
	weight    int // W
	spaces    int // S
}

// New parses a pattern string of '0'/'1' characters. The first and last
// characters must be '1'. Returns ErrMalformedPattern on any violation.
func New(s string) (Pattern, error) {
	if len(s) == 0 {
		return Pattern{}, errors.Wrap(ErrMalformedPattern, "empty pattern")
	}
	if s[0] != '1' || s[len(s)-1] != '1' {
		return Pattern{}, errors.Wrapf(ErrMalformedPattern, "first and last position must match (%q)", s)
	}

	matches := make([]int, 0, len(s))
	dontcares := make([]int, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			matches = append(matches, i)
		case '0':
			dontcares = append(dontcares, i)
		default:
			return Pattern{}, errors.Wrapf(ErrMalformedPattern, "illegal character %q at position %d in %q", s[i], i, s)
		}
	}

	return Pattern{
		raw:       s,
		matches:   matches,
		dontcares: dontcares,
		weight:    len(matches),
		spaces:    len(dontcares),
	}, nil
}

// MustNew is like New but panics on error. Useful for tests and constants.
func MustNew(s string) Pattern {
	p, err := New(s)
	if err != nil {
		panic(err)
	}
	return p
}

// NewChecked is like New but additionally validates that the pattern has
// exactly the declared weight W and spaces S.
func NewChecked(s string, wantW, wantS int) (Pattern, error) {
	p, err := New(s)
	if err != nil {
		return Pattern{}, err
	}
	if p.weight != wantW || p.spaces != wantS {
		return Pattern{}, errors.Wrapf(ErrMalformedPattern,
			"pattern %q has W=%d,S=%d, expected W=%d,S=%d", s, p.weight, p.spaces, wantW, wantS)
	}
	return p, nil
}

// String returns the raw '0'/'1' representation.
func (p Pattern) String() string { return p.raw }

// Weight returns W, the number of match positions.
func (p Pattern) Weight() int { return p.weight }

// Spaces returns S, the number of don't-care positions.
func (p Pattern) Spaces() int { return p.spaces }

// Length returns L = W + S.
func (p Pattern) Length() int { return p.weight + p.spaces }

// MatchPositions returns the ascending list of match-position indices.
// The returned slice must not be mutated by callers.
func (p Pattern) MatchPositions() []int { return p.matches }

// DontCarePositions returns the ascending list of don't-care indices.
// The returned slice must not be mutated by callers.
func (p Pattern) DontCarePositions() []int { return p.dontcares }

// ParseSet splits a line on comma, period, semicolon, or space and parses
// each token as a pattern.
func ParseSet(line string) ([]Pattern, error) {
	tokens := splitPatternTokens(line)
	out := make([]Pattern, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		p, err := New(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, errors.Wrap(ErrMalformedPattern, "no patterns found in input")
	}
	return out, nil
}

func splitPatternTokens(line string) []string {
	isSep := func(r byte) bool {
		return r == ',' || r == '.' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}
	var tokens []string
	start := 0
	for i := 0; i < len(line); i++ {
		if isSep(line[i]) {
			if i > start {
				tokens = append(tokens, line[start:i])
			}
			start = i + 1
		}
	}
	if start < len(line) {
		tokens = append(tokens, line[start:])
	}
	return tokens
}

// Validate re-checks invariants; used defensively after construction from
// a config file or an externally supplied set.
func (p Pattern) Validate() error {
	if p.weight == 0 {
		return fmt.Errorf("pattern: zero weight")
	}
	if len(p.matches) == 0 || p.matches[0] != 0 {
		// first position must be a match; covered by New() already, but
		// re-checked here for patterns assembled programmatically.
		if p.Length() > 0 {
			first := p.matches
			if len(first) == 0 || first[0] != 0 {
				return errors.Wrap(ErrMalformedPattern, "first position is not a match")
			}
		}
	}
	return nil
}
