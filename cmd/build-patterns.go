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

package cmd

import (
	"fmt"
	"math/rand"

	"github.com/rdleal/intervalst/interval"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/matthiasblanke/appspam/internal/pattern"
)

var buildPatternsCmd = &cobra.Command{
	Use:   "build-patterns",
	Short: "Generate a low-variance spaced-word pattern set",
	Long: `Generate a low-variance spaced-word pattern set

Derives num_patterns patterns of weight W and spaces S by randomly placing
the don't-care positions many times and keeping the candidate whose match
positions are most evenly spread (lowest variance of the gaps between
consecutive match positions). Candidates whose match-position span
overlaps an already-accepted pattern's span are skipped, the same
dedup-by-interval idea gen-masks.go uses to avoid redundant k-mer masks.
Every pattern starts and ends with a match, so every span is the whole
word: after the first pattern every candidate is skipped, and each later
pattern is a single random draw that is not chosen by gap variance and
may repeat an earlier one.

The core never calls this generator itself; it only consumes whatever
pattern set is handed to it on the command line or via a pattern file.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		weight := getFlagPositiveInt(cmd, "weight")
		spaces := getFlagNonNegativeInt(cmd, "spaces")
		numPatterns := getFlagPositiveInt(cmd, "num-patterns")
		attempts := getFlagPositiveInt(cmd, "attempts")
		seed := getFlagNonNegativeInt(cmd, "seed")
		out := getFlagString(cmd, "out")

		patterns, err := buildPatterns(weight, spaces, numPatterns, attempts, int64(seed))
		checkError(err)

		w, err := xopen.Wopen(out)
		checkError(err)
		defer w.Close()

		for _, p := range patterns {
			fmt.Fprintln(w, p.String())
		}
		if opt.Verbose {
			log.Infof("wrote %d pattern(s) of weight %d, spaces %d to %s", len(patterns), weight, spaces, out)
		}
	},
}

func init() {
	RootCmd.AddCommand(buildPatternsCmd)

	buildPatternsCmd.Flags().IntP("weight", "W", 12, "pattern weight (match-position count)")
	buildPatternsCmd.Flags().IntP("spaces", "S", 4, "pattern spaces (don't-care position count)")
	buildPatternsCmd.Flags().IntP("num-patterns", "n", 1, "number of distinct patterns to generate")
	buildPatternsCmd.Flags().Int("attempts", 2000, "random search budget per pattern")
	buildPatternsCmd.Flags().Int("seed", 1, "random seed")
	buildPatternsCmd.Flags().StringP("out", "o", "-", "output pattern file (one pattern per line)")
}

// buildPatterns runs the greedy low-variance search: for each of
// numPatterns slots, try `attempts` random don't-care placements and keep
// the one with lowest gap variance among those whose match-position span
// doesn't overlap an already-accepted pattern.
func buildPatterns(weight, spaces, numPatterns, attempts int, seed int64) ([]pattern.Pattern, error) {
	r := rand.New(rand.NewSource(seed))
	length := weight + spaces

	cmpFn := func(x, y int) int { return x - y }
	accepted := interval.NewSearchTree[int, int](cmpFn)

	var out []pattern.Pattern
	for slot := 0; slot < numPatterns; slot++ {
		var best pattern.Pattern
		bestVariance := -1.0
		found := false

		for a := 0; a < attempts; a++ {
			candidate := randomPattern(r, weight, spaces, length)
			if overlapsAccepted(accepted, candidate) {
				continue
			}
			v := gapVariance(candidate)
			if !found || v < bestVariance {
				best, bestVariance, found = candidate, v, true
			}
		}

		if !found {
			// every attempt collided with an already-accepted pattern;
			// fall back to one fresh random draw regardless of overlap.
			best = randomPattern(r, weight, spaces, length)
		}

		matches := best.MatchPositions()
		accepted.Insert(matches[0], matches[len(matches)-1], slot)
		out = append(out, best)
	}
	return out, nil
}

func randomPattern(r *rand.Rand, weight, spaces, length int) pattern.Pattern {
	s := make([]byte, length)
	s[0] = '1'
	s[length-1] = '1'
	remaining := weight - 2
	middle := length - 2
	perm := r.Perm(middle)
	for i := 0; i < middle; i++ {
		if perm[i] < remaining {
			s[i+1] = '1'
		} else {
			s[i+1] = '0'
		}
	}
	return pattern.MustNew(string(s))
}

// gapVariance measures how unevenly the match positions are spread: the
// population variance (mean squared deviation, divided by the gap count)
// of the gaps between consecutive match positions. A
// uniform spread (gaps all equal) has variance 0.
func gapVariance(p pattern.Pattern) float64 {
	matches := p.MatchPositions()
	if len(matches) < 2 {
		return 0
	}
	gaps := make([]float64, len(matches)-1)
	var sum float64
	for i := 1; i < len(matches); i++ {
		g := float64(matches[i] - matches[i-1])
		gaps[i-1] = g
		sum += g
	}
	mean := sum / float64(len(gaps))
	var variance float64
	for _, g := range gaps {
		variance += (g - mean) * (g - mean)
	}
	return variance / float64(len(gaps))
}

func overlapsAccepted(tree *interval.SearchTree[int, int], p pattern.Pattern) bool {
	matches := p.MatchPositions()
	_, ok := tree.AnyIntersection(matches[0], matches[len(matches)-1])
	return ok
}
