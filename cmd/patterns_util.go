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
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"

	"github.com/matthiasblanke/appspam/internal/pattern"
)

// loadPatterns resolves the pattern set for a run: an explicit
// comma-separated --patterns string wins, otherwise a --pattern-file is
// read (one pattern per line, same token syntax pattern.ParseSet
// accepts), otherwise the single default pattern of the requested
// weight/spaces is used.
func loadPatterns(patternsFlag, patternFile string, weight, spaces int) ([]pattern.Pattern, error) {
	if patternsFlag != "" {
		return pattern.ParseSet(patternsFlag)
	}
	if patternFile != "" {
		fh, err := xopen.Ropen(patternFile)
		if err != nil {
			return nil, errors.Wrapf(err, "cmd: open pattern file %s", patternFile)
		}
		defer fh.Close()

		data, err := io.ReadAll(fh)
		if err != nil {
			return nil, errors.Wrapf(err, "cmd: read pattern file %s", patternFile)
		}
		return pattern.ParseSet(string(data))
	}

	return []pattern.Pattern{defaultPattern(weight, spaces)}, nil
}

func defaultPattern(weight, spaces int) pattern.Pattern {
	s := make([]byte, 0, weight+spaces)
	s = append(s, '1')
	remaining := weight + spaces - 2
	for i := 0; i < remaining; i++ {
		if i < spaces {
			s = append(s, '0')
		} else {
			s = append(s, '1')
		}
	}
	if weight+spaces > 1 {
		s = append(s, '1')
	}
	return pattern.MustNew(string(s))
}

