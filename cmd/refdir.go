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
	"os"
	"path/filepath"
	"regexp"

	"github.com/iafan/cwalk"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"

	"github.com/matthiasblanke/appspam/internal/indexer"
	"github.com/matthiasblanke/appspam/internal/seqio"
)

// findReferenceFiles walks dir (following symlinks, in parallel across
// threads workers) collecting every file matching pattern, the
// directory-of-genomes input mode supported alongside single-file input.
func findReferenceFiles(dir string, pattern *regexp.Regexp, threads int) ([]string, error) {
	files := make([]string, 0, 512)
	ch := make(chan string, threads)
	done := make(chan struct{})
	go func() {
		for f := range ch {
			files = append(files, f)
		}
		close(done)
	}()

	cwalk.NumWorkers = threads
	err := cwalk.WalkWithSymlinks(dir, func(relPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && pattern.MatchString(info.Name()) {
			ch <- filepath.Join(dir, relPath)
		}
		return nil
	})
	close(ch)
	<-done
	if err != nil {
		return nil, errors.Wrapf(err, "cmd: walk %s", dir)
	}
	return files, nil
}

// readReferenceDir reads every matching file in dir with
// seqio.ReadReferences, so each FASTA record in each file becomes one
// reference sequence named by its record ID; file names are not used as
// sequence names. Used when reference genomes are spread over many files
// rather than one multi-FASTA.
func readReferenceDir(dir string, re *regexp.Regexp, threads int, table *seqio.NameTable) ([]indexer.Sequence, error) {
	isDir, err := pathutil.IsDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "cmd: checking --ref-dir %s", dir)
	}
	if !isDir {
		return nil, errors.Errorf("cmd: --ref-dir %s is not a directory", dir)
	}

	files, err := findReferenceFiles(dir, re, threads)
	if err != nil {
		return nil, err
	}

	var out []indexer.Sequence
	for _, file := range files {
		seqs, err := seqio.ReadReferences(file, table)
		if err != nil {
			return nil, err
		}
		out = append(out, seqs...)
	}
	return out, nil
}

var defaultRefFilePattern = regexp.MustCompile(`(?i)\.(fa|fasta|fna|fa\.gz|fasta\.gz|fna\.gz)$`)
