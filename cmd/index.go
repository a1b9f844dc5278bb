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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthiasblanke/appspam/internal/indexer"
	"github.com/matthiasblanke/appspam/internal/seqio"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index reference sequences into spaced-word buckets and report statistics",
	Long: `Index reference sequences into spaced-word buckets and report statistics

Reads a reference FASTA file, extracts spaced words under the configured
pattern set for every sequence and both strands, and reports per-bucket
word counts. No index artifact is persisted: appspam always rebuilds the
index at the start of a place/dist run, so there is no incremental-update
format to maintain.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
			defer fhLog.Close()
		}

		cfg := resolveConfig(cmd)
		refFile := getFlagString(cmd, "reference")
		refDir := getFlagString(cmd, "ref-dir")
		if refFile == "" && refDir == "" {
			checkError(fmt.Errorf("either --reference/-r or --ref-dir is required"))
		}

		patterns, err := loadPatterns(getFlagString(cmd, "patterns"), getFlagString(cmd, "pattern-file"), cfg.Weight, cfg.DontCare)
		checkError(err)

		table := seqio.NewNameTable()
		var refs []indexer.Sequence
		if refDir != "" {
			refs, err = readReferenceDir(refDir, defaultRefFilePattern, cfg.Threads, table)
		} else {
			refs, err = seqio.ReadReferences(refFile, table)
		}
		checkError(err)

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		timeStart := time.Now()
		manager, err := indexReferences(ctx, refs, patterns, cfg, opt.Verbose)
		checkError(err)

		if opt.Verbose {
			log.Infof("indexed %d reference sequence(s), %d total spaced word(s)", len(refs), manager.TotalWords())
			for _, m := range manager.Minimizers() {
				b := manager.Bucket(m)
				log.Infof("  bucket %2d: %d words, %d group(s)", m, b.Len(), len(b.Groups()))
			}
			log.Infof("elapsed time: %s", time.Since(timeStart))
		}
	},
}

func init() {
	RootCmd.AddCommand(indexCmd)

	indexCmd.Flags().StringP("reference", "r", "", "reference FASTA file")
	indexCmd.Flags().String("ref-dir", "", "directory of one-genome-per-file reference FASTA files, alternative to --reference")
	indexCmd.Flags().String("patterns", "", "comma-separated pattern list, overrides --pattern-file and config")
	indexCmd.Flags().String("pattern-file", "", "file with one pattern per line")
	addConfigFlags(indexCmd)
}
