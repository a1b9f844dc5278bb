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

	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/matthiasblanke/appspam/internal/matchengine"
	"github.com/matthiasblanke/appspam/internal/seqio"
)

var distCmd = &cobra.Command{
	Use:   "dist",
	Short: "Compute the JC-corrected spaced-word distance matrix, skipping tree placement",
	Long: `Compute the JC-corrected spaced-word distance matrix, skipping tree placement

Runs indexing and matching exactly as "place" does, but stops after the
Jukes-Cantor correction: no tree is read, no placement policy runs. Useful
on its own as a pairwise distance matrix, or as input to an external
distance-based placer instead of appspam's own tree placement.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
			defer fhLog.Close()
		}
		timeStart := time.Now()

		cfg := resolveConfig(cmd)
		refFile := getFlagString(cmd, "reference")
		queryFile := getFlagString(cmd, "query")
		outFile := getFlagString(cmd, "out")
		if refFile == "" || queryFile == "" {
			checkError(fmt.Errorf("--reference and --query are both required"))
		}

		patterns, err := loadPatterns(getFlagString(cmd, "patterns"), getFlagString(cmd, "pattern-file"), cfg.Weight, cfg.DontCare)
		checkError(err)

		table := seqio.NewNameTable()
		refs, err := seqio.ReadReferences(refFile, table)
		checkError(err)
		queries, err := seqio.ReadQueries(queryFile, table)
		checkError(err)

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		refManager, err := indexReferences(ctx, refs, patterns, cfg, opt.Verbose)
		checkError(err)
		queryManager, err := indexQueries(ctx, queries, patterns, cfg, opt.Verbose)
		checkError(err)

		spaces := patterns[0].Spaces()
		scores, err := matchengine.Run(ctx, refManager, queryManager, matchengine.Options{
			Spaces:                 spaces,
			FilteringThresholdMult: cfg.FilteringThresholdMultiplicator,
			Workers:                cfg.Threads,
		})
		checkError(err)
		scores.CorrectAll(spaces, cfg.DefaultDistance)

		w, err := xopen.Wopen(outFile)
		checkError(err)
		defer w.Close()

		fmt.Fprintf(w, "query")
		for _, r := range refs {
			fmt.Fprintf(w, "\t%s", r.Name)
		}
		fmt.Fprintln(w)
		for _, q := range queries {
			fmt.Fprintf(w, "%s", q.Name)
			for _, r := range refs {
				d, ok := scores.DistanceFor(q.ID, r.ID)
				if !ok {
					d = cfg.DefaultDistance
				}
				fmt.Fprintf(w, "\t%g", d)
			}
			fmt.Fprintln(w)
		}

		if opt.Verbose {
			log.Infof("wrote distance matrix (%d queries x %d references) to %s", len(queries), len(refs), outFile)
			log.Infof("elapsed time: %s", time.Since(timeStart))
		}
	},
}

func init() {
	RootCmd.AddCommand(distCmd)

	distCmd.Flags().StringP("reference", "r", "", "reference FASTA file")
	distCmd.Flags().StringP("query", "Q", "", "query FASTA/FASTQ file")
	distCmd.Flags().StringP("out", "O", "-", "output tab-delimited distance matrix")
	distCmd.Flags().String("patterns", "", "comma-separated pattern list, overrides --pattern-file and config")
	distCmd.Flags().String("pattern-file", "", "file with one pattern per line")
	addConfigFlags(distCmd)
}
