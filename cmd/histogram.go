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

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/matthiasblanke/appspam/internal/matchengine"
	"github.com/matthiasblanke/appspam/internal/seqio"
)

var histogramCmd = &cobra.Command{
	Use:   "histogram",
	Short: "Plot the distribution of JC-corrected query-to-reference distances",
	Long: `Plot the distribution of JC-corrected query-to-reference distances

A diagnostic supplement: after running the same indexing/matching/correction
pipeline "dist" uses, summarizes the per-(query,reference) distance
distribution with mean/stddev and writes a PNG histogram.
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
		queryFile := getFlagString(cmd, "query")
		outFile := getFlagString(cmd, "out")
		bins := getFlagPositiveInt(cmd, "bins")
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

		var distances plotter.Values
		for _, k := range scores.Keys() {
			d, ok := scores.DistanceFor(k.Query, k.Reference)
			if ok {
				distances = append(distances, d)
			}
		}
		if len(distances) == 0 {
			checkError(fmt.Errorf("no accepted matches: nothing to plot"))
		}

		mean := stat.Mean(distances, nil)
		stddev := stat.StdDev(distances, nil)
		if opt.Verbose {
			log.Infof("%d distance(s): mean=%.4f stddev=%.4f", len(distances), mean, stddev)
		}

		hist, err := plotter.NewHist(distances, bins)
		checkError(err)

		p := plot.New()
		p.Title.Text = fmt.Sprintf("JC-corrected distances (mean=%.3f, stddev=%.3f)", mean, stddev)
		p.X.Label.Text = "distance"
		p.Y.Label.Text = "count"
		p.Add(hist)

		checkError(p.Save(6*vg.Inch, 4*vg.Inch, outFile))
		if opt.Verbose {
			log.Infof("wrote histogram to %s", outFile)
		}
	},
}

func init() {
	RootCmd.AddCommand(histogramCmd)

	histogramCmd.Flags().StringP("reference", "r", "", "reference FASTA file")
	histogramCmd.Flags().StringP("query", "Q", "", "query FASTA/FASTQ file")
	histogramCmd.Flags().StringP("out", "O", "distances.png", "output PNG path")
	histogramCmd.Flags().Int("bins", 30, "number of histogram bins")
	histogramCmd.Flags().String("patterns", "", "comma-separated pattern list, overrides --pattern-file and config")
	histogramCmd.Flags().String("pattern-file", "", "file with one pattern per line")
	addConfigFlags(histogramCmd)
}
