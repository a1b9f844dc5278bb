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
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/matthiasblanke/appspam/internal/indexer"
	"github.com/matthiasblanke/appspam/internal/jplace"
	"github.com/matthiasblanke/appspam/internal/newick"
	"github.com/matthiasblanke/appspam/internal/placement"
	"github.com/matthiasblanke/appspam/internal/seqio"
	"github.com/matthiasblanke/appspam/internal/tree"
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Place query reads onto the reference tree and write a jplace file",
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
		refDir := getFlagString(cmd, "ref-dir")
		treeFile := getFlagString(cmd, "tree")
		queryFile := getFlagString(cmd, "query")
		outFile := getFlagString(cmd, "out")
		if (refFile == "" && refDir == "") || treeFile == "" || queryFile == "" {
			checkError(fmt.Errorf("--tree and --query are required, along with either --reference or --ref-dir"))
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
		queries, err := seqio.ReadQueries(queryFile, table)
		checkError(err)

		tr := loadTree(treeFile, table)

		policy, err := cfg.Policy()
		checkError(err)

		driverCfg := placement.Config{
			Patterns:               patterns,
			Sampling:               cfg.Sampling,
			MinHashUpperLimit:      cfg.MinHashLowerLimit,
			FilteringThresholdMult: cfg.FilteringThresholdMultiplicator,
			DefaultDistance:        cfg.DefaultDistance,
			DefaultPendant:         cfg.DefaultPendant,
			Policy:                 policy,
			ReadBlockSize:          cfg.ReadBlockSize,
			Workers:                cfg.Threads,
		}
		driver := placement.NewDriver(driverCfg, tr)

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if opt.Verbose {
			log.Infof("indexing %d reference sequence(s)...", len(refs))
		}
		refManager, err := driver.IndexReferences(ctx, refs, warnFunc(opt.Verbose))
		checkError(err)

		if opt.Verbose {
			log.Infof("placing %d query read(s)...", len(queries))
		}
		results, err := driver.PlaceQueries(ctx, refManager, queries, warnFunc(opt.Verbose))
		checkError(err)

		records := make([]jplace.Record, len(results))
		for i, r := range results {
			records[i] = jplace.Record{
				Name:    r.QueryName,
				Entries: [][5]float64{placement.ToJplaceEntry(r.Placement)},
			}
		}

		w, err := xopen.Wopen(outFile)
		checkError(err)
		defer w.Close()

		invocation := strings.Join(os.Args, " ")
		annotatedTree := newick.Serialize(tr, true)
		checkError(jplace.Write(w, annotatedTree, invocation, records))

		if opt.Verbose {
			log.Infof("wrote %d placement(s) to %s", len(records), outFile)
			log.Infof("elapsed time: %s", time.Since(timeStart))
		}
	},
}

func init() {
	RootCmd.AddCommand(placeCmd)

	placeCmd.Flags().StringP("reference", "r", "", "reference FASTA file")
	placeCmd.Flags().String("ref-dir", "", "directory of one-genome-per-file reference FASTA files, alternative to --reference")
	placeCmd.Flags().StringP("tree", "t", "", "reference Newick tree file")
	placeCmd.Flags().StringP("query", "Q", "", "query FASTA/FASTQ file")
	placeCmd.Flags().StringP("out", "O", "-", "output jplace file")
	placeCmd.Flags().String("patterns", "", "comma-separated pattern list, overrides --pattern-file and config")
	placeCmd.Flags().String("pattern-file", "", "file with one pattern per line")
	addConfigFlags(placeCmd)
}

// loadTree reads and parses a Newick file, resolving leaf names against
// table's reference partition and minting internal-node ids from the same
// counter reference/query sequences use.
func loadTree(file string, table *seqio.NameTable) *tree.Tree {
	fh, err := xopen.Ropen(file)
	checkError(errors.Wrapf(err, "cmd: open tree file %s", file))
	defer fh.Close()

	data, err := io.ReadAll(fh)
	checkError(errors.Wrapf(err, "cmd: read tree file %s", file))

	resolve := func(name string) (int, bool) {
		id, ok := table.ReferenceID(name)
		return int(id), ok
	}
	tr, err := newick.Parse(string(data), resolve, table.MintInternalID)
	checkError(err)
	return tr
}
