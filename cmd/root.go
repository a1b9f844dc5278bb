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
	"runtime"

	colorable "github.com/mattn/go-colorable"
	"github.com/pkg/profile"
	logging "github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

var log *logging.Logger

func init() {
	logging.SetFormatter(logging.MustStringFormatter(
		`%{color}[%{level:.4s}]%{color:reset} %{message}`,
	))
	backend := logging.NewLogBackend(colorable.NewColorableStderr(), "", 0)
	logging.SetBackend(backend)
	log = logging.MustGetLogger("appspam")
}

// RootCmd is the entry point cobra command; cmd/appspam/main.go calls
// Execute on it.
var RootCmd = &cobra.Command{
	Use:   "appspam",
	Short: "Alignment-free placement of reads onto a reference phylogenetic tree",
	Long: `appspam places short DNA reads onto a fixed reference phylogenetic
tree using spaced-word matches instead of alignment.

Subcommands:
  build-patterns   generate a low-variance spaced-word pattern set
  index            index reference sequences into spaced-word buckets
  place            place query reads onto the reference tree, writing jplace
  dist             compute the JC-corrected distance matrix only
  histogram        plot the distribution of placement distances
`,
}

// Execute runs the root command, exiting the process on error exactly as
// checkError does for every other fatal condition.
func Execute() {
	RootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := RootCmd.Execute(); err != nil {
		checkError(err)
	}
}

func init() {
	RootCmd.PersistentFlags().IntP("threads", "j", 0, "number of worker threads (0 = all CPUs)")
	RootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress/info output")
	RootCmd.PersistentFlags().StringP("config", "c", "", "TOML config file (defaults to ~/.appspam/config.toml if present)")
	RootCmd.PersistentFlags().StringP("log", "", "", "log file path, in addition to stderr")
	RootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this directory and exit on completion")
	RootCmd.PersistentFlags().String("mem-profile", "", "write a memory profile to this directory on completion")

	RootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		startProfiling(cmd)
	}
	RootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		stopProfiling()
	}
}

var profileStopper interface{ Stop() }

func startProfiling(cmd *cobra.Command) {
	cpuDir := getFlagString(cmd, "cpu-profile")
	memDir := getFlagString(cmd, "mem-profile")
	switch {
	case cpuDir != "":
		profileStopper = profile.Start(profile.CPUProfile, profile.ProfilePath(cpuDir), profile.Quiet)
	case memDir != "":
		profileStopper = profile.Start(profile.MemProfile, profile.ProfilePath(memDir), profile.Quiet)
	}
}

func stopProfiling() {
	if profileStopper != nil {
		profileStopper.Stop()
	}
}

func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// Options holds the global per-run flags resolved once per command
// invocation.
type Options struct {
	NumCPUs int
	Verbose bool

	LogFile  string
	Log2File bool
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagNonNegativeInt(cmd, "threads")
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(threads)

	logfile := getFlagString(cmd, "log")
	return &Options{
		NumCPUs: threads,

		Verbose: !getFlagBool(cmd, "quiet"),

		LogFile:  logfile,
		Log2File: logfile != "",
	}
}

func addLog(file string, verbose bool) *os.File {
	fh, err := os.Create(file)
	checkError(err)

	backend1 := logging.NewLogBackend(os.Stderr, "", 0)
	backend2 := logging.NewLogBackend(fh, "", 0)
	backend2Formatter := logging.NewBackendFormatter(backend2, logging.MustStringFormatter(`[%{level:.4s}] %{message}`))

	if verbose {
		logging.SetBackend(backend1, backend2Formatter)
	} else {
		logging.SetBackend(backend2Formatter)
	}

	if verbose {
		log.Infof("log file: %s", file)
	}
	return fh
}
