// Command wasmgen synthesizes standalone Wasm modules for differential
// testing of engines: each invocation writes one module, either as raw
// bytes or as a JS-shell driver that exercises every interesting-value
// combination of its main export and prints a memory checksum.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cranerule/wasmgen"
	"go.uber.org/zap"
)

func main() {
	os.Exit(doMain(os.Args[1:], os.Stdout, os.Stderr))
}

// doMain is separated from main for testing: each call builds its own
// FlagSet so repeated invocations in one test binary never collide over
// already-defined flags.
func doMain(args []string, stdOut io.Writer, stdErr io.Writer) int {
	flags := flag.NewFlagSet("wasmgen", flag.ContinueOnError)
	flags.SetOutput(stdErr)

	var (
		seed      int64
		out       string
		format    string
		memPages  uint
		tableSize uint
		globals   int
		maxDepth  int
		noCanon   bool
		wrapV128  bool
		rulesPath string
		verbose   bool
	)
	flags.Int64Var(&seed, "seed", 0, "randomness seed; same seed+config reproduces the same module")
	flags.StringVar(&out, "o", "", "output path (default: stdout)")
	flags.StringVar(&format, "format", "raw", "output format: raw (bytes) or js (shell driver)")
	flags.UintVar(&memPages, "memory-pages", 1, "linear memory page count")
	flags.UintVar(&tableSize, "table-size", 65536, "funcref table entry count")
	flags.IntVar(&globals, "globals", 4, "number of globals to allocate")
	flags.IntVar(&maxDepth, "max-depth", 5, "max recursion depth for structured control and rule bodies")
	flags.BoolVar(&noCanon, "no-canonicalize-nans", false, "disable NaN canonicalization after NaN-producing float rules")
	flags.BoolVar(&wrapV128, "wrap-v128-args-via-i64", false, "wrap main in an i64-marshalling adapter when its signature has a v128 (required for -format=js)")
	flags.StringVar(&rulesPath, "extracted-rules", "", "path to a newline-delimited JSON extracted-rule file")
	flags.BoolVar(&verbose, "v", false, "log warnings (dropped rules, etc.) to stderr")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	cfg := wasmgen.NewConfig().
		WithSeed(seed).
		WithMemoryPages(uint32(memPages)).
		WithTableSize(uint32(tableSize)).
		WithGlobalCount(globals).
		WithMaxDepth(maxDepth).
		WithCanonicalizeNaNs(!noCanon).
		WithWrapV128ArgsViaI64(wrapV128)

	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(stdErr, err)
			return 1
		}
		defer logger.Sync()
		cfg = cfg.WithLogger(logger)
	}

	if rulesPath != "" {
		f, err := os.Open(rulesPath)
		if err != nil {
			fmt.Fprintln(stdErr, err)
			return 1
		}
		defer f.Close()
		cfg = cfg.WithExtractedRules(f)
	}

	gen, err := wasmgen.New(cfg)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}

	mod, err := gen.Generate()
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}
	if warn := gen.RuleLoadWarning(); warn != nil && verbose {
		fmt.Fprintln(stdErr, warn)
	}

	var payload []byte
	switch format {
	case "raw":
		payload = mod.Raw()
	case "js":
		js, err := mod.JS()
		if err != nil {
			fmt.Fprintln(stdErr, err)
			return 1
		}
		payload = []byte(js)
	default:
		fmt.Fprintf(stdErr, "unknown -format %q: want raw or js\n", format)
		return 1
	}

	w := io.Writer(stdOut)
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			fmt.Fprintln(stdErr, err)
			return 1
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(payload); err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}

	return 0
}
