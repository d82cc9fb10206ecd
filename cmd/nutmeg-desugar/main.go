// Command nutmeg-desugar drives the desugar/verify/rewrite pipeline
// (pkg/pipeline) over a single file's parse tree read from a JSON
// stdin pipe, the same input/output/config/format/trim flag surface
// the teacher's cmd/nutmeg-rewrite and cmd/nutmeg-compiler use, built
// with the standard flag package rather than spf13/pflag (the one
// teacher dependency this binary drops — see DESIGN.md). An optional
// -cache flag points at a pkg/nametable SQLite store that preloads
// interned spellings before the run and persists them after.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/spicery/nutmeg-desugar/pkg/files"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/nametable"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/pipeline"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

const (
	version = "1.0.0"
	usage   = `nutmeg-desugar - desugars a Ruby/Sorbet-shaped parse tree into TAST`
)

const defaultFormat = "ASCIITREE"

func main() {
	os.Exit(run())
}

func run() int {
	var showHelp, showVersion, debug bool
	var inputFile, outputFile, configFile, format, cacheFile string
	var trim int

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\nUsage:\n", usage)
		flag.PrintDefaults()
	}

	flag.BoolVar(&showHelp, "h", false, "Show help")
	flag.BoolVar(&showHelp, "help", false, "Show help")
	flag.BoolVar(&showVersion, "v", false, "Show version")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.StringVar(&inputFile, "input", "", "Input parse-tree JSON file (defaults to stdin)")
	flag.StringVar(&outputFile, "output", "", "Output file (defaults to stdout)")
	flag.StringVar(&configFile, "config", "", "YAML run configuration (pass enablement, strictness, autogen)")
	flag.StringVar(&format, "format", defaultFormat, "Output format (ASCIITREE, TEXT)")
	flag.IntVar(&trim, "trim", 0, "Trim interned spellings for display purposes")
	flag.BoolVar(&debug, "debug", false, "Trace each pipeline stage to stderr")
	flag.StringVar(&cacheFile, "cache", "", "SQLite file caching interned name spellings across runs")

	flag.Parse()

	if showHelp {
		flag.Usage()
		return 0
	}
	if showVersion {
		fmt.Printf("nutmeg-desugar version %s\n", version)
		return 0
	}
	if len(flag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected positional arguments. Use -input and -output flags instead.\n\n")
		flag.Usage()
		return 1
	}

	var cfg *pipeline.Config
	if configFile != "" {
		var err error
		cfg, err = pipeline.LoadConfig(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading run configuration: %v\n", err)
			return 1
		}
	}

	var input io.Reader = os.Stdin
	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			return 1
		}
		defer f.Close()
		input = f
	}

	var output io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return 1
		}
		defer f.Close()
		output = f
	}

	var wire *parsetree.WireNode
	if err := json.NewDecoder(input).Decode(&wire); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding parse-tree JSON: %v\n", err)
		return 1
	}

	fileDB := files.NewMemDB()
	fileRef := fileDB.AddFile(&files.File{Path: inputFile})

	root, err := parsetree.FromCommonNode(fileRef, wire)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting parse tree: %v\n", err)
		return 1
	}

	table := names.NewMemTable()
	var trace pipeline.Trace
	if debug {
		trace = func(f string, args ...any) { fmt.Fprintf(os.Stderr, "nutmeg-desugar: "+f+"\n", args...) }
	}

	var cache *nametable.Store
	if cacheFile != "" {
		var err error
		cache, err = nametable.Open(cacheFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening name cache: %v\n", err)
			return 1
		}
		defer cache.Close()

		upToDate, err := cache.UpToDate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error checking name cache schema: %v\n", err)
			return 1
		}
		if !upToDate {
			if err := cache.Migrate(); err != nil {
				fmt.Fprintf(os.Stderr, "Error migrating name cache: %v\n", err)
				return 1
			}
		}
		if err := cache.Preload(table); err != nil {
			fmt.Fprintf(os.Stderr, "Error preloading name cache: %v\n", err)
			return 1
		}
	}

	result := pipeline.Run(cfg, table, fileDB, fileRef, root, trace)
	pipeline.ReportDiagnostics(os.Stderr, result)

	if cache != nil {
		if err := cache.Persist(table); err != nil {
			fmt.Fprintf(os.Stderr, "Error persisting name cache: %v\n", err)
			return 1
		}
	}

	if result.Tree == nil {
		return 1
	}

	switch format {
	case "ASCIITREE":
		tast.Print(output, table, result.Tree, trim)
	case "TEXT":
		fmt.Fprintf(output, "%#v\n", result.Tree)
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", format)
		return 1
	}

	if !result.OK() {
		return 1
	}
	return 0
}
