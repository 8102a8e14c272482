// registry-bench scores parser versions against a corpus of registry PDFs,
// reporting token recall per file and per section.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/junsik/pdf-extractor/internal/bench"
	"github.com/junsik/pdf-extractor/internal/parsers"
	"github.com/junsik/pdf-extractor/internal/registry"
)

func main() {
	var (
		dir        = pflag.String("dir", "upload", "Directory containing PDF files")
		docType    = pflag.StringP("type", "t", "registry", "Document type")
		parserVer  = pflag.StringP("parser", "p", parsers.Latest, "Parser version")
		jsonOut    = pflag.Bool("json", false, "JSON output")
		verbose    = pflag.BoolP("verbose", "v", false, "Show missing tokens per file")
		list       = pflag.Bool("list", false, "List registered parsers")
		allParsers = pflag.Bool("all-parsers", false, "Benchmark every registered version")
	)
	pflag.Parse()

	log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	reg := parsers.NewRegistry(log)
	registry.RegisterAll(reg, registry.DefaultRedThresholds(), log)

	if *list {
		for _, info := range reg.ListDocumentTypes() {
			versions := reg.ListVersions(info.TypeID)
			fmt.Printf("  %s (%s): %s\n", info.TypeID, info.DisplayName, strings.Join(versions, ", "))
			if len(info.SubTypes) > 0 {
				fmt.Printf("    sub-types: %s\n", strings.Join(info.SubTypes, ", "))
			}
		}
		return
	}

	paths := pflag.Args()
	if len(paths) == 0 {
		matches, err := filepath.Glob(filepath.Join(*dir, "*.pdf"))
		if err != nil || len(matches) == 0 {
			fmt.Fprintf(os.Stderr, "no PDF files in %s\n", *dir)
			os.Exit(1)
		}
		paths = matches
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(os.Stderr, "cannot access %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	versions := []string{*parserVer}
	if *allParsers {
		versions = reg.ListVersions(*docType)
		if len(versions) == 0 {
			fmt.Fprintf(os.Stderr, "unknown document type: %s\n", *docType)
			os.Exit(1)
		}
	}

	for _, ver := range versions {
		p, err := reg.Get(*docType, ver)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		report := bench.Run(paths, p, *docType)
		if *jsonOut {
			if err := bench.PrintJSON(os.Stdout, report); err != nil {
				fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
				os.Exit(1)
			}
		} else {
			bench.Print(os.Stdout, report, *verbose)
		}
	}
}
