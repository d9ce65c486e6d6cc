// Command shipvoxctl is a small inspection/conversion CLI over Layout V2
// documents: validate a saved layout, print summary statistics, mesh
// one chunk to the binary mesh cache format (SPEC_FULL.md §6.1), and
// (when built with -tags preview) view a meshed chunk in a free-fly
// OpenGL viewer.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/xlab/closer"

	"shipvox/internal/profiling"
)

func main() {
	profiling.SetLogger(log.New(os.Stderr, "shipvoxctl: ", 0))

	closer.Bind(func() {
		fmt.Fprintln(os.Stderr, "shipvoxctl: shutting down")
	})
	defer closer.Close()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "validate":
		err = runValidate(os.Args[2:])
	case "stat":
		err = runStat(os.Args[2:])
	case "mesh":
		err = runMesh(os.Args[2:])
	case "preview":
		err = runPreview(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "shipvoxctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: shipvoxctl <command> [arguments]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	fmt.Fprintln(os.Stderr, "  validate <file>                       report load errors without aborting")
	fmt.Fprintln(os.Stderr, "  stat <file>                           print layout summary statistics")
	fmt.Fprintln(os.Stderr, "  mesh <file> <cx> <cy> <cz> -o <out>   mesh one chunk to a .vmsh file")
	fmt.Fprintln(os.Stderr, "  preview <mesh.vmsh>                   view a meshed chunk (requires -tags preview)")
}
