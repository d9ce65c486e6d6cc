package main

import (
	"flag"
	"fmt"
	"os"

	"shipvox/internal/layout"
)

// runValidate loads a Layout V2 file and reports per-chunk load errors
// without aborting the whole load, mirroring the serializer's own
// continue-past-a-bad-chunk recovery (SPEC_FULL.md §6.1, spec.md §7).
func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: shipvoxctl validate <file>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	l, err := layout.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("layout failed to load: %w", err)
	}

	_, chunkErrs, degraded := layout.ToWorldLenient(l)
	if !degraded {
		fmt.Printf("OK: %s (%d chunks, no errors)\n", l.Name, len(l.Chunks))
		return nil
	}

	fmt.Printf("DEGRADED: %s (%d/%d chunks failed to load)\n", l.Name, len(chunkErrs), len(l.Chunks))
	for _, ce := range chunkErrs {
		fmt.Printf("  chunk (%d,%d,%d): %v\n", ce.Coord.X, ce.Coord.Y, ce.Coord.Z, ce.Err)
	}
	return nil
}
