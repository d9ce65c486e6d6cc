package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"shipvox/internal/chunk"
	"shipvox/internal/layout"
)

// runStat prints voxel/chunk counts, sparse-vs-RLE chunk counts, bounds,
// and room/entity/prefab-instance counts for a Layout V2 file
// (SPEC_FULL.md §6.1).
func runStat(args []string) error {
	fs := flag.NewFlagSet("stat", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: shipvoxctl stat <file>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	l, err := layout.Unmarshal(data)
	if err != nil {
		return err
	}

	var sparseCount, rleCount, voxelCount int
	for _, cd := range l.Chunks {
		switch cd.Format {
		case chunk.FormatSparse:
			sparseCount++
			voxelCount += len(cd.Voxels)
		case chunk.FormatRLE:
			rleCount++
		}
	}

	p := message.NewPrinter(language.English)
	p.Printf("Name:       %s\n", l.Name)
	p.Printf("Modified:   %s\n", l.Metadata.ModifiedAt.Format("2006-01-02 15:04:05 MST"))
	p.Printf("Bounds:     (%d,%d,%d) to (%d,%d,%d)\n",
		l.Bounds.Min.X, l.Bounds.Min.Y, l.Bounds.Min.Z,
		l.Bounds.Max.X, l.Bounds.Max.Y, l.Bounds.Max.Z)
	p.Printf("Chunks:     %v (%v sparse, %v RLE)\n", number.Decimal(len(l.Chunks)), number.Decimal(sparseCount), number.Decimal(rleCount))
	p.Printf("Voxels:     %v (sparse chunks only; RLE chunks omitted from this count)\n", number.Decimal(voxelCount))
	p.Printf("Rooms:      %v\n", number.Decimal(len(l.Rooms)))
	p.Printf("Entities:   %v\n", number.Decimal(len(l.Entities)))
	p.Printf("Prefabs:    %v instances\n", number.Decimal(len(l.PrefabInstances)))
	return nil
}
