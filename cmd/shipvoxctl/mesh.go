package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"shipvox/internal/chunk"
	"shipvox/internal/config"
	"shipvox/internal/layout"
	"shipvox/internal/mesher"
)

// runMesh loads a Layout V2 file, greedy-meshes one chunk, and writes the
// binary mesh cache format (SPEC_FULL.md §6.1).
func runMesh(args []string) error {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	out := fs.String("o", "", "output .vmsh file (required)")
	fs.Parse(args)
	pos := fs.Args()
	if len(pos) > 4 {
		// Flags may also follow the four positional arguments.
		fs.Parse(pos[4:])
		pos = append(pos[:4:4], fs.Args()...)
	}

	if len(pos) != 4 {
		return fmt.Errorf("usage: shipvoxctl mesh <file> <cx> <cy> <cz> -o <out>")
	}
	if *out == "" {
		return fmt.Errorf("-o <out> is required")
	}

	cx, err := strconv.Atoi(pos[1])
	if err != nil {
		return fmt.Errorf("invalid cx: %w", err)
	}
	cy, err := strconv.Atoi(pos[2])
	if err != nil {
		return fmt.Errorf("invalid cy: %w", err)
	}
	cz, err := strconv.Atoi(pos[3])
	if err != nil {
		return fmt.Errorf("invalid cz: %w", err)
	}

	data, err := os.ReadFile(pos[0])
	if err != nil {
		return err
	}

	l, err := layout.Unmarshal(data)
	if err != nil {
		return err
	}

	world, err := layout.ToWorld(l)
	if err != nil {
		return err
	}

	coord := chunk.Coord{X: cx, Y: cy, Z: cz}
	c := world.GetChunk(coord)
	if c == nil {
		return fmt.Errorf("no chunk at (%d,%d,%d)", cx, cy, cz)
	}

	palette := config.Default().Palette.BuildPalette()
	m := mesher.Build(world, c, palette)

	if err := os.WriteFile(*out, layout.EncodeMesh(m), 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %d vertices, %d indices to %s\n", len(m.Vertices), len(m.Indices), *out)
	return nil
}
