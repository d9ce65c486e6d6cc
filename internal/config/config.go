// Package config holds the explicit, caller-constructed configuration
// objects that replace dantero-ps-mini-mc-go's package-level global
// singletons (its internal/config package exposed mutable package vars
// read from everywhere) — spec.md §9's Design Notes call this out
// directly ("Replace... global mutable config singletons with an
// explicit Config object passed to constructors").
package config

import (
	"log"

	"shipvox/internal/voxel"
)

// PaletteConfig holds per-VoxelType colour overrides, applied on top of
// the mesher's built-in default table (spec.md §4.9).
type PaletteConfig struct {
	Overrides map[string][3]float32
}

// BuildPalette resolves every named override into a voxel.Palette,
// silently skipping names that don't match a registered voxel.Type: a
// palette is cosmetic only, so an unrecognised override name is a
// non-fatal configuration mistake, not a load error.
func (p PaletteConfig) BuildPalette() *voxel.Palette {
	pal := voxel.NewPalette()
	for name, rgb := range p.Overrides {
		t, ok := voxel.TypeFromName(name)
		if !ok {
			continue
		}
		pal.Set(t, voxel.Color{R: rgb[0], G: rgb[1], B: rgb[2]})
	}
	return pal
}

// BuilderConfig holds the map builder's construction parameters
// (spec.md §4.6).
type BuilderConfig struct {
	// WallThicknessVoxels, FloorThicknessVoxels, CeilingThicknessVoxels
	// default to 8 (20cm at VOXEL_SIZE=0.025).
	WallThicknessVoxels    int
	FloorThicknessVoxels   int
	CeilingThicknessVoxels int

	// DoorWidthVoxels, DoorHeightVoxels default to 48 and 88.
	DoorWidthVoxels  int
	DoorHeightVoxels int
}

// DefaultBuilderConfig returns spec.md §4.6's stated defaults.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		WallThicknessVoxels:    8,
		FloorThicknessVoxels:   8,
		CeilingThicknessVoxels: 8,
		DoorWidthVoxels:        48,
		DoorHeightVoxels:       88,
	}
}

// RendererConfig holds the host renderer's amortised-remesh budget
// (spec.md §5): at most DirtyChunksPerTick chunks are remeshed per
// update() call.
type RendererConfig struct {
	DirtyChunksPerTick int
}

// DefaultRendererConfig returns spec.md §5's stated default of 4.
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{DirtyChunksPerTick: 4}
}

// EditorConfig holds the editor brush's bounds.
type EditorConfig struct {
	// MaxFillCells bounds flood fill so it always terminates (spec.md §4.8).
	MaxFillCells int
}

// DefaultEditorConfig returns spec.md §4.8's stated default of 10,000.
func DefaultEditorConfig() EditorConfig {
	return EditorConfig{MaxFillCells: 10_000}
}

// Config aggregates every explicit configuration object a shipvox host
// application constructs once at startup and threads through to the
// components that need it, plus the injected logger every component logs
// through (SPEC_FULL.md §4.10) rather than a package-level logger.
type Config struct {
	Builder  BuilderConfig
	Renderer RendererConfig
	Editor   EditorConfig
	Palette  PaletteConfig
	Logger   *log.Logger
}

// Default returns a Config with every sub-config at its spec-stated
// default and a logger writing to the standard logger's destination.
func Default() Config {
	return Config{
		Builder:  DefaultBuilderConfig(),
		Renderer: DefaultRendererConfig(),
		Editor:   DefaultEditorConfig(),
		Logger:   log.Default(),
	}
}
