// Package forge is the scripting bridge namespace a DSL-driven runtime
// ("Forge" or similar) is given to mutate voxels reactively. The DSL's own
// lexer/parser/evaluator is out of scope (spec.md §1's Out of scope list)
// — this package is only the host-side surface such a runtime calls into.
//
// Grounded on dantero-ps-mini-mc-go's internal/world exported block API
// (Get/Set/blockAt-style accessors), which is exactly the shape a
// scripting host needs: plain get/set plus a handful of shape helpers,
// nothing stateful of its own.
package forge

import (
	"shipvox/internal/voxel"
	"shipvox/internal/worldgrid"
)

// Bridge exposes get/set/fill/box/sphere/replace/make/type/variant and the
// coordinate conversions a scripting runtime needs, over a fixed World
// (spec.md §6's "scripting bridge" external interface).
type Bridge struct {
	world *worldgrid.World
}

// New returns a Bridge over world.
func New(world *worldgrid.World) *Bridge {
	return &Bridge{world: world}
}

// Exported constants a scripting runtime binds by name.
const (
	VoxelSize = voxel.VoxelSize
	ChunkSize = voxel.ChunkSize
	Air       = voxel.Air
)

// Get returns the cell at v.
func (b *Bridge) Get(v voxel.Coord) voxel.Cell {
	return b.world.GetVoxel(v)
}

// Set writes cell at v. Setting AIR clears the cell (spec.md §6).
func (b *Bridge) Set(v voxel.Coord, cell voxel.Cell) {
	b.world.SetVoxel(v, cell)
}

// Fill writes cell into every voxel in [min, max) (spec.md §6's `fill`).
func (b *Bridge) Fill(min, max voxel.Coord, cell voxel.Cell) {
	b.world.FillBox(min, max, cell)
}

// Box is an alias for Fill exposed under the DSL's separate `box` name
// (spec.md §6 lists `fill` and `box` as distinct bridge entries even
// though both fill an axis-aligned span).
func (b *Bridge) Box(min, max voxel.Coord, cell voxel.Cell) {
	b.Fill(min, max, cell)
}

// Sphere writes cell into every voxel within radius (in voxels) of
// centre, inclusive, by Euclidean distance from centre's voxel-centre
// point.
func (b *Bridge) Sphere(centre voxel.Coord, radius int, cell voxel.Cell) {
	if radius < 0 {
		return
	}
	r2 := radius * radius
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				if dx*dx+dy*dy+dz*dz > r2 {
					continue
				}
				b.world.SetVoxel(voxel.Coord{X: centre.X + dx, Y: centre.Y + dy, Z: centre.Z + dz}, cell)
			}
		}
	}
}

// Replace scans [min, max) and substitutes every cell of type from with
// to, returning the number of replacements made (spec.md §6).
func (b *Bridge) Replace(min, max voxel.Coord, from, to voxel.Type) int {
	count := 0
	for x := min.X; x < max.X; x++ {
		for y := min.Y; y < max.Y; y++ {
			for z := min.Z; z < max.Z; z++ {
				v := voxel.Coord{X: x, Y: y, Z: z}
				cell := b.world.GetVoxel(v)
				if cell.Type() != from {
					continue
				}
				b.world.SetVoxel(v, voxel.MakeCell(to, cell.Variant()))
				count++
			}
		}
	}
	return count
}

// Make packs a type and variant into a Cell (spec.md §6's `make`).
func (b *Bridge) Make(t voxel.Type, variant uint8) voxel.Cell {
	return voxel.MakeCell(t, variant)
}

// Type extracts the material type from a cell (spec.md §6's `type`).
func (b *Bridge) Type(cell voxel.Cell) voxel.Type {
	return cell.Type()
}

// Variant extracts the palette variant from a cell (spec.md §6's `variant`).
func (b *Bridge) Variant(cell voxel.Cell) uint8 {
	return cell.Variant()
}

// IsEmpty reports whether v holds AIR.
func (b *Bridge) IsEmpty(v voxel.Coord) bool {
	return b.world.GetVoxel(v).IsAir()
}

// WorldToVoxel converts a world-space point to the voxel it falls in.
func (b *Bridge) WorldToVoxel(p voxel.WorldPoint) voxel.Coord {
	return voxel.WorldToVoxel(p)
}

// VoxelToWorld converts a voxel coordinate to its world-space centre.
func (b *Bridge) VoxelToWorld(v voxel.Coord) voxel.WorldPoint {
	return voxel.VoxelToWorldCenter(v)
}

// VoxelToChunk converts a voxel coordinate to its owning chunk coordinate.
func (b *Bridge) VoxelToChunk(v voxel.Coord) voxel.Coord {
	return voxel.VoxelToChunk(v)
}
