// Package mesher implements the greedy mesher: per-chunk conversion of
// voxel occupancy into an optimised indexed triangle mesh via 2D face
// merging across three axes and two directions (spec.md §4.4).
//
// Grounded on dantero-ps-mini-mc-go's internal/meshing/greedy.go, which
// builds a per-slice mask and greedy-merges it into rectangles one axis at
// a time; shipvox keeps that mask-and-merge technique but replaces the
// teacher's three hand-duplicated per-axis loops (and its packed-uint32
// GPU vertex format, specific to the teacher's own shader) with a single
// axis-generic pass producing plain float32 position/normal/colour
// attributes and 32-bit indices, matching spec.md's output contract and
// avoiding bugs from the duplicated logic drifting apart across axes.
package mesher

import (
	"shipvox/internal/chunk"
	"shipvox/internal/profiling"
	"shipvox/internal/voxel"
	"shipvox/internal/worldgrid"
)

// Vertex is one mesh vertex: world-space position, outward normal, and a
// cosmetic vertex colour.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [3]float32
}

// Mesh is one chunk's indexed triangle mesh.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// axisNormals lists the 6 face directions in spec.md's fixed order
// (-X,+X,-Y,+Y,-Z,+Z) as (axis, sign) pairs.
var axisNormals = []struct {
	axis int
	sign int
}{
	{0, -1}, {0, 1},
	{1, -1}, {1, 1},
	{2, -1}, {2, 1},
}

// Build runs the greedy mesher over c, using world for cross-chunk
// neighbour peeks (spec.md §4.4), and returns the chunk's mesh positioned
// at the chunk's world corner.
func Build(world *worldgrid.World, c *chunk.Chunk, palette *voxel.Palette) Mesh {
	defer profiling.Track("mesher.Build")()
	var mesh Mesh
	corner := [3]float32{
		float32(c.Coord.X) * chunk.Size * voxel.VoxelSize,
		float32(c.Coord.Y) * chunk.Size * voxel.VoxelSize,
		float32(c.Coord.Z) * chunk.Size * voxel.VoxelSize,
	}
	for _, an := range axisNormals {
		buildDirection(world, c, an.axis, an.sign, corner, palette, &mesh)
	}
	return mesh
}

// localAt builds a 3-int coordinate with component `axis` set to aVal and
// the other two (in the fixed u=(axis+1)%3, v=(axis+2)%3 order) set to
// uVal, vVal respectively.
func localAt(axis, aVal, uVal, vVal int) [3]int {
	u := (axis + 1) % 3
	v := (axis + 2) % 3
	var p [3]int
	p[axis] = aVal
	p[u] = uVal
	p[v] = vVal
	return p
}

func buildDirection(world *worldgrid.World, c *chunk.Chunk, axis, sign int, corner [3]float32, palette *voxel.Palette, mesh *Mesh) {
	const S = chunk.Size
	u := (axis + 1) % 3
	v := (axis + 2) % 3
	_ = u
	_ = v

	for s := 0; s < S; s++ {
		// mask[j*S+i] holds (type+1), or 0 for "no face"; j indexes the v
		// axis (row), i indexes the u axis (column) per spec.md's M[v][u].
		mask := make([]int, S*S)
		for j := 0; j < S; j++ {
			for i := 0; i < S; i++ {
				p := localAt(axis, s, i, j)
				cell := c.Get(p[0], p[1], p[2])
				if cell.IsTransparent() {
					continue
				}
				np := localAt(axis, s, i, j)
				np[axis] += sign
				neighbour := world.GetVoxelForMeshing(c, np[0], np[1], np[2])
				if neighbour.IsTransparent() {
					mask[j*S+i] = int(cell.Type()) + 1
				}
			}
		}

		// Greedy-merge equal non-null mask cells into rectangles, scanning
		// row-major (j outer, i inner), per spec.md §4.4.2.
		for j := 0; j < S; j++ {
			for i := 0; i < S; i++ {
				idx := j*S + i
				val := mask[idx]
				if val == 0 {
					continue
				}
				w := 1
				for i+w < S && mask[j*S+i+w] == val {
					w++
				}
				h := 1
			heightLoop:
				for j+h < S {
					for k := 0; k < w; k++ {
						if mask[(j+h)*S+i+k] != val {
							break heightLoop
						}
					}
					h++
				}

				emitQuad(axis, sign, s, i, j, w, h, voxel.Type(val-1), corner, palette, mesh)

				for dj := 0; dj < h; dj++ {
					for di := 0; di < w; di++ {
						mask[(j+dj)*S+i+di] = 0
					}
				}
			}
		}
	}
}

func emitQuad(axis, sign, s, i, j, w, h int, ty voxel.Type, corner [3]float32, palette *voxel.Palette, mesh *Mesh) {
	facePlane := s
	if sign > 0 {
		facePlane = s + 1
	}

	c0 := localAt(axis, facePlane, i, j)
	c1 := localAt(axis, facePlane, i+w, j)
	c2 := localAt(axis, facePlane, i+w, j+h)
	c3 := localAt(axis, facePlane, i, j+h)

	toWorld := func(p [3]int) [3]float32 {
		return [3]float32{
			corner[0] + float32(p[0])*voxel.VoxelSize,
			corner[1] + float32(p[1])*voxel.VoxelSize,
			corner[2] + float32(p[2])*voxel.VoxelSize,
		}
	}

	var normal [3]float32
	normal[axis] = float32(sign)

	col := palette.Color(ty)
	colorArr := [3]float32{col.R, col.G, col.B}

	base := uint32(len(mesh.Vertices))
	positions := [4][3]float32{toWorld(c0), toWorld(c1), toWorld(c2), toWorld(c3)}
	for _, pos := range positions {
		mesh.Vertices = append(mesh.Vertices, Vertex{Position: pos, Normal: normal, Color: colorArr})
	}

	if sign > 0 {
		mesh.Indices = append(mesh.Indices, base+0, base+1, base+2, base+0, base+2, base+3)
	} else {
		mesh.Indices = append(mesh.Indices, base+0, base+2, base+1, base+0, base+3, base+2)
	}
}
