package mesher

import (
	"testing"

	"shipvox/internal/chunk"
	"shipvox/internal/voxel"
	"shipvox/internal/worldgrid"
)

// S4 from spec.md §8: single 1x1x1 WALL cube.
func TestSingleVoxelCube(t *testing.T) {
	w := worldgrid.New()
	w.SetVoxel(voxel.Coord{}, voxel.MakeCell(voxel.Wall, 0))
	c := w.GetChunk(chunk.Coord{})
	mesh := Build(w, c, voxel.NewPalette())

	if len(mesh.Vertices) != 24 {
		t.Fatalf("vertex count = %d, want 24", len(mesh.Vertices))
	}
	if len(mesh.Indices) != 36 {
		t.Fatalf("index count = %d, want 36 (12 triangles)", len(mesh.Indices))
	}
}

// S5 from spec.md §8: 4x1x4 floor slab merges into 2 big quads + 4 side quads.
func TestFloorSlabMerging(t *testing.T) {
	w := worldgrid.New()
	w.BeginBulk()
	for x := 0; x < 4; x++ {
		for z := 0; z < 4; z++ {
			w.SetVoxel(voxel.Coord{X: x, Y: 0, Z: z}, voxel.MakeCell(voxel.Floor, 0))
		}
	}
	w.EndBulk()
	c := w.GetChunk(chunk.Coord{})
	mesh := Build(w, c, voxel.NewPalette())

	// 2 quads of 4 verts (top/bottom) + 4 side quads of 4 verts = 6*4 = 24.
	if len(mesh.Vertices) != 24 {
		t.Fatalf("vertex count = %d, want 24", len(mesh.Vertices))
	}
	if len(mesh.Indices) != 36 {
		t.Fatalf("index count = %d, want 36", len(mesh.Indices))
	}
}

func TestTwoSeparatedVoxelsDoNotMerge(t *testing.T) {
	w := worldgrid.New()
	w.SetVoxel(voxel.Coord{X: 0, Y: 0, Z: 0}, voxel.MakeCell(voxel.Wall, 0))
	w.SetVoxel(voxel.Coord{X: 2, Y: 0, Z: 0}, voxel.MakeCell(voxel.Wall, 0))
	c := w.GetChunk(chunk.Coord{})
	mesh := Build(w, c, voxel.NewPalette())
	if len(mesh.Vertices) != 48 {
		t.Fatalf("vertex count = %d, want 48 (two independent cubes)", len(mesh.Vertices))
	}
}

func TestTwoAdjacentVoxelsMergeIntoCuboid(t *testing.T) {
	w := worldgrid.New()
	w.SetVoxel(voxel.Coord{X: 0, Y: 0, Z: 0}, voxel.MakeCell(voxel.Wall, 0))
	w.SetVoxel(voxel.Coord{X: 1, Y: 0, Z: 0}, voxel.MakeCell(voxel.Wall, 0))
	c := w.GetChunk(chunk.Coord{})
	mesh := Build(w, c, voxel.NewPalette())
	// A 2x1x1 cuboid has 6 faces => 24 vertices, same as a single cube.
	if len(mesh.Vertices) != 24 {
		t.Fatalf("vertex count = %d, want 24 (merged 2x1x1 cuboid)", len(mesh.Vertices))
	}
}

func TestCrossChunkFaceCulling(t *testing.T) {
	w := worldgrid.New()
	// Voxel at the +X edge of chunk (0,0,0) and its neighbour just across
	// the boundary in chunk (1,0,0): the shared face must not be emitted.
	w.SetVoxel(voxel.Coord{X: chunk.Size - 1, Y: 0, Z: 0}, voxel.MakeCell(voxel.Wall, 0))
	w.SetVoxel(voxel.Coord{X: chunk.Size, Y: 0, Z: 0}, voxel.MakeCell(voxel.Wall, 0))

	c0 := w.GetChunk(chunk.Coord{X: 0, Y: 0, Z: 0})
	mesh0 := Build(w, c0, voxel.NewPalette())
	// 5 visible faces (shared +X face culled) = 20 vertices.
	if len(mesh0.Vertices) != 20 {
		t.Fatalf("chunk0 vertex count = %d, want 20", len(mesh0.Vertices))
	}

	c1 := w.GetChunk(chunk.Coord{X: 1, Y: 0, Z: 0})
	mesh1 := Build(w, c1, voxel.NewPalette())
	if len(mesh1.Vertices) != 20 {
		t.Fatalf("chunk1 vertex count = %d, want 20", len(mesh1.Vertices))
	}
}

func TestDeterministicRebuild(t *testing.T) {
	w := worldgrid.New()
	w.SetVoxel(voxel.Coord{X: 1, Y: 2, Z: 3}, voxel.MakeCell(voxel.Wall, 0))
	w.SetVoxel(voxel.Coord{X: 1, Y: 2, Z: 4}, voxel.MakeCell(voxel.Floor, 0))
	c := w.GetChunk(chunk.Coord{})

	palette := voxel.NewPalette()
	m1 := Build(w, c, palette)
	m2 := Build(w, c, palette)

	if len(m1.Vertices) != len(m2.Vertices) || len(m1.Indices) != len(m2.Indices) {
		t.Fatalf("mesh sizes differ across identical rebuilds")
	}
	for i := range m1.Vertices {
		if m1.Vertices[i] != m2.Vertices[i] {
			t.Fatalf("vertex %d differs across identical rebuilds: %v vs %v", i, m1.Vertices[i], m2.Vertices[i])
		}
	}
	for i := range m1.Indices {
		if m1.Indices[i] != m2.Indices[i] {
			t.Fatalf("index %d differs across identical rebuilds", i)
		}
	}
}

func TestWindingOrderPerDirection(t *testing.T) {
	w := worldgrid.New()
	w.SetVoxel(voxel.Coord{}, voxel.MakeCell(voxel.Wall, 0))
	c := w.GetChunk(chunk.Coord{})
	mesh := Build(w, c, voxel.NewPalette())

	for q := 0; q < len(mesh.Vertices)/4; q++ {
		base := uint32(q * 4)
		n := mesh.Vertices[base].Normal
		sign := n[0] + n[1] + n[2] // exactly one nonzero component
		i0, i1, i2, i3, i4, i5 := mesh.Indices[q*6], mesh.Indices[q*6+1], mesh.Indices[q*6+2], mesh.Indices[q*6+3], mesh.Indices[q*6+4], mesh.Indices[q*6+5]
		if sign > 0 {
			if i0 != base || i1 != base+1 || i2 != base+2 || i3 != base || i4 != base+2 || i5 != base+3 {
				t.Fatalf("quad %d (+ normal) has wrong winding: %d,%d,%d,%d,%d,%d", q, i0, i1, i2, i3, i4, i5)
			}
		} else {
			if i0 != base || i1 != base+2 || i2 != base+1 || i3 != base || i4 != base+3 || i5 != base+2 {
				t.Fatalf("quad %d (- normal) has wrong winding: %d,%d,%d,%d,%d,%d", q, i0, i1, i2, i3, i4, i5)
			}
		}
	}
}
