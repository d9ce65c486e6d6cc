package mesher

import (
	"testing"
	"time"

	"shipvox/internal/chunk"
	"shipvox/internal/voxel"
	"shipvox/internal/worldgrid"
)

func TestContentHashDiffersForDifferentLayoutsWithEqualVoxelCount(t *testing.T) {
	a := chunk.New(chunk.Coord{})
	a.Set(0, 0, 0, voxel.MakeCell(voxel.Wall, 0))

	b := chunk.New(chunk.Coord{})
	b.Set(1, 0, 0, voxel.MakeCell(voxel.Wall, 0))

	if a.VoxelCount() != b.VoxelCount() {
		t.Fatalf("test setup: expected equal voxel counts, got %d and %d", a.VoxelCount(), b.VoxelCount())
	}
	if contentHash(a) == contentHash(b) {
		t.Fatal("expected different cell positions to hash differently despite equal voxel counts")
	}
}

func TestContentHashDiffersForDifferentCellTypeWithEqualVoxelCount(t *testing.T) {
	a := chunk.New(chunk.Coord{})
	a.Set(0, 0, 0, voxel.MakeCell(voxel.Wall, 0))

	b := chunk.New(chunk.Coord{})
	b.Set(0, 0, 0, voxel.MakeCell(voxel.Floor, 0))

	if contentHash(a) == contentHash(b) {
		t.Fatal("expected different cell types at the same position to hash differently")
	}
}

func TestContentHashStableAcrossIterationOrder(t *testing.T) {
	a := chunk.New(chunk.Coord{})
	a.Set(0, 0, 0, voxel.MakeCell(voxel.Wall, 0))
	a.Set(1, 0, 0, voxel.MakeCell(voxel.Floor, 0))
	a.Set(2, 0, 0, voxel.MakeCell(voxel.Ceiling, 0))

	b := chunk.New(chunk.Coord{})
	b.Set(2, 0, 0, voxel.MakeCell(voxel.Ceiling, 0))
	b.Set(1, 0, 0, voxel.MakeCell(voxel.Floor, 0))
	b.Set(0, 0, 0, voxel.MakeCell(voxel.Wall, 0))

	if contentHash(a) != contentHash(b) {
		t.Fatal("expected the same cells to hash identically regardless of insertion order")
	}
}

func TestPoolCachesUnchangedChunkAndRebuildsChangedOne(t *testing.T) {
	world := worldgrid.New()
	palette := voxel.NewPalette()
	pool := NewPool(world, palette, 1, 4, 4)
	defer pool.Close()

	snap := chunk.New(chunk.Coord{})
	snap.Set(0, 0, 0, voxel.MakeCell(voxel.Wall, 0))

	if !pool.Submit(Job{Coord: snap.Coord, Snapshot: snap.Clone()}) {
		t.Fatal("expected first submit to succeed")
	}
	first := recvResult(t, pool)
	if len(first.Mesh.Vertices) == 0 {
		t.Fatal("expected a non-empty mesh for a single wall voxel")
	}

	// Same coordinate, same contents: must hit the cache and return the
	// identical mesh without rebuilding.
	if !pool.Submit(Job{Coord: snap.Coord, Snapshot: snap.Clone()}) {
		t.Fatal("expected second submit to succeed")
	}
	second := recvResult(t, pool)
	if len(second.Mesh.Vertices) != len(first.Mesh.Vertices) {
		t.Fatalf("expected the cached mesh to have %d vertices, got %d", len(first.Mesh.Vertices), len(second.Mesh.Vertices))
	}

	// Same coordinate, different contents but the same non-air voxel
	// count: must NOT be served from the cache.
	changed := chunk.New(snap.Coord)
	changed.Set(1, 0, 0, voxel.MakeCell(voxel.Wall, 0))
	if changed.VoxelCount() != snap.VoxelCount() {
		t.Fatalf("test setup: expected equal voxel counts, got %d and %d", changed.VoxelCount(), snap.VoxelCount())
	}
	if !pool.Submit(Job{Coord: changed.Coord, Snapshot: changed}) {
		t.Fatal("expected third submit to succeed")
	}
	third := recvResult(t, pool)
	if vertexSetEqual(first.Mesh, third.Mesh) {
		t.Fatal("expected a differently-positioned voxel to produce a different mesh, not a stale cache hit")
	}
}

func recvResult(t *testing.T, pool *Pool) Result {
	t.Helper()
	select {
	case r := <-pool.Results():
		return r
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a mesh result")
		return Result{}
	}
}

func vertexSetEqual(a, b Mesh) bool {
	if len(a.Vertices) != len(b.Vertices) {
		return false
	}
	for i := range a.Vertices {
		if a.Vertices[i].Position != b.Vertices[i].Position {
			return false
		}
	}
	return true
}
