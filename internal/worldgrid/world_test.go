package worldgrid

import (
	"testing"

	"shipvox/internal/chunk"
	"shipvox/internal/voxel"
)

// S1 from spec.md §8: single write and read.
func TestSingleWriteAndRead(t *testing.T) {
	w := New()
	pos := voxel.Coord{X: 3, Y: -2, Z: 7}
	w.SetVoxel(pos, voxel.MakeCell(voxel.Wall, 0))

	got := w.GetVoxel(pos)
	if got.Type() != voxel.Wall {
		t.Fatalf("GetVoxel(%v) = %v, want Wall", pos, got.Type())
	}
	if !w.GetVoxel(voxel.Coord{X: 3, Y: -2, Z: 8}).IsAir() {
		t.Fatalf("neighbouring voxel should be air")
	}

	cc := w.GetChunk(chunk.Coord{X: 0, Y: -1, Z: 0})
	if cc == nil {
		t.Fatalf("expected chunk at (0,-1,0)")
	}
}

// Invariant 1: AIR outside every non-empty chunk's span.
func TestAirOutsideChunks(t *testing.T) {
	w := New()
	if !w.GetVoxel(voxel.Coord{X: 1000, Y: 1000, Z: 1000}).IsAir() {
		t.Fatalf("expected air in empty world")
	}
}

// Invariant 2: setting AIR never increases voxel count.
func TestSetAirNeverIncreasesCount(t *testing.T) {
	w := New()
	pos := voxel.Coord{X: 0, Y: 0, Z: 0}
	w.SetVoxel(pos, voxel.AirCell)
	c := w.GetChunk(chunk.Coord{})
	if c != nil && c.VoxelCount() != 0 {
		t.Fatalf("voxel count should remain 0")
	}
}

// Invariant 3: setting AIR where AIR exists is a no-op, no events fire.
func TestSetAirOnAirIsNoopNoEvent(t *testing.T) {
	w := New()
	fired := 0
	w.OnChunkModified(ChunkListenerFunc(func(ev ChangeEvent) { fired++ }))
	w.SetVoxel(voxel.Coord{X: 1, Y: 1, Z: 1}, voxel.AirCell)
	if fired != 0 {
		t.Fatalf("expected no events, got %d", fired)
	}
}

// Invariant 4: edge propagation marks neighbour dirty and fires an event.
func TestEdgePropagation(t *testing.T) {
	w := New()
	// Seed the neighbour chunk first so it exists.
	w.SetVoxel(voxel.Coord{X: -1, Y: 0, Z: 0}, voxel.MakeCell(voxel.Wall, 0))
	nb := w.GetChunk(chunk.Coord{X: -1, Y: 0, Z: 0})
	nb.SetClean()

	var events []ChangeEvent
	w.OnChunkModified(ChunkListenerFunc(func(ev ChangeEvent) { events = append(events, ev) }))

	// Write at local x=0 in chunk (0,0,0), which borders chunk (-1,0,0).
	w.SetVoxel(voxel.Coord{X: 0, Y: 5, Z: 5}, voxel.MakeCell(voxel.Wall, 0))

	if !nb.IsDirty() {
		t.Fatalf("expected neighbour chunk to be marked dirty")
	}
	if len(events) < 2 {
		t.Fatalf("expected at least 2 events (owner + neighbour), got %d", len(events))
	}
	if events[0].Coord != (chunk.Coord{X: 0, Y: 0, Z: 0}) {
		t.Fatalf("owner event should fire first, got %v", events[0].Coord)
	}
}

func TestBulkModeSuppressesThenBatches(t *testing.T) {
	w := New()
	var events []ChangeEvent
	w.OnChunkModified(ChunkListenerFunc(func(ev ChangeEvent) { events = append(events, ev) }))

	w.BeginBulk()
	for i := 0; i < 20; i++ {
		w.SetVoxel(voxel.Coord{X: i, Y: 0, Z: 0}, voxel.MakeCell(voxel.Wall, 0))
	}
	if len(events) != 0 {
		t.Fatalf("expected no events during bulk mode, got %d", len(events))
	}
	w.EndBulk()
	if len(events) == 0 {
		t.Fatalf("expected events after EndBulk")
	}
}

func TestPruneEmptyChunks(t *testing.T) {
	w := New()
	pos := voxel.Coord{X: 100, Y: 100, Z: 100}
	w.SetVoxel(pos, voxel.MakeCell(voxel.Wall, 0))
	w.SetVoxel(pos, voxel.AirCell)
	removed := w.PruneEmptyChunks()
	if removed != 1 {
		t.Fatalf("PruneEmptyChunks() = %d, want 1", removed)
	}
	if w.GetChunk(toChunkCoord(voxel.VoxelToChunk(pos))) != nil {
		t.Fatalf("chunk owning %v still present after PruneEmptyChunks", pos)
	}
}

func TestBoundsEmptyWorld(t *testing.T) {
	w := New()
	_, ok := w.GetBounds()
	if ok {
		t.Fatalf("expected no bounds for empty world")
	}
}

func TestGetVoxelForMeshingCrossesChunk(t *testing.T) {
	w := New()
	w.SetVoxel(voxel.Coord{X: 16, Y: 0, Z: 0}, voxel.MakeCell(voxel.Wall, 0))
	c := w.GetChunk(chunk.Coord{X: 0, Y: 0, Z: 0})
	if c == nil {
		c = chunk.New(chunk.Coord{X: 0, Y: 0, Z: 0})
	}
	got := w.GetVoxelForMeshing(c, chunk.Size, 0, 0)
	if got.Type() != voxel.Wall {
		t.Fatalf("cross-chunk peek = %v, want Wall", got.Type())
	}
}
