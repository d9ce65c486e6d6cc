// Package worldgrid implements World: the map from chunk coordinate to
// Chunk, with edge-aware writes, bulk-mode change coalescing, and the
// cross-chunk peek the mesher needs. Grounded on dantero-ps-mini-mc-go's
// internal/world/{world.go,chunk_store.go}: the ChunkStore's map-of-chunks,
// RWMutex, and edge-dirtying Set() are kept, but the teacher's terrain
// generator, chunk streamer, and entity manager are dropped (spec.md's
// Non-goals exclude procedural generation and networked multi-writer
// semantics; entities here are plain data records owned by Layout/Prefab,
// not live Tickers) and replaced with the spec's bulk-mode / listener
// contract (spec.md §4.3, §9's "explicit changes queue, not closures").
package worldgrid

import (
	"sync"

	"shipvox/internal/chunk"
	"shipvox/internal/voxel"
)

// ChangeEvent names the chunk that was mutated.
type ChangeEvent struct {
	Coord chunk.Coord
}

// ChunkListener receives change events. Modelled as a small interface
// rather than a closure per spec.md §9's design notes, so ownership of the
// "who holds this listener" graph stays explicit.
type ChunkListener interface {
	OnChunkModified(ev ChangeEvent)
}

// ChunkListenerFunc adapts an ordinary function to ChunkListener.
type ChunkListenerFunc func(ev ChangeEvent)

// OnChunkModified implements ChunkListener.
func (f ChunkListenerFunc) OnChunkModified(ev ChangeEvent) { f(ev) }

// World is a sparse mapping from chunk coordinate to Chunk, plus the
// edge-propagation and bulk-mode rules from spec.md §4.3/§5.
type World struct {
	mu        sync.RWMutex
	chunks    map[chunk.Coord]*chunk.Chunk
	listeners map[int]ChunkListener
	nextSub   int
	bulk      bool
	// bulkTouched tracks chunks written to during the current bulk region,
	// so EndBulk can mark and notify exactly those that are still non-empty,
	// without an O(voxels) scan.
	bulkTouched map[chunk.Coord]struct{}
}

// New returns an empty World.
func New() *World {
	return &World{
		chunks:    make(map[chunk.Coord]*chunk.Chunk),
		listeners: make(map[int]ChunkListener),
	}
}

// GetChunk returns the chunk at coord, or nil if absent.
func (w *World) GetChunk(coord chunk.Coord) *chunk.Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.chunks[coord]
}

// getOrCreateChunk returns the chunk at coord, creating an empty one if
// necessary. Must be called with w.mu held for writing.
func (w *World) getOrCreateChunk(coord chunk.Coord) *chunk.Chunk {
	c, ok := w.chunks[coord]
	if !ok {
		c = chunk.New(coord)
		w.chunks[coord] = c
	}
	return c
}

// GetVoxel returns the cell at voxel coordinate v, or AirCell if the owning
// chunk does not exist. This is never an error (spec.md §7).
func (w *World) GetVoxel(v voxel.Coord) voxel.Cell {
	cc := toChunkCoord(voxel.VoxelToChunk(v))
	w.mu.RLock()
	c, ok := w.chunks[cc]
	w.mu.RUnlock()
	if !ok {
		return voxel.AirCell
	}
	local := voxel.VoxelToLocal(v)
	return c.Get(local.X, local.Y, local.Z)
}

// SetVoxel writes a cell at voxel coordinate v, creating the owning chunk if
// needed, then applies the edge-propagation rule: any local coordinate
// sitting at 0 or Size-1 on an axis marks the existing neighbour chunk on
// that axis dirty and emits a change event for it (spec.md §4.3).
func (w *World) SetVoxel(v voxel.Coord, cell voxel.Cell) {
	w.mu.Lock()
	cc := toChunkCoord(voxel.VoxelToChunk(v))
	c := w.getOrCreateChunk(cc)
	local := voxel.VoxelToLocal(v)

	before := c.Get(local.X, local.Y, local.Z)
	if before == cell {
		w.mu.Unlock()
		return
	}
	c.Set(local.X, local.Y, local.Z, cell)

	if w.bulk {
		w.bulkTouched[cc] = struct{}{}
		w.mu.Unlock()
		return
	}

	// Owner's event fires first (spec.md §5's ordering guarantee).
	owner := ChangeEvent{Coord: cc}
	neighbours := edgeNeighbours(cc, local)
	w.mu.Unlock()

	w.notify(owner)
	for _, n := range neighbours {
		w.mu.Lock()
		nc, ok := w.chunks[n]
		if ok {
			nc.SetDirty(true)
		}
		w.mu.Unlock()
		if ok {
			w.notify(ChangeEvent{Coord: n})
		}
	}
}

// edgeNeighbours returns the up-to-6 neighbour chunk coordinates a write at
// local coordinate touches, one per axis sitting at 0 or Size-1.
func edgeNeighbours(cc chunk.Coord, local voxel.Coord) []chunk.Coord {
	var out []chunk.Coord
	if local.X == 0 {
		out = append(out, chunk.Coord{X: cc.X - 1, Y: cc.Y, Z: cc.Z})
	} else if local.X == chunk.Size-1 {
		out = append(out, chunk.Coord{X: cc.X + 1, Y: cc.Y, Z: cc.Z})
	}
	if local.Y == 0 {
		out = append(out, chunk.Coord{X: cc.X, Y: cc.Y - 1, Z: cc.Z})
	} else if local.Y == chunk.Size-1 {
		out = append(out, chunk.Coord{X: cc.X, Y: cc.Y + 1, Z: cc.Z})
	}
	if local.Z == 0 {
		out = append(out, chunk.Coord{X: cc.X, Y: cc.Y, Z: cc.Z - 1})
	} else if local.Z == chunk.Size-1 {
		out = append(out, chunk.Coord{X: cc.X, Y: cc.Y, Z: cc.Z + 1})
	}
	return out
}

// FillBox writes cell into every voxel coordinate in [min, max) by repeated
// SetVoxel calls, per spec.md §4.3.
func (w *World) FillBox(min, max voxel.Coord, cell voxel.Cell) {
	for x := min.X; x < max.X; x++ {
		for y := min.Y; y < max.Y; y++ {
			for z := min.Z; z < max.Z; z++ {
				w.SetVoxel(voxel.Coord{X: x, Y: y, Z: z}, cell)
			}
		}
	}
}

// BeginBulk suppresses per-voxel change events until EndBulk. Callers use
// this to avoid O(voxels) notification cost during map construction
// (spec.md §5).
func (w *World) BeginBulk() {
	w.mu.Lock()
	w.bulk = true
	w.bulkTouched = make(map[chunk.Coord]struct{})
	w.mu.Unlock()
}

// EndBulk marks every currently-non-empty chunk touched during the bulk
// region as dirty and fires exactly one change event per such chunk, in no
// particular order (spec.md §4.3/§5).
func (w *World) EndBulk() {
	w.mu.Lock()
	w.bulk = false
	touched := w.bulkTouched
	w.bulkTouched = nil
	var toNotify []chunk.Coord
	for cc := range touched {
		if c, ok := w.chunks[cc]; ok && !c.IsEmpty() {
			c.SetDirty(true)
			toNotify = append(toNotify, cc)
		}
	}
	w.mu.Unlock()

	for _, cc := range toNotify {
		w.notify(ChangeEvent{Coord: cc})
	}
}

// PruneEmptyChunks removes every chunk with zero voxels and returns the
// count removed.
func (w *World) PruneEmptyChunks() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	removed := 0
	for cc, c := range w.chunks {
		if c.IsEmpty() {
			delete(w.chunks, cc)
			removed++
		}
	}
	return removed
}

// Bounds is a voxel-space axis-aligned bounding box.
type Bounds struct {
	Min, Max voxel.Coord
}

// GetBounds returns the union AABB in voxel coordinates across every
// non-empty chunk, or ok=false if the world is empty.
func (w *World) GetBounds() (b Bounds, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	first := true
	for cc, c := range w.chunks {
		if c.IsEmpty() {
			continue
		}
		base := voxel.Coord{X: cc.X * chunk.Size, Y: cc.Y * chunk.Size, Z: cc.Z * chunk.Size}
		chunkMin := base
		chunkMax := voxel.Coord{X: base.X + chunk.Size, Y: base.Y + chunk.Size, Z: base.Z + chunk.Size}
		if first {
			b.Min, b.Max = chunkMin, chunkMax
			first = false
			continue
		}
		b.Min = b.Min.Min(chunkMin)
		b.Max = b.Max.Max(chunkMax)
	}
	return b, !first
}

// GetVoxelForMeshing reads a cell relative to a chunk the mesher is
// currently working on: if (lx,ly,lz) is inside the chunk it reads locally,
// otherwise it translates to world coordinates and reads through the World.
// This is the mesher's cross-chunk neighbour peek (spec.md §4.4).
func (w *World) GetVoxelForMeshing(c *chunk.Chunk, lx, ly, lz int) voxel.Cell {
	if lx >= 0 && lx < chunk.Size && ly >= 0 && ly < chunk.Size && lz >= 0 && lz < chunk.Size {
		return c.Get(lx, ly, lz)
	}
	base := voxel.Coord{X: c.Coord.X * chunk.Size, Y: c.Coord.Y * chunk.Size, Z: c.Coord.Z * chunk.Size}
	return w.GetVoxel(voxel.Coord{X: base.X + lx, Y: base.Y + ly, Z: base.Z + lz})
}

// Clear removes every chunk from the world.
func (w *World) Clear() {
	w.mu.Lock()
	w.chunks = make(map[chunk.Coord]*chunk.Chunk)
	w.mu.Unlock()
}

// OnChunkModified subscribes a listener to change events and returns an
// unsubscribe function.
func (w *World) OnChunkModified(l ChunkListener) (unsubscribe func()) {
	w.mu.Lock()
	id := w.nextSub
	w.nextSub++
	w.listeners[id] = l
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	}
}

func (w *World) notify(ev ChangeEvent) {
	w.mu.RLock()
	ls := make([]ChunkListener, 0, len(w.listeners))
	for _, l := range w.listeners {
		ls = append(ls, l)
	}
	w.mu.RUnlock()
	for _, l := range ls {
		l.OnChunkModified(ev)
	}
}

// AllChunks returns every chunk currently in the world, paired with its
// coordinate.
func (w *World) AllChunks() []*chunk.Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*chunk.Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	return out
}

// DirtyChunks returns up to n chunks currently marked dirty, for the
// renderer's amortised per-tick remesh budget (spec.md §5).
func (w *World) DirtyChunks(n int) []*chunk.Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*chunk.Chunk, 0, n)
	for _, c := range w.chunks {
		if len(out) >= n {
			break
		}
		if c.IsDirty() {
			out = append(out, c)
		}
	}
	return out
}

func toChunkCoord(c voxel.Coord) chunk.Coord {
	return chunk.Coord{X: c.X, Y: c.Y, Z: c.Z}
}
