// Package chunk implements the 16x16x16 sparse cell storage unit described
// in spec.md §3/§4.2: a Chunk owns a packed-local-index -> Cell mapping,
// AIR cells are never stored, and mutation flips a dirty flag the owning
// World uses for bounded, amortised re-meshing.
//
// Grounded on dantero-ps-mini-mc-go's internal/world/chunk.go, which divides
// a column into 16 fixed 16x16x16 sections backed by flat BlockType slices
// that are freed back to nil when emptied. shipvox generalises that idea to
// a single 16^3 chunk (spec's chunk IS the 16^3 unit, there is no column
// above it) and, per the Design Notes' "Acceptable as a baseline... provide
// two backends" guidance, offers both a sparse (hash map) and a dense
// (fixed array) backend behind the same Chunk API, switching to dense
// automatically at the same 20% density threshold used by serialisation
// and back to sparse below 10%.
package chunk

import "shipvox/internal/voxel"

// Size is the edge length of a Chunk in voxels.
const Size = voxel.ChunkSize

// Volume is the total number of voxel slots in a chunk (16^3 = 4096).
const Volume = Size * Size * Size

// denseThreshold matches the sparse/RLE density rule in spec.md §4.2/§8.6:
// a chunk whose non-air count is >= 20% of its volume switches backend.
const denseThreshold = Volume / 5

// Coord identifies a Chunk by its chunk-space coordinate (not voxel space).
type Coord struct{ X, Y, Z int }

// Add returns the componentwise sum of two chunk coordinates.
func (c Coord) Add(o Coord) Coord { return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z} }

// cellStore is the storage backend interface a Chunk delegates to.
type cellStore interface {
	get(packed int) voxel.Cell
	set(packed int, c voxel.Cell) (prevWasAir, nowIsAir bool)
	count() int
	clone() cellStore
	clear()
	forEach(func(packed int, c voxel.Cell))
}

// sparseStore is a hash-map backend: only non-air cells occupy memory.
type sparseStore map[int]voxel.Cell

func newSparseStore() sparseStore { return make(sparseStore) }

func (s sparseStore) get(packed int) voxel.Cell {
	if c, ok := s[packed]; ok {
		return c
	}
	return voxel.AirCell
}

func (s sparseStore) set(packed int, c voxel.Cell) (prevWasAir, nowIsAir bool) {
	_, existed := s[packed]
	prevWasAir = !existed
	if c.IsAir() {
		if existed {
			delete(s, packed)
		}
		return prevWasAir, true
	}
	s[packed] = c
	return prevWasAir, false
}

func (s sparseStore) count() int { return len(s) }

func (s sparseStore) clone() cellStore {
	out := make(sparseStore, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func (s sparseStore) clear() {
	for k := range s {
		delete(s, k)
	}
}

func (s sparseStore) forEach(fn func(packed int, c voxel.Cell)) {
	for k, v := range s {
		fn(k, v)
	}
}

// denseStore is a fixed-array backend used once a chunk is dense enough
// that per-cell map overhead no longer pays for itself.
type denseStore struct {
	cells [Volume]voxel.Cell
	n     int
}

func newDenseStore() *denseStore { return &denseStore{} }

func (d *denseStore) get(packed int) voxel.Cell { return d.cells[packed] }

func (d *denseStore) set(packed int, c voxel.Cell) (prevWasAir, nowIsAir bool) {
	prev := d.cells[packed]
	prevWasAir = prev.IsAir()
	nowIsAir = c.IsAir()
	if prevWasAir == nowIsAir {
		d.cells[packed] = c
		return
	}
	if nowIsAir {
		d.n--
	} else {
		d.n++
	}
	d.cells[packed] = c
	return
}

func (d *denseStore) count() int { return d.n }

func (d *denseStore) clone() cellStore {
	out := &denseStore{n: d.n}
	out.cells = d.cells
	return out
}

func (d *denseStore) clear() {
	d.cells = [Volume]voxel.Cell{}
	d.n = 0
}

func (d *denseStore) forEach(fn func(packed int, c voxel.Cell)) {
	for i, c := range d.cells {
		if !c.IsAir() {
			fn(i, c)
		}
	}
}

// Chunk is a 16x16x16 sparse cube of Cells addressed by packed local index.
type Chunk struct {
	Coord Coord
	store cellStore
	dirty bool
}

// New creates an empty chunk at the given chunk coordinate.
func New(coord Coord) *Chunk {
	return &Chunk{Coord: coord, store: newSparseStore(), dirty: true}
}

// inBounds reports whether a local coordinate is within [0, Size) on every axis.
func inBounds(lx, ly, lz int) bool {
	return lx >= 0 && lx < Size && ly >= 0 && ly < Size && lz >= 0 && lz < Size
}

// Get returns the cell at local coordinates (lx,ly,lz), or AirCell if unset
// or out of bounds.
func (c *Chunk) Get(lx, ly, lz int) voxel.Cell {
	if !inBounds(lx, ly, lz) {
		return voxel.AirCell
	}
	return c.store.get(voxel.PackLocal(lx, ly, lz))
}

// Set stores a cell at local coordinates (lx,ly,lz). Setting AirCell removes
// any existing entry rather than inserting a zero value. Out-of-bounds
// writes are silently ignored, matching the teacher's SetBlock bounds check.
func (c *Chunk) Set(lx, ly, lz int, cell voxel.Cell) {
	if !inBounds(lx, ly, lz) {
		return
	}
	packed := voxel.PackLocal(lx, ly, lz)
	before := c.store.get(packed)
	if before == cell {
		return
	}
	c.store.set(packed, cell)
	c.dirty = true
	c.maybeSwitchBackend()
}

// maybeSwitchBackend upgrades a sparse store to dense once density crosses
// denseThreshold, or downgrades a dense store back to sparse once it falls
// below half of it (denseThreshold/2), so a chunk hovering near the
// threshold does not flip backends on every write. The upgrade point
// mirrors the serialisation density rule (spec.md §4.2).
func (c *Chunk) maybeSwitchBackend() {
	n := c.store.count()
	switch c.store.(type) {
	case sparseStore:
		if n >= denseThreshold {
			dense := newDenseStore()
			c.store.forEach(func(packed int, cell voxel.Cell) {
				dense.set(packed, cell)
			})
			c.store = dense
		}
	case *denseStore:
		if n < denseThreshold/2 {
			sparse := newSparseStore()
			c.store.forEach(func(packed int, cell voxel.Cell) {
				sparse.set(packed, cell)
			})
			c.store = sparse
		}
	}
}

// IsEmpty reports whether the chunk has no non-air cells.
func (c *Chunk) IsEmpty() bool { return c.store.count() == 0 }

// VoxelCount returns the number of non-air cells stored in the chunk.
func (c *Chunk) VoxelCount() int { return c.store.count() }

// Density returns VoxelCount / Volume as a fraction in [0,1].
func (c *Chunk) Density() float64 { return float64(c.store.count()) / float64(Volume) }

// ForEach calls fn once per non-air cell, in unspecified order.
func (c *Chunk) ForEach(fn func(lx, ly, lz int, cell voxel.Cell)) {
	c.store.forEach(func(packed int, cell voxel.Cell) {
		lx, ly, lz := voxel.UnpackLocal(packed)
		fn(lx, ly, lz, cell)
	})
}

// FillBox writes cell into every local coordinate in [min, max), clamped to
// chunk bounds.
func (c *Chunk) FillBox(min, max voxel.Coord, cell voxel.Cell) {
	lx0, ly0, lz0 := maxInt(min.X, 0), maxInt(min.Y, 0), maxInt(min.Z, 0)
	lx1, ly1, lz1 := minInt(max.X, Size), minInt(max.Y, Size), minInt(max.Z, Size)
	for x := lx0; x < lx1; x++ {
		for y := ly0; y < ly1; y++ {
			for z := lz0; z < lz1; z++ {
				c.Set(x, y, z, cell)
			}
		}
	}
}

// Clone returns a deep, independent copy of the chunk suitable for
// off-thread meshing per spec.md §5's shared-resource policy.
func (c *Chunk) Clone() *Chunk {
	return &Chunk{Coord: c.Coord, store: c.store.clone(), dirty: c.dirty}
}

// Clear removes every cell, leaving the chunk empty.
func (c *Chunk) Clear() {
	c.store.clear()
	c.dirty = true
}

// IsDirty reports whether the chunk has been mutated since the last
// SetClean call.
func (c *Chunk) IsDirty() bool { return c.dirty }

// SetDirty explicitly marks (or clears) the dirty flag, used by the owning
// World to propagate edge writes to neighbour chunks.
func (c *Chunk) SetDirty(v bool) { c.dirty = v }

// SetClean clears the dirty flag after the chunk has been remeshed.
func (c *Chunk) SetClean() { c.dirty = false }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
