// Package voxel defines the atomic material value stored in the world grid
// (Cell), the VoxelType enum it packs, and the coordinate math shared by
// every other package in shipvox.
package voxel

import "math"

// VoxelSize is the edge length of one voxel in world units.
const VoxelSize = 0.025

// ChunkSize is the edge length of a Chunk, in voxels, on every axis.
const ChunkSize = 16

// Type is the low byte of a Cell: the material identity of a voxel.
type Type uint8

const (
	Air Type = iota
	Wall
	Floor
	Ceiling
	Glass
	MetalGrate
	Screen
	FanBlade
	DoorFrame
	DoorPanel
	LightFixture
	Hull
	Conduit
	Grate
)

var typeNames = map[Type]string{
	Air:          "air",
	Wall:         "wall",
	Floor:        "floor",
	Ceiling:      "ceiling",
	Glass:        "glass",
	MetalGrate:   "metal_grate",
	Screen:       "screen",
	FanBlade:     "fan_blade",
	DoorFrame:    "door_frame",
	DoorPanel:    "door_panel",
	LightFixture: "light_fixture",
	Hull:         "hull",
	Conduit:      "conduit",
	Grate:        "grate",
}

// String returns the registered name for t, or "unknown" if none is registered.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

var namesToType = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, n := range typeNames {
		m[n] = t
	}
	return m
}()

// TypeFromName is the inverse of String: it looks up a Type by its
// registered name, for callers (configuration loaders, the scripting
// bridge) that name a type as a string.
func TypeFromName(name string) (Type, bool) {
	t, ok := namesToType[name]
	return t, ok
}

// Cell is the 16-bit value stored per voxel: low 8 bits are the Type, high 8
// bits are a palette variant index. The zero Cell is Air.
type Cell uint16

// AirCell is the zero-value Cell; it is never stored in a Chunk.
const AirCell Cell = 0

// MakeCell packs a type and variant into a Cell.
func MakeCell(t Type, variant uint8) Cell {
	return Cell(t) | Cell(variant)<<8
}

// Type extracts the material type from a Cell.
func (c Cell) Type() Type { return Type(c & 0xFF) }

// Variant extracts the palette variant index from a Cell.
func (c Cell) Variant() uint8 { return uint8(c >> 8) }

// IsAir reports whether c has type Air.
func (c Cell) IsAir() bool { return c.Type() == Air }

var solidTypes = map[Type]bool{
	Air:        false,
	Glass:      false,
	MetalGrate: false,
}

// IsSolid reports whether a cell blocks movement/collision: every type
// except Air, Glass, and MetalGrate.
func (c Cell) IsSolid() bool {
	switch c.Type() {
	case Air, Glass, MetalGrate:
		return false
	default:
		return true
	}
}

var transparentTypes = map[Type]bool{
	Air:        true,
	Glass:      true,
	MetalGrate: true,
	Screen:     true,
	FanBlade:   true,
}

// IsTransparent reports whether a cell is transparent for meshing purposes:
// the mesher never emits a face whose outward neighbour is non-transparent,
// and never emits a face for a cell that is itself transparent. Screen and
// FanBlade are transparent here even though they are visually opaque,
// because they are rendered by a separate animated-asset path (§4.7).
func (c Cell) IsTransparent() bool {
	return transparentTypes[c.Type()]
}

// Face identifies one of the six axis-aligned faces of a voxel, numbered in
// the fixed order (-X, +X, -Y, +Y, -Z, +Z).
type Face int

const (
	FaceNegX Face = iota
	FacePosX
	FaceNegY
	FacePosY
	FaceNegZ
	FacePosZ
)

// Opposite returns the face pointing the opposite direction.
func (f Face) Opposite() Face { return f ^ 1 }

// Axis returns which coordinate axis (0=x, 1=y, 2=z) this face is normal to.
func (f Face) Axis() int { return int(f) / 2 }

// Sign returns +1 for the positive-direction faces, -1 for the negative ones.
func (f Face) Sign() int {
	if f%2 == 1 {
		return 1
	}
	return -1
}

// Normal returns the outward unit normal of the face as integer components.
func (f Face) Normal() Coord {
	c := Coord{}
	s := f.Sign()
	switch f.Axis() {
	case 0:
		c.X = s
	case 1:
		c.Y = s
	case 2:
		c.Z = s
	}
	return c
}

// Coord is an integer voxel/chunk coordinate triple.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Add returns the componentwise sum of two coordinates.
func (c Coord) Add(o Coord) Coord { return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z} }

// Sub returns the componentwise difference of two coordinates.
func (c Coord) Sub(o Coord) Coord { return Coord{c.X - o.X, c.Y - o.Y, c.Z - o.Z} }

// Min returns the componentwise minimum of two coordinates.
func (c Coord) Min(o Coord) Coord {
	return Coord{minInt(c.X, o.X), minInt(c.Y, o.Y), minInt(c.Z, o.Z)}
}

// Max returns the componentwise maximum of two coordinates.
func (c Coord) Max(o Coord) Coord {
	return Coord{maxInt(c.X, o.X), maxInt(c.Y, o.Y), maxInt(c.Z, o.Z)}
}

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

// WorldPoint is a real-valued world-space coordinate.
type WorldPoint struct {
	X, Y, Z float64
}

// EuclidMod is the true Euclidean modulo, required wherever a local-chunk
// coordinate is derived from a negative world/voxel coordinate: Go's %
// operator keeps the sign of its dividend, which breaks local-coordinate
// math for negative input.
func EuclidMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// FloorDiv is integer division that rounds toward negative infinity,
// matching the floor() used throughout spec's coordinate conversions.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// WorldToVoxel converts a real world coordinate to the voxel it falls in.
func WorldToVoxel(w WorldPoint) Coord {
	return Coord{
		X: int(math.Floor(w.X / VoxelSize)),
		Y: int(math.Floor(w.Y / VoxelSize)),
		Z: int(math.Floor(w.Z / VoxelSize)),
	}
}

// VoxelToWorldCorner returns the world-space coordinate of a voxel's
// minimum (lower, south-west, near) corner.
func VoxelToWorldCorner(v Coord) WorldPoint {
	return WorldPoint{
		X: float64(v.X) * VoxelSize,
		Y: float64(v.Y) * VoxelSize,
		Z: float64(v.Z) * VoxelSize,
	}
}

// VoxelToWorldCenter returns the world-space coordinate of a voxel's centre.
func VoxelToWorldCenter(v Coord) WorldPoint {
	c := VoxelToWorldCorner(v)
	half := VoxelSize / 2
	return WorldPoint{X: c.X + half, Y: c.Y + half, Z: c.Z + half}
}

// VoxelToChunk converts a voxel coordinate to the coordinate of the chunk
// that owns it.
func VoxelToChunk(v Coord) Coord {
	return Coord{
		X: FloorDiv(v.X, ChunkSize),
		Y: FloorDiv(v.Y, ChunkSize),
		Z: FloorDiv(v.Z, ChunkSize),
	}
}

// VoxelToLocal converts a voxel coordinate to its local coordinate within
// its owning chunk, in [0, ChunkSize) on every axis.
func VoxelToLocal(v Coord) Coord {
	return Coord{
		X: EuclidMod(v.X, ChunkSize),
		Y: EuclidMod(v.Y, ChunkSize),
		Z: EuclidMod(v.Z, ChunkSize),
	}
}

// PackLocal packs a local-chunk coordinate (each component in [0, ChunkSize))
// into the index used by Chunk's in-memory storage and its sparse
// serialisation: x + y*S + z*S^2. RLE serialisation uses its own scan order.
func PackLocal(lx, ly, lz int) int {
	return lx + ly*ChunkSize + lz*ChunkSize*ChunkSize
}

// UnpackLocal is the inverse of PackLocal.
func UnpackLocal(packed int) (lx, ly, lz int) {
	lx = packed % ChunkSize
	rest := packed / ChunkSize
	ly = rest % ChunkSize
	lz = rest / ChunkSize
	return
}
