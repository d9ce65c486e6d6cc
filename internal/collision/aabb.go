// Package collision implements axis-aligned bounding-box queries against
// solid voxels: the one piece of physics spec.md §1 keeps in scope
// ("physics integration beyond axis-aligned collision against solid voxels"
// is the named Non-goal — the AABB tests themselves are the boundary).
//
// Grounded on dantero-ps-mini-mc-go's internal/physics package (Collides,
// FindGroundLevel, IntersectsBlock, FindCeilingLevel), adapted from its
// one-block-per-unit mgl32.Vec3 world onto shipvox's VoxelSize-scaled
// worldgrid.World and voxel.Cell.IsSolid, and from float32 to float64 to
// match voxel.WorldPoint.
package collision

import (
	"math"

	"shipvox/internal/profiling"
	"shipvox/internal/voxel"
	"shipvox/internal/worldgrid"
)

// Box is an axis-aligned bounding box in world units, described the way the
// rest of the engine describes agents: a full horizontal width on both X
// and Z centred on Position's (X,Z), and a height extending up from
// Position.Y.
type Box struct {
	Position voxel.WorldPoint
	Width    float64
	Height   float64
}

func (b Box) minX() float64 { return b.Position.X - b.Width/2 }
func (b Box) maxX() float64 { return b.Position.X + b.Width/2 }
func (b Box) minY() float64 { return b.Position.Y }
func (b Box) maxY() float64 { return b.Position.Y + b.Height }
func (b Box) minZ() float64 { return b.Position.Z - b.Width/2 }
func (b Box) maxZ() float64 { return b.Position.Z + b.Width/2 }

// Collides reports whether b overlaps any solid voxel in world.
func Collides(world *worldgrid.World, b Box) bool {
	defer profiling.Track("collision.Collides")()
	minV := voxel.WorldToVoxel(voxel.WorldPoint{X: b.minX(), Y: b.minY(), Z: b.minZ()})
	maxV := voxel.WorldToVoxel(voxel.WorldPoint{X: b.maxX(), Y: b.maxY(), Z: b.maxZ()})

	for x := minV.X - 1; x <= maxV.X+1; x++ {
		for y := minV.Y - 1; y <= maxV.Y+1; y++ {
			for z := minV.Z - 1; z <= maxV.Z+1; z++ {
				v := voxel.Coord{X: x, Y: y, Z: z}
				if !world.GetVoxel(v).IsSolid() {
					continue
				}
				if IntersectsVoxel(b, v) {
					return true
				}
			}
		}
	}
	return false
}

// IntersectsVoxel reports whether b overlaps the voxel cell at v.
func IntersectsVoxel(b Box, v voxel.Coord) bool {
	corner := voxel.VoxelToWorldCorner(v)
	blockMinX, blockMaxX := corner.X, corner.X+voxel.VoxelSize
	blockMinY, blockMaxY := corner.Y, corner.Y+voxel.VoxelSize
	blockMinZ, blockMaxZ := corner.Z, corner.Z+voxel.VoxelSize

	return b.minX() < blockMaxX && b.maxX() > blockMinX &&
		b.minY() < blockMaxY && b.maxY() > blockMinY &&
		b.minZ() < blockMaxZ && b.maxZ() > blockMinZ
}

// FindGroundLevel returns the world-space Y of the highest solid voxel's top
// surface beneath b's horizontal footprint, searching down from b's current
// Y. Returns math.Inf(-1) if no ground is found.
func FindGroundLevel(world *worldgrid.World, b Box) float64 {
	defer profiling.Track("collision.FindGroundLevel")()
	minV := voxel.WorldToVoxel(voxel.WorldPoint{X: b.minX(), Y: 0, Z: b.minZ()})
	maxV := voxel.WorldToVoxel(voxel.WorldPoint{X: b.maxX(), Y: 0, Z: b.maxZ()})

	playerMinX, playerMaxX := b.minX(), b.maxX()
	playerMinZ, playerMaxZ := b.minZ(), b.maxZ()

	startY := voxel.WorldToVoxel(b.Position).Y

	maxGround := math.Inf(-1)
	for bx := minV.X; bx <= maxV.X; bx++ {
		for bz := minV.Z; bz <= maxV.Z; bz++ {
			corner := voxel.VoxelToWorldCorner(voxel.Coord{X: bx, Z: bz})
			blockMinX, blockMaxX := corner.X, corner.X+voxel.VoxelSize
			blockMinZ, blockMaxZ := corner.Z, corner.Z+voxel.VoxelSize
			if !(playerMinX < blockMaxX && playerMaxX > blockMinX && playerMinZ < blockMaxZ && playerMaxZ > blockMinZ) {
				continue
			}
			for by := startY; by >= 0; by-- {
				v := voxel.Coord{X: bx, Y: by, Z: bz}
				if world.GetVoxel(v).IsSolid() {
					top := voxel.VoxelToWorldCorner(v).Y + voxel.VoxelSize
					if top > maxGround {
						maxGround = top
					}
					break
				}
			}
		}
	}
	return maxGround
}

// FindCeilingLevel returns the world-space Y of the lowest solid voxel's
// underside above b's head, searching up from b's top. Returns
// math.Inf(1) if no ceiling is found within the search range.
func FindCeilingLevel(world *worldgrid.World, b Box, searchLimit int) float64 {
	defer profiling.Track("collision.FindCeilingLevel")()
	minV := voxel.WorldToVoxel(voxel.WorldPoint{X: b.minX(), Y: 0, Z: b.minZ()})
	maxV := voxel.WorldToVoxel(voxel.WorldPoint{X: b.maxX(), Y: 0, Z: b.maxZ()})

	playerMinX, playerMaxX := b.minX(), b.maxX()
	playerMinZ, playerMaxZ := b.minZ(), b.maxZ()

	startY := voxel.WorldToVoxel(voxel.WorldPoint{X: b.Position.X, Y: b.maxY(), Z: b.Position.Z}).Y

	minCeiling := math.Inf(1)
	for bx := minV.X; bx <= maxV.X; bx++ {
		for bz := minV.Z; bz <= maxV.Z; bz++ {
			corner := voxel.VoxelToWorldCorner(voxel.Coord{X: bx, Z: bz})
			blockMinX, blockMaxX := corner.X, corner.X+voxel.VoxelSize
			blockMinZ, blockMaxZ := corner.Z, corner.Z+voxel.VoxelSize
			if !(playerMinX < blockMaxX && playerMaxX > blockMinX && playerMinZ < blockMaxZ && playerMaxZ > blockMinZ) {
				continue
			}
			for by := startY; by <= startY+searchLimit; by++ {
				v := voxel.Coord{X: bx, Y: by, Z: bz}
				if world.GetVoxel(v).IsSolid() {
					bottom := voxel.VoxelToWorldCorner(v).Y
					if bottom < minCeiling {
						minCeiling = bottom
					}
					break
				}
			}
		}
	}
	return minCeiling
}
