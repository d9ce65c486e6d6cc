// Package mapbuild deterministically constructs rooms, doorways, and
// entity/asset placements into a worldgrid.World from a data-driven ship
// layout description (spec.md §4.6).
//
// Grounded on dantero-ps-mini-mc-go's internal/world chunk-mutation helpers
// (the teacher's own `world.SetBlock` fan-out used when loading a saved
// region) for the "mutate many voxels, wrap in a bulk region" shape;
// room/doorway/entity semantics themselves are new, since the teacher's
// world is procedurally generated terrain, not constructed rooms.
package mapbuild

import (
	"log"

	"shipvox/internal/config"
	"shipvox/internal/model"
	"shipvox/internal/prefab"
	"shipvox/internal/voxel"
	"shipvox/internal/worldgrid"
)

// RoomSpec describes one room to build: Position is the room's centre,
// Size is its extent, in voxels, on every axis.
type RoomSpec struct {
	ID       string
	Name     string
	Position voxel.Coord
	Size     voxel.Coord
}

// DoorSpec describes a doorway to cut between two rooms' walls.
type DoorSpec struct {
	Position voxel.Coord
	Yaw      int
}

// EntitySpec describes a non-door entity (terminal, switch, sensor,
// light, ...) to record at a position and yaw.
type EntitySpec struct {
	Kind     model.Kind
	Position voxel.Coord
	Yaw      int
}

// AssetSpec describes a prefab instance to delegate to the resolver.
type AssetSpec struct {
	PrefabID     string
	Position     voxel.Coord
	Yaw          int
	HeightOffset int
}

// Layout is the full input to Build: every room, door, entity, and asset
// instance a ship's map is composed of.
type Layout struct {
	Rooms    []RoomSpec
	Doors    []DoorSpec
	Entities []EntitySpec
	Assets   []AssetSpec
}

// Result is everything Build produced: the rooms and entities it recorded,
// ready to be folded into a Layout V2 document alongside the world.
type Result struct {
	Rooms    map[string]model.RoomVolume
	Entities map[string]model.Entity
}

// Builder constructs a Layout into a World under a fixed BuilderConfig.
type Builder struct {
	cfg      config.BuilderConfig
	resolver *prefab.Resolver
	logger   *log.Logger
}

// NewBuilder returns a Builder using cfg for wall/door sizing and resolver
// for asset-instance delegation.
func NewBuilder(cfg config.BuilderConfig, resolver *prefab.Resolver, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{cfg: cfg, resolver: resolver, logger: logger}
}

// Build constructs layout into world, wrapped in a single bulk region
// (spec.md §4.6). Two invocations of Build on the same layout and config
// produce identical chunk contents.
func (b *Builder) Build(world *worldgrid.World, layout Layout) Result {
	world.BeginBulk()
	defer world.EndBulk()

	res := Result{
		Rooms:    make(map[string]model.RoomVolume),
		Entities: make(map[string]model.Entity),
	}

	interiors := make([]roomInterior, 0, len(layout.Rooms))
	for _, rs := range layout.Rooms {
		interior := b.buildRoom(world, rs)
		interiors = append(interiors, interior)
		res.Rooms[rs.ID] = interior.volume
	}

	for _, ds := range layout.Doors {
		ent, ok := b.buildDoor(world, ds, interiors)
		if !ok {
			continue
		}
		res.Entities[ent.ID] = ent
	}

	for _, es := range layout.Entities {
		ent, err := model.NewEntity(es.Kind, toModelPos(es.Position), es.Yaw)
		if err != nil {
			b.logger.Printf("mapbuild: entity at %+v: %v", es.Position, err)
			continue
		}
		res.Entities[ent.ID] = ent
	}

	if b.resolver != nil {
		for _, as := range layout.Assets {
			pos := as.Position
			pos.Y += as.HeightOffset
			inst := prefab.Instance{PrefabID: as.PrefabID, Position: pos, Yaw: as.Yaw}
			for _, ent := range b.resolver.ApplyToWorld(world, []prefab.Instance{inst}) {
				res.Entities[ent.ID] = ent
			}
		}
	}

	return res
}

// roomInterior bundles a room's interior AABB (pre-wall) and its
// persisted RoomVolume, used by doorway wall-coincidence resolution.
type roomInterior struct {
	id       string
	min, max voxel.Coord // interior AABB, exclusive max
	volume   model.RoomVolume
}

func (b *Builder) buildRoom(world *worldgrid.World, rs RoomSpec) roomInterior {
	base := voxel.Coord{
		X: rs.Position.X - rs.Size.X/2,
		Y: rs.Position.Y - rs.Size.Y/2,
		Z: rs.Position.Z - rs.Size.Z/2,
	}
	max := base.Add(rs.Size)

	thickness := b.cfg.WallThicknessVoxels

	// Floor below base.Y, ceiling above max.Y.
	world.FillBox(
		voxel.Coord{X: base.X - thickness, Y: base.Y - thickness, Z: base.Z - thickness},
		voxel.Coord{X: max.X + thickness, Y: base.Y, Z: max.Z + thickness},
		voxel.MakeCell(voxel.Floor, 0),
	)
	world.FillBox(
		voxel.Coord{X: base.X - thickness, Y: max.Y, Z: base.Z - thickness},
		voxel.Coord{X: max.X + thickness, Y: max.Y + thickness, Z: max.Z + thickness},
		voxel.MakeCell(voxel.Ceiling, 0),
	)

	// Four wall panels of the given thickness around the interior.
	world.FillBox(
		voxel.Coord{X: base.X - thickness, Y: base.Y, Z: base.Z - thickness},
		voxel.Coord{X: base.X, Y: max.Y, Z: max.Z + thickness},
		voxel.MakeCell(voxel.Wall, 0),
	)
	world.FillBox(
		voxel.Coord{X: max.X, Y: base.Y, Z: base.Z - thickness},
		voxel.Coord{X: max.X + thickness, Y: max.Y, Z: max.Z + thickness},
		voxel.MakeCell(voxel.Wall, 0),
	)
	world.FillBox(
		voxel.Coord{X: base.X, Y: base.Y, Z: base.Z - thickness},
		voxel.Coord{X: max.X, Y: max.Y, Z: base.Z},
		voxel.MakeCell(voxel.Wall, 0),
	)
	world.FillBox(
		voxel.Coord{X: base.X, Y: base.Y, Z: max.Z},
		voxel.Coord{X: max.X, Y: max.Y, Z: max.Z + thickness},
		voxel.MakeCell(voxel.Wall, 0),
	)

	// Light fixture strip centred on the ceiling.
	lightLen := minInt(10, rs.Size.X/2)
	lightMin := voxel.Coord{X: rs.Position.X - lightLen/2, Y: max.Y - 1, Z: rs.Position.Z - 1}
	lightMax := voxel.Coord{X: rs.Position.X + lightLen/2, Y: max.Y, Z: rs.Position.Z + 2}
	world.FillBox(lightMin, lightMax, voxel.MakeCell(voxel.LightFixture, 0))

	vol := model.RoomVolume{
		ID:         rs.ID,
		Name:       rs.Name,
		Min:        toModelPos(base),
		Max:        toModelPos(voxel.Coord{X: max.X - 1, Y: max.Y - 1, Z: max.Z - 1}),
		Atmosphere: atmospherePtr(model.DefaultAtmosphere()),
	}

	return roomInterior{id: rs.ID, min: base, max: max, volume: vol}
}

// buildDoor cuts and frames one doorway and records its entity. ok is false
// (and nothing is cut) if ds.Yaw is not one of {0,90,180,270}.
func (b *Builder) buildDoor(world *worldgrid.World, ds DoorSpec, interiors []roomInterior) (ent model.Entity, ok bool) {
	yaw, err := model.NormalizeYaw(ds.Yaw)
	if err != nil {
		b.logger.Printf("mapbuild: door at %+v: %v", ds.Position, err)
		return model.Entity{}, false
	}
	facingAxisIsX := yaw == 90 || yaw == 270

	thickness := b.cfg.WallThicknessVoxels
	cutDepth := 2*thickness + 1
	width := b.cfg.DoorWidthVoxels
	height := b.cfg.DoorHeightVoxels

	var cutMin, cutMax voxel.Coord
	if facingAxisIsX {
		cutMin = voxel.Coord{X: ds.Position.X - cutDepth/2, Y: ds.Position.Y, Z: ds.Position.Z - width/2}
		cutMax = voxel.Coord{X: ds.Position.X + cutDepth/2 + 1, Y: ds.Position.Y + height, Z: ds.Position.Z + width/2}
	} else {
		cutMin = voxel.Coord{X: ds.Position.X - width/2, Y: ds.Position.Y, Z: ds.Position.Z - cutDepth/2}
		cutMax = voxel.Coord{X: ds.Position.X + width/2, Y: ds.Position.Y + height, Z: ds.Position.Z + cutDepth/2 + 1}
	}
	world.FillBox(cutMin, cutMax, voxel.AirCell)

	b.placeDoorFrame(world, ds.Position, facingAxisIsX, width, height)

	connects := resolveConnectedRooms(interiors, ds.Position, facingAxisIsX, cutDepth)

	ent, err = model.NewEntity(model.KindDoor, toModelPos(ds.Position), yaw)
	if err != nil {
		// yaw was already validated above via NormalizeYaw, so this cannot
		// fail in practice; fall through with the zero entity rather than
		// panic.
		b.logger.Printf("mapbuild: door at %+v: %v", ds.Position, err)
		return model.Entity{}, false
	}
	ent.Door = model.DoorProperties{
		ConnectsRooms: connects,
		WidthVoxels:   width,
		HeightVoxels:  height,
	}
	return ent, true
}

// placeDoorFrame surrounds the opening with a three-sided (top + two
// sides) DOOR_FRAME, thin relative to the opening per spec.md §4.6.
func (b *Builder) placeDoorFrame(world *worldgrid.World, pos voxel.Coord, facingAxisIsX bool, width, height int) {
	const frameThickness = 2
	const frameDepth = 2

	if facingAxisIsX {
		// top
		world.FillBox(
			voxel.Coord{X: pos.X - frameDepth, Y: pos.Y + height, Z: pos.Z - width/2 - frameThickness},
			voxel.Coord{X: pos.X + frameDepth + 1, Y: pos.Y + height + frameThickness, Z: pos.Z + width/2 + frameThickness},
			voxel.MakeCell(voxel.DoorFrame, 0),
		)
		// left / right sides
		world.FillBox(
			voxel.Coord{X: pos.X - frameDepth, Y: pos.Y, Z: pos.Z - width/2 - frameThickness},
			voxel.Coord{X: pos.X + frameDepth + 1, Y: pos.Y + height, Z: pos.Z - width/2},
			voxel.MakeCell(voxel.DoorFrame, 0),
		)
		world.FillBox(
			voxel.Coord{X: pos.X - frameDepth, Y: pos.Y, Z: pos.Z + width/2},
			voxel.Coord{X: pos.X + frameDepth + 1, Y: pos.Y + height, Z: pos.Z + width/2 + frameThickness},
			voxel.MakeCell(voxel.DoorFrame, 0),
		)
		return
	}

	world.FillBox(
		voxel.Coord{X: pos.X - width/2 - frameThickness, Y: pos.Y + height, Z: pos.Z - frameDepth},
		voxel.Coord{X: pos.X + width/2 + frameThickness, Y: pos.Y + height + frameThickness, Z: pos.Z + frameDepth + 1},
		voxel.MakeCell(voxel.DoorFrame, 0),
	)
	world.FillBox(
		voxel.Coord{X: pos.X - width/2 - frameThickness, Y: pos.Y, Z: pos.Z - frameDepth},
		voxel.Coord{X: pos.X - width/2, Y: pos.Y + height, Z: pos.Z + frameDepth + 1},
		voxel.MakeCell(voxel.DoorFrame, 0),
	)
	world.FillBox(
		voxel.Coord{X: pos.X + width/2, Y: pos.Y, Z: pos.Z - frameDepth},
		voxel.Coord{X: pos.X + width/2 + frameThickness, Y: pos.Y + height, Z: pos.Z + frameDepth + 1},
		voxel.MakeCell(voxel.DoorFrame, 0),
	)
}

// resolveConnectedRooms scans each room, in scan order, for an interior
// boundary on the facing axis lying within cutDepth/2 (on either side) of
// the door plane, per spec.md §4.6. Missing slots are left empty, not
// treated as an error.
func resolveConnectedRooms(interiors []roomInterior, doorPos voxel.Coord, facingAxisIsX bool, cutDepth int) [2]string {
	var connects [2]string
	slot := 0
	for _, ri := range interiors {
		if slot >= 2 {
			break
		}
		var doorCoord, iMin, iMax int
		if facingAxisIsX {
			doorCoord, iMin, iMax = doorPos.X, ri.min.X, ri.max.X
		} else {
			doorCoord, iMin, iMax = doorPos.Z, ri.min.Z, ri.max.Z
		}
		half := cutDepth / 2
		westWallLo, westWallHi := iMin-half, iMin+half
		eastWallLo, eastWallHi := iMax-half, iMax+half
		if (doorCoord >= westWallLo && doorCoord <= westWallHi) || (doorCoord >= eastWallLo && doorCoord <= eastWallHi) {
			connects[slot] = ri.id
			slot++
		}
	}
	return connects
}

func toModelPos(c voxel.Coord) model.Position {
	return model.Position{X: c.X, Y: c.Y, Z: c.Z}
}

func atmospherePtr(a model.Atmosphere) *model.Atmosphere { return &a }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
