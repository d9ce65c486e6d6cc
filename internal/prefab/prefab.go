package prefab

import (
	"log"

	"shipvox/internal/model"
	"shipvox/internal/voxel"
	"shipvox/internal/worldgrid"
)

// Connector marks a point on a prefab's surface where another prefab or
// corridor segment may attach.
type Connector struct {
	Local     voxel.Coord
	Direction voxel.Coord // unit vector
	Tag       string
}

// EmbeddedEntity is an entity baked into a prefab template, expressed in
// the template's local coordinate space.
type EmbeddedEntity struct {
	Local voxel.Coord
	Yaw   int
	Kind  model.Kind
}

// Prefab is an immutable reusable voxel template. Coordinates in Cells are
// relative to Anchor.
type Prefab struct {
	ID         string
	Name       string
	Category   string
	Cells      map[voxel.Coord]voxel.Cell
	Anchor     voxel.Coord
	Min, Max   voxel.Coord
	Entities   []EmbeddedEntity
	Connectors []Connector
	Metadata   map[string]string
}

// Library owns a set of Prefabs by id, the only thing an Instance holds a
// (weak, name-based) reference to.
type Library struct {
	prefabs map[string]Prefab
}

// NewLibrary returns an empty prefab library.
func NewLibrary() *Library {
	return &Library{prefabs: make(map[string]Prefab)}
}

// Put registers or replaces a prefab by id.
func (l *Library) Put(p Prefab) { l.prefabs[p.ID] = p }

// Get looks up a prefab by id.
func (l *Library) Get(id string) (Prefab, bool) {
	p, ok := l.prefabs[id]
	return p, ok
}

// Instance places one Prefab in the world at a position and yaw, with
// optional per-instance overrides of embedded entity fields.
type Instance struct {
	ID       string      `json:"id"`
	PrefabID string      `json:"prefabId"`
	Position voxel.Coord `json:"position"`
	Yaw      int         `json:"yaw"`
	// EntityOverrides maps an embedded entity's index in its prefab's
	// Entities slice to override fields; a zero-value override leaves the
	// merged field untouched except where explicitly non-zero.
	EntityOverrides map[int]EntityOverride `json:"entityOverrides,omitempty"`
}

// EntityOverride carries optional replacement fields for one embedded
// entity at resolution time.
type EntityOverride struct {
	Status    string
	HasStatus bool
}

// Write is one resolved voxel write: a world coordinate and the cell to
// place there.
type Write struct {
	World voxel.Coord
	Cell  voxel.Cell
}

// Resolved is the output of resolving one instance: the voxel writes and
// the world-space entities it produces.
type Resolved struct {
	Voxels   []Write
	Entities []model.Entity
	// AnimatedChildren lists the local-coordinate cells whose type renders
	// via the separate animated-asset path (Screen, FanBlade, DoorPanel);
	// the resolver does not render them itself, only hands them off.
	AnimatedChildren []voxel.Coord
}

// Resolver expands prefab instances against a Library.
type Resolver struct {
	lib    *Library
	logger *log.Logger
}

// NewResolver builds a Resolver over lib, logging missing-prefab warnings
// to logger (or log.Default() if nil).
func NewResolver(lib *Library, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{lib: lib, logger: logger}
}

var animatedTypes = map[voxel.Type]bool{
	voxel.Screen:    true,
	voxel.FanBlade:  true,
	voxel.DoorPanel: true,
}

// Resolve expands inst against its prefab, returning nil if the prefab id
// is unknown or inst.Yaw is not one of {0,90,180,270} (logging a warning in
// either case, per spec.md §4.7 and §7 — an invalid rotation is fatal only
// to this instance, not to the caller). An embedded entity whose composed
// yaw is invalid is likewise logged and skipped rather than dropping the
// whole instance.
func (r *Resolver) Resolve(inst Instance) *Resolved {
	p, ok := r.lib.Get(inst.PrefabID)
	if !ok {
		r.logger.Printf("prefab: instance %s references unknown prefab %q", inst.ID, inst.PrefabID)
		return nil
	}

	yaw, err := model.NormalizeYaw(inst.Yaw)
	if err != nil {
		r.logger.Printf("prefab: instance %s: %v", inst.ID, err)
		return nil
	}

	out := &Resolved{}
	for local, cell := range p.Cells {
		world := inst.Position.Add(RotateY90(local, yaw))
		out.Voxels = append(out.Voxels, Write{World: world, Cell: cell})
		if animatedTypes[cell.Type()] {
			out.AnimatedChildren = append(out.AnimatedChildren, local)
		}
	}

	for i, e := range p.Entities {
		ent, err := model.NewEntity(e.Kind, toModelPos(inst.Position.Add(RotateY90(e.Local, yaw))), ComposeYaw(e.Yaw, yaw))
		if err != nil {
			r.logger.Printf("prefab: instance %s embedded entity %d: %v", inst.ID, i, err)
			continue
		}
		if ov, ok := inst.EntityOverrides[i]; ok && ov.HasStatus {
			ent.Status = ov.Status
		}
		out.Entities = append(out.Entities, ent)
	}

	return out
}

// ResolveAll resolves every instance, skipping (and logging) any with an
// unknown prefab id.
func (r *Resolver) ResolveAll(instances []Instance) []*Resolved {
	out := make([]*Resolved, 0, len(instances))
	for _, inst := range instances {
		if res := r.Resolve(inst); res != nil {
			out = append(out, res)
		}
	}
	return out
}

// ApplyToWorld resolves every instance and writes the resulting voxels into
// world. Callers that want atomic-looking updates should wrap this in
// world.BeginBulk()/EndBulk().
func (r *Resolver) ApplyToWorld(world *worldgrid.World, instances []Instance) []model.Entity {
	var entities []model.Entity
	for _, res := range r.ResolveAll(instances) {
		for _, w := range res.Voxels {
			world.SetVoxel(w.World, w.Cell)
		}
		entities = append(entities, res.Entities...)
	}
	return entities
}

// CheckCollision returns the world coordinates where resolving inst would
// touch an existing cell. When ignoreAir is true (the normal case),
// positions currently AIR are not reported, so the caller only hears about
// genuine solid-cell overwrites. When ignoreAir is false, AIR positions are
// reported too, letting a caller detect overlap with space it reserved on
// purpose (e.g. a corridor's intentionally-air interior).
func (r *Resolver) CheckCollision(world *worldgrid.World, inst Instance, ignoreAir bool) []voxel.Coord {
	res := r.Resolve(inst)
	if res == nil {
		return nil
	}
	var collisions []voxel.Coord
	for _, w := range res.Voxels {
		existing := world.GetVoxel(w.World)
		if existing.IsAir() && ignoreAir {
			continue
		}
		collisions = append(collisions, w.World)
	}
	return collisions
}

// InstanceBounds returns the resolved world-space AABB of inst, or ok=false
// if the prefab id is unknown or inst.Yaw is not one of {0,90,180,270}.
func (r *Resolver) InstanceBounds(inst Instance) (min, max voxel.Coord, ok bool) {
	p, found := r.lib.Get(inst.PrefabID)
	if !found {
		return voxel.Coord{}, voxel.Coord{}, false
	}
	yaw, err := model.NormalizeYaw(inst.Yaw)
	if err != nil {
		r.logger.Printf("prefab: instance %s: %v", inst.ID, err)
		return voxel.Coord{}, voxel.Coord{}, false
	}
	rMin, rMax := RotateAABB(p.Min, p.Max, yaw)
	return inst.Position.Add(rMin), inst.Position.Add(rMax), true
}

// Preview resolves inst and returns only the voxel writes, for ghost
// rendering during placement.
func (r *Resolver) Preview(inst Instance) []Write {
	res := r.Resolve(inst)
	if res == nil {
		return nil
	}
	return res.Voxels
}

func toModelPos(c voxel.Coord) model.Position {
	return model.Position{X: c.X, Y: c.Y, Z: c.Z}
}
