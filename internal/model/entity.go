// Package model holds the value types shared by the map builder, the
// prefab resolver, and layout persistence: entities, room volumes, and the
// prefab template/instance/library types (spec.md §3).
//
// Grounded on dantero-ps-mini-mc-go's internal/entity package for the shape
// of an id+kind+position value type, generalised from the teacher's
// single mob-entity kind into the closed tagged-sum Kind spec.md requires,
// and switched from the teacher's incrementing int ids to
// github.com/google/uuid so ids stay stable across merges of
// independently-authored layouts.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"shipvox/internal/apperr"
)

// Kind is the closed set of entity kinds spec.md §3 names.
type Kind int

const (
	KindDoor Kind = iota
	KindTerminal
	KindSwitch
	KindSensor
	KindLight
	KindOther // Name + free-form Properties carry the unclassified case.
)

var kindNames = map[Kind]string{
	KindDoor:     "door",
	KindTerminal: "terminal",
	KindSwitch:   "switch",
	KindSensor:   "sensor",
	KindLight:    "light",
	KindOther:    "other",
}

// String returns the entity kind's lower-case name, for logging and JSON.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes a Kind as its name rather than its ordinal, so
// persisted layouts stay readable and stable across a future reordering
// of the const block.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a Kind from its name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for kind, n := range kindNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("model: unknown entity kind %q", name)
}

// Axis identifies which world axis an entity faces along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Facing is the axis + direction an entity points, derived from yaw.
type Facing struct {
	Axis Axis `json:"axis"`
	Dir  int  `json:"dir"` // +1 or -1
}

// Position is an integer voxel position, kept distinct from voxel.Coord so
// model stays independent of the voxel package (entities are addressed at
// voxel granularity but are a world-model concept, not a storage one).
type Position struct {
	X, Y, Z int
}

// DoorProperties holds the kind-specific fields of a door entity.
type DoorProperties struct {
	// ConnectsRooms is the ordered pair of room ids this door links. Either
	// or both may be empty if fewer than two rooms were found coincident
	// with the door plane — spec.md §4.6 treats that as non-fatal.
	ConnectsRooms [2]string `json:"connectsRooms"`
	WidthVoxels   int       `json:"widthVoxels"`
	HeightVoxels  int       `json:"heightVoxels"`
}

// Entity is a point of interest placed in the world: a door, terminal,
// switch, sensor, light, or an unclassified kind.
type Entity struct {
	ID     string   `json:"id"`
	Kind   Kind     `json:"kind"`
	Pos    Position `json:"pos"`
	Yaw    int      `json:"yaw"` // one of 0, 90, 180, 270
	Facing Facing   `json:"facing"`
	Status string   `json:"status,omitempty"`

	Door DoorProperties `json:"door,omitempty"` // only meaningful when Kind == KindDoor

	// Name and Properties carry KindOther's free-form data: a name string
	// plus arbitrary string-keyed metadata for an entity that doesn't fit
	// the five classified kinds. Unused for every other Kind.
	Name       string            `json:"name,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// NewEntity allocates a fresh uuid-identified entity of the given kind.
// yaw must be congruent mod 360 to one of {0,90,180,270}; any other value
// is spec.md §7's InvalidRotation error, fatal for this entity.
func NewEntity(kind Kind, pos Position, yaw int) (Entity, error) {
	canonical, err := NormalizeYaw(yaw)
	if err != nil {
		return Entity{}, errors.Wrapf(err, "model: entity at %+v", pos)
	}
	return Entity{
		ID:     uuid.NewString(),
		Kind:   kind,
		Pos:    pos,
		Yaw:    canonical,
		Facing: FacingForYaw(canonical),
	}, nil
}

// NewOtherEntity allocates a fresh KindOther entity carrying the
// free-form name/properties spec.md §9's extensibility case requires,
// for an entity that doesn't fit the five classified kinds.
func NewOtherEntity(pos Position, yaw int, name string, properties map[string]string) (Entity, error) {
	e, err := NewEntity(KindOther, pos, yaw)
	if err != nil {
		return Entity{}, err
	}
	e.Name = name
	e.Properties = properties
	return e, nil
}

// NormalizeYaw validates that yaw is congruent mod 360 to one of
// {0,90,180,270} and returns that canonical non-negative representative.
// Any other value is spec.md §7's InvalidRotation error — fatal for the
// entity/instance carrying it, not a value to silently coerce.
func NormalizeYaw(yaw int) (int, error) {
	m := yaw % 360
	if m < 0 {
		m += 360
	}
	switch m {
	case 0, 90, 180, 270:
		return m, nil
	default:
		return 0, errors.Wrapf(apperr.ErrInvalidRotation, "yaw %d", yaw)
	}
}

// FacingForYaw implements spec.md §4.6's fixed yaw→facing table:
// 0→(z,+1), 90→(x,+1), 180→(z,-1), 270→(x,-1). yaw is reduced mod 360
// first; a value not congruent to 90, 180 or 270 falls back to the 0 case.
func FacingForYaw(yaw int) Facing {
	m := yaw % 360
	if m < 0 {
		m += 360
	}
	switch m {
	case 90:
		return Facing{Axis: AxisX, Dir: 1}
	case 180:
		return Facing{Axis: AxisZ, Dir: -1}
	case 270:
		return Facing{Axis: AxisX, Dir: -1}
	default:
		return Facing{Axis: AxisZ, Dir: 1}
	}
}
