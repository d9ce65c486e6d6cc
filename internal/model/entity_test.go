package model

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"

	"shipvox/internal/apperr"
)

func TestNormalizeYawAcceptsCardinalValuesModulo360(t *testing.T) {
	cases := map[int]int{
		0: 0, 360: 0, -360: 0,
		90: 90, 450: 90, -270: 90,
		180: 180, 540: 180, -180: 180,
		270: 270, -90: 270, 630: 270,
	}
	for in, want := range cases {
		got, err := NormalizeYaw(in)
		if err != nil {
			t.Errorf("NormalizeYaw(%d) returned unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("NormalizeYaw(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestNormalizeYawRejectsNonCardinalValues(t *testing.T) {
	for _, in := range []int{44, 91, 134, 179, 224, 271, 314, -10, 1} {
		_, err := NormalizeYaw(in)
		if err == nil {
			t.Fatalf("NormalizeYaw(%d): expected an error, got nil", in)
		}
		if !errors.Is(err, apperr.ErrInvalidRotation) {
			t.Fatalf("NormalizeYaw(%d): expected apperr.ErrInvalidRotation, got %v", in, err)
		}
	}
}

func TestFacingForYawTable(t *testing.T) {
	cases := []struct {
		yaw    int
		facing Facing
	}{
		{0, Facing{AxisZ, 1}},
		{90, Facing{AxisX, 1}},
		{180, Facing{AxisZ, -1}},
		{270, Facing{AxisX, -1}},
	}
	for _, c := range cases {
		if got := FacingForYaw(c.yaw); got != c.facing {
			t.Errorf("FacingForYaw(%d) = %+v, want %+v", c.yaw, got, c.facing)
		}
	}
}

func TestNewEntityAssignsUniqueIDs(t *testing.T) {
	a, err := NewEntity(KindDoor, Position{}, 90)
	if err != nil {
		t.Fatalf("NewEntity: unexpected error: %v", err)
	}
	b, err := NewEntity(KindDoor, Position{}, 90)
	if err != nil {
		t.Fatalf("NewEntity: unexpected error: %v", err)
	}
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
}

func TestNewEntityRejectsInvalidYaw(t *testing.T) {
	if _, err := NewEntity(KindDoor, Position{}, 45); err == nil {
		t.Fatal("expected an error for a non-cardinal yaw")
	}
}

func TestNewOtherEntityCarriesNameAndProperties(t *testing.T) {
	props := map[string]string{"voltage": "240"}
	e, err := NewOtherEntity(Position{X: 1, Y: 2, Z: 3}, 180, "breaker-panel", props)
	if err != nil {
		t.Fatalf("NewOtherEntity: unexpected error: %v", err)
	}
	if e.Kind != KindOther {
		t.Fatalf("Kind = %v, want KindOther", e.Kind)
	}
	if e.Name != "breaker-panel" {
		t.Fatalf("Name = %q, want %q", e.Name, "breaker-panel")
	}
	if e.Properties["voltage"] != "240" {
		t.Fatalf("Properties[voltage] = %q, want %q", e.Properties["voltage"], "240")
	}

	data, err := json.Marshal(e.Kind)
	if err != nil {
		t.Fatalf("Marshal(Kind): unexpected error: %v", err)
	}
	if string(data) != `"other"` {
		t.Fatalf("Marshal(Kind) = %s, want %q", data, `"other"`)
	}

	var roundTripped Kind
	if err := json.Unmarshal(data, &roundTripped); err != nil {
		t.Fatalf("Unmarshal(Kind): unexpected error: %v", err)
	}
	if roundTripped != KindOther {
		t.Fatalf("round-tripped Kind = %v, want KindOther", roundTripped)
	}
}

func TestRoomVolumeContainsWithoutSubRegions(t *testing.T) {
	r := RoomVolume{Min: Position{0, 0, 0}, Max: Position{10, 5, 10}}
	if !r.Contains(Position{5, 2, 5}) {
		t.Fatal("expected point inside AABB to be contained")
	}
	if r.Contains(Position{11, 2, 5}) {
		t.Fatal("expected point outside AABB to not be contained")
	}
}

func TestRoomVolumeContainsRequiresSubRegionMatch(t *testing.T) {
	r := RoomVolume{
		Min: Position{0, 0, 0}, Max: Position{10, 5, 10},
		SubRegions: []RoomVolume{
			{Min: Position{0, 0, 0}, Max: Position{2, 5, 2}},
		},
	}
	if !r.Contains(Position{1, 1, 1}) {
		t.Fatal("point inside sub-region must be contained")
	}
	if r.Contains(Position{8, 1, 8}) {
		t.Fatal("point inside outer AABB but outside every sub-region must not be contained")
	}
}
