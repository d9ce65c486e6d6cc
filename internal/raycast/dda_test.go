package raycast

import (
	"math"
	"testing"

	"shipvox/internal/voxel"
	"shipvox/internal/worldgrid"
)

// S6 from spec.md §8: a WALL at (5,0,0), ray from the centre of voxel
// (0,0,0) along +X must hit voxel (5,0,0) on its NEG_X face.
func TestCastHitsFaceAndVoxel(t *testing.T) {
	w := worldgrid.New()
	w.SetVoxel(voxel.Coord{X: 5, Y: 0, Z: 0}, voxel.MakeCell(voxel.Wall, 0))

	origin := voxel.WorldPoint{X: voxel.VoxelSize / 2, Y: voxel.VoxelSize / 2, Z: voxel.VoxelSize / 2}
	dir := voxel.WorldPoint{X: 1, Y: 0, Z: 0}

	hit, ok := Cast(w, origin, dir, 100)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Voxel != (voxel.Coord{X: 5, Y: 0, Z: 0}) {
		t.Fatalf("voxel = %+v, want (5,0,0)", hit.Voxel)
	}
	if hit.Face != voxel.FaceNegX {
		t.Fatalf("face = %v, want FaceNegX", hit.Face)
	}
	if hit.Normal != (voxel.Coord{X: -1, Y: 0, Z: 0}) {
		t.Fatalf("normal = %+v, want (-1,0,0)", hit.Normal)
	}
	// Entry point is the boundary between voxel 4 and voxel 5, half a voxel
	// size short of the 5*VOXEL_SIZE centre-to-centre distance quoted in the
	// scenario — within a voxel's width of rounding either way.
	want := 5 * voxel.VoxelSize
	if math.Abs(hit.Distance-want) > voxel.VoxelSize {
		t.Fatalf("distance = %v, want within one voxel of %v", hit.Distance, want)
	}
}

func TestCastMissesWhenNoGeometry(t *testing.T) {
	w := worldgrid.New()
	origin := voxel.WorldPoint{X: voxel.VoxelSize / 2, Y: voxel.VoxelSize / 2, Z: voxel.VoxelSize / 2}
	dir := voxel.WorldPoint{X: 1, Y: 0, Z: 0}
	_, ok := Cast(w, origin, dir, 1)
	if ok {
		t.Fatal("expected no hit in an empty world")
	}
}

func TestCastZeroDirectionIsNoHit(t *testing.T) {
	w := worldgrid.New()
	origin := voxel.WorldPoint{}
	_, ok := Cast(w, origin, voxel.WorldPoint{}, 10)
	if ok {
		t.Fatal("zero-length direction must never hit")
	}
}

// Invariant 9: the returned voxel is exactly the single non-AIR cell the
// ray passes through, and the face's outward normal opposes the ray.
func TestCastFaceNormalOpposesRayDirection(t *testing.T) {
	w := worldgrid.New()
	w.SetVoxel(voxel.Coord{X: 0, Y: 0, Z: 3}, voxel.MakeCell(voxel.Wall, 0))
	origin := voxel.WorldPoint{X: voxel.VoxelSize / 2, Y: voxel.VoxelSize / 2, Z: voxel.VoxelSize / 2}
	dir := voxel.WorldPoint{X: 0, Y: 0, Z: 1}

	hit, ok := Cast(w, origin, dir, 100)
	if !ok {
		t.Fatal("expected a hit")
	}
	dot := hit.Normal.Z*int(dir.Z) + hit.Normal.X*int(dir.X) + hit.Normal.Y*int(dir.Y)
	if dot >= 0 {
		t.Fatalf("normal %+v does not oppose ray direction %+v", hit.Normal, dir)
	}
}

func TestAdjacentIsOneStepOutsideHitFace(t *testing.T) {
	w := worldgrid.New()
	w.SetVoxel(voxel.Coord{X: 5, Y: 0, Z: 0}, voxel.MakeCell(voxel.Wall, 0))
	origin := voxel.WorldPoint{X: voxel.VoxelSize / 2, Y: voxel.VoxelSize / 2, Z: voxel.VoxelSize / 2}
	hit, ok := Cast(w, origin, voxel.WorldPoint{X: 1, Y: 0, Z: 0}, 100)
	if !ok {
		t.Fatal("expected a hit")
	}
	adj := Adjacent(hit)
	if adj != (voxel.Coord{X: 4, Y: 0, Z: 0}) {
		t.Fatalf("adjacent = %+v, want (4,0,0)", adj)
	}
}

func TestCastStopsAtTransparentButNonAirCell(t *testing.T) {
	// Glass is non-AIR but transparent: the raycaster must still register
	// it as a hit, since it stops at the first non-AIR cell regardless of
	// solidity (spec.md §4.5).
	w := worldgrid.New()
	w.SetVoxel(voxel.Coord{X: 2, Y: 0, Z: 0}, voxel.MakeCell(voxel.Glass, 0))
	origin := voxel.WorldPoint{X: voxel.VoxelSize / 2, Y: voxel.VoxelSize / 2, Z: voxel.VoxelSize / 2}
	hit, ok := Cast(w, origin, voxel.WorldPoint{X: 1, Y: 0, Z: 0}, 100)
	if !ok {
		t.Fatal("expected a hit on the glass cell")
	}
	if hit.Type != voxel.Glass {
		t.Fatalf("hit type = %v, want Glass", hit.Type)
	}
}

func TestBresenhamEndpointsInclusive(t *testing.T) {
	pts := Bresenham3D(voxel.Coord{X: 0, Y: 0, Z: 0}, voxel.Coord{X: 5, Y: 0, Z: 0})
	if pts[0] != (voxel.Coord{X: 0, Y: 0, Z: 0}) {
		t.Fatalf("first point = %+v, want origin", pts[0])
	}
	last := pts[len(pts)-1]
	if last != (voxel.Coord{X: 5, Y: 0, Z: 0}) {
		t.Fatalf("last point = %+v, want (5,0,0)", last)
	}
}

func TestBresenhamAxisAlignedHitsEveryVoxel(t *testing.T) {
	pts := Bresenham3D(voxel.Coord{X: 0, Y: 0, Z: 0}, voxel.Coord{X: 4, Y: 0, Z: 0})
	if len(pts) != 5 {
		t.Fatalf("len = %d, want 5 (inclusive of both endpoints)", len(pts))
	}
	for i, p := range pts {
		if p != (voxel.Coord{X: i, Y: 0, Z: 0}) {
			t.Fatalf("point %d = %+v, want (%d,0,0)", i, p, i)
		}
	}
}

func TestBresenhamDiagonalStaysConnected(t *testing.T) {
	pts := Bresenham3D(voxel.Coord{X: 0, Y: 0, Z: 0}, voxel.Coord{X: 4, Y: 2, Z: 1})
	for i := 1; i < len(pts); i++ {
		dx := absInt(pts[i].X - pts[i-1].X)
		dy := absInt(pts[i].Y - pts[i-1].Y)
		dz := absInt(pts[i].Z - pts[i-1].Z)
		if dx > 1 || dy > 1 || dz > 1 {
			t.Fatalf("step %d to %d is not 6/18/26-connected: %+v -> %+v", i-1, i, pts[i-1], pts[i])
		}
	}
	last := pts[len(pts)-1]
	if last != (voxel.Coord{X: 4, Y: 2, Z: 1}) {
		t.Fatalf("last point = %+v, want (4,2,1)", last)
	}
}

func TestBresenhamReverseIsSymmetric(t *testing.T) {
	forward := Bresenham3D(voxel.Coord{X: 1, Y: 2, Z: 3}, voxel.Coord{X: 9, Y: -4, Z: 7})
	backward := Bresenham3D(voxel.Coord{X: 9, Y: -4, Z: 7}, voxel.Coord{X: 1, Y: 2, Z: 3})
	if len(forward) != len(backward) {
		t.Fatalf("forward len %d != backward len %d", len(forward), len(backward))
	}
}

func TestBresenhamSinglePoint(t *testing.T) {
	pts := Bresenham3D(voxel.Coord{X: 3, Y: 3, Z: 3}, voxel.Coord{X: 3, Y: 3, Z: 3})
	if len(pts) != 1 || pts[0] != (voxel.Coord{X: 3, Y: 3, Z: 3}) {
		t.Fatalf("pts = %+v, want single point (3,3,3)", pts)
	}
}
