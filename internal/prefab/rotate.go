// Package prefab expands reusable voxel templates into world voxels and
// entities under rigid-body Y-axis rotation (spec.md §4.7).
//
// Grounded on dantero-ps-mini-mc-go's pkg/blockmodel package, which applied
// a fixed rotation table to local block-model coordinates when placing a
// model in the world; shipvox generalises that table to the full
// resolve/applyToWorld/checkCollision/preview surface spec.md names, and
// adds the embedded-entity and connector bookkeeping the teacher's
// block-model format never needed.
package prefab

import "shipvox/internal/voxel"

// RotateY90 applies spec.md §4.7's fixed Y-axis rotation table to a local
// coordinate. yaw must already be one of the canonical values 0, 90, 180,
// 270 — callers validate via model.NormalizeYaw before reaching here; any
// other value is treated as 0 rather than silently rounded.
func RotateY90(p voxel.Coord, yaw int) voxel.Coord {
	switch yaw {
	case 90:
		return voxel.Coord{X: -p.Z, Y: p.Y, Z: p.X}
	case 180:
		return voxel.Coord{X: -p.X, Y: p.Y, Z: -p.Z}
	case 270:
		return voxel.Coord{X: p.Z, Y: p.Y, Z: -p.X}
	default:
		return p
	}
}

// ComposeYaw combines an embedded entity's local yaw with the instance's
// yaw, per spec.md §4.7: (entity.yaw + instance.yaw) mod 360.
func ComposeYaw(entityYaw, instanceYaw int) int {
	m := (entityYaw + instanceYaw) % 360
	if m < 0 {
		m += 360
	}
	return m
}

// RotateAABB rotates the 8 corners of [min,max] by yaw and returns the
// componentwise min/max of the rotated corners.
func RotateAABB(min, max voxel.Coord, yaw int) (voxel.Coord, voxel.Coord) {
	corners := [8]voxel.Coord{
		{min.X, min.Y, min.Z}, {max.X, min.Y, min.Z},
		{min.X, max.Y, min.Z}, {max.X, max.Y, min.Z},
		{min.X, min.Y, max.Z}, {max.X, min.Y, max.Z},
		{min.X, max.Y, max.Z}, {max.X, max.Y, max.Z},
	}
	rMin := RotateY90(corners[0], yaw)
	rMax := rMin
	for _, c := range corners[1:] {
		r := RotateY90(c, yaw)
		rMin = rMin.Min(r)
		rMax = rMax.Max(r)
	}
	return rMin, rMax
}
