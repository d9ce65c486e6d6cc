package raycast

import "shipvox/internal/voxel"

// Bresenham3D enumerates every integer voxel coordinate on a straight line
// from start to end (inclusive of both endpoints) using the classic 3D
// Bresenham algorithm. Used by the editor's LINE brush (spec.md §4.5/§4.8).
func Bresenham3D(start, end voxel.Coord) []voxel.Coord {
	x0, y0, z0 := start.X, start.Y, start.Z
	x1, y1, z1 := end.X, end.Y, end.Z

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	dz := absInt(z1 - z0)

	sx := signInt(x1 - x0)
	sy := signInt(y1 - y0)
	sz := signInt(z1 - z0)

	points := []voxel.Coord{{X: x0, Y: y0, Z: z0}}

	x, y, z := x0, y0, z0

	switch {
	case dx >= dy && dx >= dz:
		errY := 2*dy - dx
		errZ := 2*dz - dx
		for x != x1 {
			x += sx
			if errY > 0 {
				y += sy
				errY -= 2 * dx
			}
			if errZ > 0 {
				z += sz
				errZ -= 2 * dx
			}
			errY += 2 * dy
			errZ += 2 * dz
			points = append(points, voxel.Coord{X: x, Y: y, Z: z})
		}
	case dy >= dx && dy >= dz:
		errX := 2*dx - dy
		errZ := 2*dz - dy
		for y != y1 {
			y += sy
			if errX > 0 {
				x += sx
				errX -= 2 * dy
			}
			if errZ > 0 {
				z += sz
				errZ -= 2 * dy
			}
			errX += 2 * dx
			errZ += 2 * dz
			points = append(points, voxel.Coord{X: x, Y: y, Z: z})
		}
	default:
		errX := 2*dx - dz
		errY := 2*dy - dz
		for z != z1 {
			z += sz
			if errX > 0 {
				x += sx
				errX -= 2 * dz
			}
			if errY > 0 {
				y += sy
				errY -= 2 * dz
			}
			errX += 2 * dx
			errY += 2 * dy
			points = append(points, voxel.Coord{X: x, Y: y, Z: z})
		}
	}

	return points
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func signInt(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
